package main

import (
	"github.com/gofiber/fiber/v2"
)

func getInviteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		target, err := ctx.ParamsInt("brawler_id")
		if err != nil || target <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid brawler id")
		}

		inv, err := app.engine.Invite(id, UserID(ctx), uint(target))
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.Status(fiber.StatusCreated).JSON(inv)
	}
}

func getPendingInvitesHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.engine.PendingInvites(UserID(ctx)))
	}
}

func getInviteAcceptHandler(app *App) fiber.Handler {
	return inviteActionHandler(app.engine.Accept)
}

func getInviteDeclineHandler(app *App) fiber.Handler {
	return inviteActionHandler(app.engine.Decline)
}

func inviteActionHandler(op func(inviteID, brawlerID uint) error) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid invite id")
		}

		if err := op(uint(id), UserID(ctx)); err != nil {
			return respondErr(ctx, err)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}
