package main

import (
	"github.com/gofiber/fiber/v2"
)

func getJoinHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		if err := app.engine.Join(id, UserID(ctx)); err != nil {
			return respondErr(ctx, err)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func getLeaveHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		if err := app.engine.Leave(id, UserID(ctx)); err != nil {
			return respondErr(ctx, err)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func getKickHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		target, err := ctx.ParamsInt("brawler_id")
		if err != nil || target <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid brawler id")
		}

		if err := app.engine.Kick(id, UserID(ctx), uint(target)); err != nil {
			return respondErr(ctx, err)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func getRosterHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		crew, err := app.engine.Roster(id)
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.JSON(crew)
	}
}
