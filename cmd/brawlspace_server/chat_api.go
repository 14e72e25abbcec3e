package main

import (
	"github.com/gofiber/fiber/v2"
)

type PostMessageRequest struct {
	Content string `json:"content"`
}

func getHistoryHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		msgs, err := app.engine.History(id)
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.JSON(msgs)
	}
}

func getPostMessageHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		req := new(PostMessageRequest)

		if err := ctx.BodyParser(req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		msg, err := app.engine.SendMessage(id, UserID(ctx), req.Content)
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.Status(fiber.StatusCreated).JSON(msg)
	}
}
