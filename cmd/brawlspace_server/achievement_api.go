package main

import (
	"github.com/gofiber/fiber/v2"
)

func getAchievementsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.dbm.AchievementQuery().Get())
	}
}

func getMyAchievementsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.dbm.AchievementsWithEarned(UserID(ctx)))
	}
}
