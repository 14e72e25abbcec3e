package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brawlspace/brawlspace/internal/mission"
)

func missionID(ctx *fiber.Ctx) (uint, error) {
	id, err := ctx.ParamsInt("id")

	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid mission id")
	}

	return uint(id), nil
}

func getMissionsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		f := mission.ListFilter{
			Status:   ctx.Query("status"),
			Name:     ctx.Query("name"),
			Category: ctx.Query("category"),
		}

		return ctx.JSON(app.engine.List(f, UserID(ctx)))
	}
}

func getMissionHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		dto, err := app.engine.Get(id, UserID(ctx))
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.JSON(dto)
	}
}

func getMissionCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := new(mission.AddMissionModel)

		if err := ctx.BodyParser(req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		m, err := app.engine.Create(UserID(ctx), *req)
		if err != nil {
			return respondErr(ctx, err)
		}

		dto, err := app.engine.Get(m.ID, UserID(ctx))
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.Status(fiber.StatusCreated).JSON(dto)
	}
}

func getMissionEditHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		req := new(mission.EditMissionModel)

		if err := ctx.BodyParser(req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		if err := app.engine.Edit(id, UserID(ctx), *req); err != nil {
			return respondErr(ctx, err)
		}

		dto, err := app.engine.Get(id, UserID(ctx))
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.JSON(dto)
	}
}

func getMissionDeleteHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		if err := app.engine.Remove(id, UserID(ctx)); err != nil {
			return respondErr(ctx, err)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func getMissionStartHandler(app *App) fiber.Handler {
	return lifecycleHandler(app, app.engine.Start)
}

func getMissionCompleteHandler(app *App) fiber.Handler {
	return lifecycleHandler(app, app.engine.Complete)
}

func getMissionFailHandler(app *App) fiber.Handler {
	return lifecycleHandler(app, app.engine.Fail)
}

func lifecycleHandler(app *App, op func(missionID, chiefID uint) error) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := missionID(ctx)
		if err != nil {
			return err
		}

		if err := op(id, UserID(ctx)); err != nil {
			return respondErr(ctx, err)
		}

		dto, err := app.engine.Get(id, UserID(ctx))
		if err != nil {
			return respondErr(ctx, err)
		}

		return ctx.JSON(dto)
	}
}
