package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brawlspace/brawlspace/internal/model"
)

// respondErr maps engine errors onto HTTP statuses. Unknown errors bubble up
// to fiber's default 500 handler.
func respondErr(ctx *fiber.Ctx, err error) error {
	var status int

	switch {
	case errors.Is(err, model.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotAuthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrAlreadyJoined),
		errors.Is(err, model.ErrAlreadyInvited),
		errors.Is(err, model.ErrInviteNotPending),
		errors.Is(err, model.ErrMissionFull),
		errors.Is(err, model.ErrSelfJoin),
		errors.Is(err, model.ErrNotJoinable):
		status = fiber.StatusConflict
	default:
		return err
	}

	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
