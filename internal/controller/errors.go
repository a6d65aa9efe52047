package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotInGame),
		errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, model.ErrAlreadyConnected),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrPromotionPending),
		errors.Is(err, engine.ErrNoPendingPromotion),
		errors.Is(err, engine.ErrNothingToUndo):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNoPlayerID),
		errors.Is(err, engine.ErrIllegalMove),
		errors.Is(err, engine.ErrInvalidPromotion),
		errors.Is(err, engine.ErrInvalidSquare),
		errors.Is(err, engine.ErrInvalidFEN):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
