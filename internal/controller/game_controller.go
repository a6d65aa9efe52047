package controller

import (
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GameController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewGameController(gameService *service.GameService, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameController{gameService: gameService, logger: logger}
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// LegalMoves answers GET /:gameId/moves?x=&y= with the destinations of the
// piece on that square.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := model.Position{X: c.QueryInt("x", -1), Y: c.QueryInt("y", -1)}
	if !from.Square().Valid() {
		return badRequest(c, "x and y must be between 0 and 7")
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

// respond replies with the game state after a successful command.
func (gc *GameController) respond(c *fiber.Ctx, err error) error {
	if err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return badRequest(c, "invalid move")
	}
	return gc.respond(c, gc.gameService.HandleMove(c.Params("gameId"), playerID(c), move))
}

type promoteRequest struct {
	Piece model.PieceType `json:"piece"`
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid promotion")
	}
	return gc.respond(c, gc.gameService.Promote(c.Params("gameId"), playerID(c), req.Piece))
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Undo(c.Params("gameId"), playerID(c)))
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Resign(c.Params("gameId"), playerID(c)))
}

func (gc *GameController) OfferDraw(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.OfferDraw(c.Params("gameId"), playerID(c)))
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Reset(c.Params("gameId"), playerID(c)))
}

func (gc *GameController) PGN(c *fiber.Ctx) error {
	pgn, err := gc.gameService.PGN(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(pgn)
}
