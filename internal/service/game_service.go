package service

import (
	"fmt"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GameService struct {
	gameManager *GameManager
	logger      *zap.Logger
	now         func() time.Time
}

func NewGameService(gameManager *GameManager, logger *zap.Logger) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{
		gameManager: gameManager,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateGame hosts a new game, from fen when it is not empty.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	gs.logger.Info("game created", zap.String("game_id", gameID), zap.Bool("custom_position", fen != ""))
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from), nil
}

func (gs *GameService) HandleMove(gameID, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) Promote(gameID, playerID string, piece model.PieceType) error {
	return gs.withGame(gameID, func(g *model.Game) error { return g.Promote(playerID, piece) })
}

func (gs *GameService) Undo(gameID, playerID string) error {
	return gs.withGame(gameID, func(g *model.Game) error { return g.Undo(playerID) })
}

func (gs *GameService) Resign(gameID, playerID string) error {
	return gs.withGame(gameID, func(g *model.Game) error { return g.Resign(playerID) })
}

func (gs *GameService) OfferDraw(gameID, playerID string) error {
	return gs.withGame(gameID, func(g *model.Game) error { return g.OfferDraw(playerID) })
}

func (gs *GameService) Reset(gameID, playerID string) error {
	return gs.withGame(gameID, func(g *model.Game) error { return g.Reset(playerID) })
}

func (gs *GameService) PGN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.PGN(gs.now()), nil
}

func (gs *GameService) withGame(gameID string, fn func(*model.Game) error) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return fn(game)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
