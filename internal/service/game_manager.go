package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")

	// ErrMatchmakingCancelled ends a matchmaking wait that will get no match.
	ErrMatchmakingCancelled = errors.New("matchmaking cancelled")

	ErrGameFull      = model.ErrGameFull
	ErrNotInGame     = model.ErrNotInGame
	ErrNotYourTurn   = model.ErrNotYourTurn
	ErrAlreadyQueued = model.ErrAlreadyQueued
	ErrNoPlayerID    = model.ErrNoPlayerID
)

// GameManager owns every hosted game and the matchmaking queue.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	clockTime        time.Duration
	logger           *zap.Logger
	mu               sync.RWMutex
}

func NewGameManager(clockTime time.Duration, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		clockTime:        clockTime,
		logger:           logger,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers starts a game for each pair of queued players, longest
// waiting first, and notifies them. It returns the number of games started.
func (gm *GameManager) matchPlayers() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	started := 0
	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return started
		}

		gameID := uuid.New().String()
		game, err := model.NewGame(gameID, gm.gameOptions(""))
		if err != nil {
			gm.logger.Error("failed to create matched game", zap.Error(err))
			gm.queue.Requeue(player1, player2)
			return started
		}
		p1Color, err1 := game.AddPlayer(player1.ID)
		p2Color, err2 := game.AddPlayer(player2.ID)
		if err1 != nil || err2 != nil {
			gm.releasePlayer(player1, err1)
			gm.releasePlayer(player2, err2)
			continue
		}
		gm.games[gameID] = game
		started++
		gm.logger.Info("match found",
			zap.String("game_id", gameID),
			zap.String("white", player1.ID),
			zap.String("black", player2.ID),
		)

		gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// notifyMatch delivers the event and retires the player's channel. The
// caller holds gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		gm.logger.Warn("matched player has no matchmaking channel", zap.String("player_id", playerID))
		return
	}
	select {
	case ch <- event:
	default:
		gm.logger.Warn("failed to send match found event", zap.String("player_id", playerID))
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

// releasePlayer handles one side of a pairing that could not be seated. A
// player whose seat failed is dropped and their wait ends; the other goes
// back to the head of the queue. The caller holds gm.mu.
func (gm *GameManager) releasePlayer(player model.Player, seatErr error) {
	if seatErr == nil {
		gm.queue.Requeue(player)
		return
	}
	gm.logger.Error("failed to seat matched player", zap.String("player_id", player.ID), zap.Error(seatErr))
	if ch, ok := gm.matchingChannels[player.ID]; ok {
		delete(gm.matchingChannels, player.ID)
		close(ch)
	}
}

// RegisterMatchmakingChannel subscribes ch to the player's match-found event.
// A channel registered earlier for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel closes ch if it is still registered and takes
// the player out of the queue.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		close(ch)
		if gm.queue.Remove(playerID) {
			gm.logger.Debug("player left matchmaking", zap.String("player_id", playerID))
		}
	}
}

func (gm *GameManager) gameOptions(fen string) model.Options {
	return model.Options{FEN: fen, ClockTime: gm.clockTime, Logger: gm.logger}
}

func (gm *GameManager) CreateGame(gameID, fen string) error {
	game, err := model.NewGame(gameID, gm.gameOptions(fen))
	if err != nil {
		return err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	gm.logger.Debug("player queued", zap.String("player_id", playerID))
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
