package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// lockedConn serialises writes: broadcasts and replies to the reader loop
// share one connection.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

type WebSocketController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection serves /ws/game/:gameId: it streams game states to the
// client and executes the commands it sends.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	logger := wsc.logger.With(zap.String("game_id", gameID), zap.String("player_id", playerID))
	conn := &lockedConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		logger.Info("connection rejected", zap.Error(err))
		wsc.sendError(conn, err)
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("connection closed", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			logger.Debug("command rejected", zap.String("type", string(msg.Type)), zap.Error(err))
			wsc.sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	case ws.MessageTypePromote:
		var p ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		return wsc.gameService.Promote(gameID, playerID, model.PieceType(p.Piece))
	case ws.MessageTypeUndo:
		return wsc.gameService.Undo(gameID, playerID)
	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)
	case ws.MessageTypeReset:
		return wsc.gameService.Reset(gameID, playerID)
	case ws.MessageTypeDrawOffer, ws.MessageTypeDraw:
		return wsc.gameService.OfferDraw(gameID, playerID)
	}
	return fmt.Errorf("unknown message type: %s", msg.Type)
}

func (wsc *WebSocketController) sendError(conn model.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		wsc.logger.Error("failed to encode error message", zap.Error(merr))
		return
	}
	if werr := conn.WriteJSON(msg); werr != nil {
		wsc.logger.Debug("failed to send error message", zap.Error(werr))
	}
}

// HandleMatchmaking serves /ws/matchmaking: the player is queued and the
// match-found event is pushed once an opponent is paired. Closing the socket
// leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)
	conn := &lockedConn{conn: c}

	ch := make(chan model.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, service.ErrAlreadyQueued) {
		wsc.sendError(conn, err)
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()
	// The reader must be done before the handler returns the conn.
	defer func() {
		c.Close()
		<-closed
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			wsc.sendError(conn, service.ErrMatchmakingCancelled)
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
		if err != nil {
			wsc.logger.Error("failed to encode match event", zap.Error(err))
			return
		}
		if err := conn.WriteJSON(msg); err != nil {
			wsc.logger.Warn("failed to deliver match event", zap.String("player_id", playerID), zap.Error(err))
		}
	case <-closed:
	}
}
