package controller

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"go.uber.org/zap/zaptest"
)

type captureConn struct {
	msgs []ws.Message
}

func (c *captureConn) WriteJSON(v any) error {
	c.msgs = append(c.msgs, v.(ws.Message))
	return nil
}

func newWSFixture(t *testing.T) (*WebSocketController, *service.GameService, string) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gs := service.NewGameService(service.NewGameManager(time.Hour, logger), logger)
	id, err := gs.CreateGame("")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	for _, p := range []string{"alice", "bob"} {
		if _, err := gs.JoinGame(id, p); err != nil {
			t.Fatalf("JoinGame: %v", err)
		}
	}
	return NewWebSocketController(gs, logger), gs, id
}

func message(t *testing.T, typ ws.MessageType, payload any) ws.Message {
	t.Helper()
	if payload == nil {
		return ws.Message{Type: typ}
	}
	msg, err := ws.NewMessage(typ, payload)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return msg
}

func TestHandleMessage(t *testing.T) {
	wsc, gs, id := newWSFixture(t)
	e2e4 := model.WSMove{From: model.Position{X: 4, Y: 6}, To: model.Position{X: 4, Y: 4}}

	if err := wsc.handleMessage(id, "alice", message(t, ws.MessageTypeMove, e2e4)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := wsc.handleMessage(id, "bob", message(t, ws.MessageTypeUndo, nil)); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if err := wsc.handleMessage(id, "alice", message(t, ws.MessageTypePromote, ws.PromotePayload{Piece: "queen"})); !errors.Is(err, engine.ErrNoPendingPromotion) {
		t.Errorf("promote error = %v, want ErrNoPendingPromotion", err)
	}
	if err := wsc.handleMessage(id, "alice", message(t, ws.MessageTypeDrawOffer, nil)); err != nil {
		t.Fatalf("draw offer: %v", err)
	}
	if err := wsc.handleMessage(id, "bob", message(t, ws.MessageTypeDraw, nil)); err != nil {
		t.Fatalf("draw accept: %v", err)
	}

	st, err := gs.GetGameState(id)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if st.Status.Termination != engine.Agreement {
		t.Errorf("termination = %v, want agreement", st.Status.Termination)
	}

	if err := wsc.handleMessage(id, "alice", message(t, ws.MessageTypeReset, nil)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := wsc.handleMessage(id, "bob", message(t, ws.MessageTypeResign, nil)); err != nil {
		t.Fatalf("resign: %v", err)
	}
}

func TestHandleMessageRejects(t *testing.T) {
	wsc, _, id := newWSFixture(t)
	if err := wsc.handleMessage(id, "alice", ws.Message{Type: "castle-please"}); err == nil {
		t.Error("unknown message type accepted")
	}
	bad := ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`"e2e4"`)}
	if err := wsc.handleMessage(id, "alice", bad); err == nil {
		t.Error("malformed move payload accepted")
	}
}

func TestSendError(t *testing.T) {
	wsc, _, _ := newWSFixture(t)
	conn := &captureConn{}
	wsc.sendError(conn, model.ErrNotYourTurn)
	if len(conn.msgs) != 1 || conn.msgs[0].Type != ws.MessageTypeError {
		t.Fatalf("messages = %+v", conn.msgs)
	}
	var payload ws.ErrorPayload
	if err := json.Unmarshal(conn.msgs[0].Payload, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload.Error != "not your turn" {
		t.Errorf("error text = %q", payload.Error)
	}
}
