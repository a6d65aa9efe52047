package model

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"go.uber.org/zap"
)

const DefaultClockTime = 10 * time.Minute

// Sounds hint the client which effect to play for the last change.
const (
	SoundMove     = "move"
	SoundCapture  = "capture"
	SoundCastle   = "castle"
	SoundCheck    = "check"
	SoundPromote  = "promote"
	SoundGameOver = "gameOver"
)

var sides = [2]engine.Color{engine.White, engine.Black}

var errClockNotExpired = errors.New("clock has not run out")

// Conn is the write side of a client connection.
type Conn interface {
	WriteJSON(v any) error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	// sendMu keeps broadcasts in the order their states were taken.
	sendMu sync.Mutex
}

func newGameConnections() *GameConnections {
	return &GameConnections{connections: make(map[string]Conn)}
}

type Options struct {
	// FEN is the starting position. Empty means the standard one.
	FEN       string
	ClockTime time.Duration
	Logger    *zap.Logger
}

// Game is one hosted game: the rules engine, the two seats, their clocks and
// the connections watching it. All methods are safe for concurrent use.
type Game struct {
	ID          string
	mu          sync.Mutex
	engine      *engine.Engine
	players     [2]Player
	clocks      [2]*Clock
	clockTime   time.Duration
	sound       string
	drawOffer   PlayerColor
	connections *GameConnections
	logger      *zap.Logger

	// clockHistory holds both clocks as they stood before each undoable move.
	clockHistory [][2]time.Duration
}

type GameState struct {
	ID              string                `json:"id"`
	Sound           string                `json:"sound"`
	Board           [8][8]*Piece          `json:"board"`
	ToMove          PlayerColor           `json:"toMove"`
	FEN             string                `json:"fen"`
	MoveHistory     []Move                `json:"moveHistory"`
	CapturedPieces  CapturedPieces        `json:"capturedPieces"`
	MaterialBalance int                   `json:"materialBalance"`
	IsCheck         bool                  `json:"isCheck"`
	Status          engine.Status         `json:"status"`
	Castling        engine.CastlingRights `json:"castling"`
	EnPassantTarget *Position             `json:"enPassantTarget"`
	LastMove        *SimpleMove           `json:"lastMove"`
	PromotionSquare *Position             `json:"promotionSquare"`
	CanUndo         bool                  `json:"canUndo"`
	DrawOffer       PlayerColor           `json:"drawOffer,omitempty"`
	Players         Players               `json:"players"`
}

func NewGame(id string, opts Options) (*Game, error) {
	eng := engine.New()
	if opts.FEN != "" {
		var err error
		if eng, err = engine.NewFromFEN(opts.FEN); err != nil {
			return nil, err
		}
	}
	if opts.ClockTime <= 0 {
		opts.ClockTime = DefaultClockTime
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	g := &Game{
		ID:          id,
		engine:      eng,
		clockTime:   opts.ClockTime,
		connections: newGameConnections(),
		logger:      opts.Logger.With(zap.String("game_id", id)),
	}
	g.resetClocks()
	return g, nil
}

func (g *Game) timesLeft() [2]time.Duration {
	return [2]time.Duration{g.clocks[engine.White].TimeLeft(), g.clocks[engine.Black].TimeLeft()}
}

func (g *Game) resetClocks() {
	g.clockHistory = nil
	for _, c := range sides {
		if g.clocks[c] != nil {
			g.clocks[c].Stop()
		}
		g.clocks[c] = NewClock(g.clockTime, func() { g.flag(c) })
	}
}

// update runs fn under the game lock and, if it succeeds, broadcasts the
// resulting state to every connection.
func (g *Game) update(fn func() error) error {
	g.mu.Lock()
	if err := fn(); err != nil {
		g.mu.Unlock()
		return err
	}
	state := g.state()
	g.connections.sendMu.Lock()
	g.mu.Unlock()

	defer g.connections.sendMu.Unlock()
	g.send(state)
	return nil
}

func (g *Game) seat(playerID string) (engine.Color, error) {
	for _, c := range sides {
		if playerID != "" && g.players[c].ID == playerID {
			return c, nil
		}
	}
	return engine.White, ErrNotInGame
}

func (g *Game) hasOpenSeat() bool {
	return g.players[engine.White].ID == "" || g.players[engine.Black].ID == ""
}

// AddPlayer seats the player at the first free colour, white first. A player
// already seated gets their colour back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	var color PlayerColor
	err := g.update(func() error {
		if playerID == "" {
			return ErrNotInGame
		}
		if c, err := g.seat(playerID); err == nil {
			color = colorOf(c)
			return nil
		}
		for _, c := range sides {
			if g.players[c].ID == "" {
				color = colorOf(c)
				g.players[c] = Player{ID: playerID, Color: color}
				g.logger.Info("player joined", zap.String("player_id", playerID), zap.String("color", string(color)))
				return nil
			}
		}
		return ErrGameFull
	})
	return color, err
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.seat(playerID)
	return err == nil
}

func (g *Game) ColorOf(playerID string) (PlayerColor, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, err := g.seat(playerID)
	if err != nil {
		return "", false
	}
	return colorOf(c), true
}

func (g *Game) HasOpenSeat() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasOpenSeat()
}

func promotionType(t PieceType) (engine.PieceType, error) {
	et, ok := t.engineType()
	switch {
	case !ok:
	case et == engine.Queen, et == engine.Rook, et == engine.Bishop, et == engine.Knight:
		return et, nil
	}
	return engine.NoPieceType, fmt.Errorf("%q: %w", t, engine.ErrInvalidPromotion)
}

// MakeMove plays a move for the player. If the move promotes and
// move.Promotion is set the promotion is completed too; otherwise the game
// waits for Promote.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	return g.update(func() error {
		color, err := g.seat(playerID)
		if err != nil {
			return err
		}
		if g.engine.Status().Over() {
			return engine.ErrGameOver
		}
		if color != g.engine.Turn() {
			return ErrNotYourTurn
		}
		promo := engine.NoPieceType
		if move.Promotion != "" {
			if promo, err = promotionType(move.Promotion); err != nil {
				return err
			}
		}

		times := g.timesLeft()
		out, err := g.engine.ApplyMove(move.From.Square(), move.To.Square())
		if err != nil {
			return err
		}
		g.clockHistory = append(g.clockHistory, times)
		if out.PromotionPending && promo != engine.NoPieceType {
			if out, err = g.engine.CompletePromotion(promo); err != nil {
				return err
			}
		}
		g.afterMove(playerID, out)
		return nil
	})
}

// Promote completes the player's pending promotion.
func (g *Game) Promote(playerID string, t PieceType) error {
	return g.update(func() error {
		color, err := g.seat(playerID)
		if err != nil {
			return err
		}
		pp, ok := g.engine.PendingPromotion()
		if !ok {
			return engine.ErrNoPendingPromotion
		}
		if pp.Color != color {
			return ErrNotYourTurn
		}
		promo, err := promotionType(t)
		if err != nil {
			return err
		}
		out, err := g.engine.CompletePromotion(promo)
		if err != nil {
			return err
		}
		g.afterMove(playerID, out)
		return nil
	})
}

func (g *Game) afterMove(playerID string, out engine.Outcome) {
	g.sound = soundOf(out)
	if !out.PromotionPending {
		g.drawOffer = ""
	}
	g.syncClocks()
	if out.Notation != "" {
		g.logger.Debug("move played", zap.String("player_id", playerID), zap.String("san", out.Notation))
	}
	if out.Status.Over() {
		g.logger.Info("game over", zap.String("result", string(out.Status.Result)), zap.String("reason", out.Status.Reason))
	}
}

func soundOf(out engine.Outcome) string {
	switch {
	case out.Status.Over():
		return SoundGameOver
	case out.PromotionPending:
		return SoundPromote
	case out.Status.Check:
		return SoundCheck
	case !out.Captured.IsEmpty():
		return SoundCapture
	case strings.HasPrefix(out.Notation, "O-O"):
		return SoundCastle
	}
	return SoundMove
}

// syncClocks runs the clock of the side to move once the first move has been
// played and stops everything when the game is over.
func (g *Game) syncClocks() {
	_, started := g.engine.LastMove()
	active := started && !g.engine.Status().Over()
	turn := g.engine.Turn()
	for _, c := range sides {
		if active && c == turn {
			g.clocks[c].Start()
		} else {
			g.clocks[c].Stop()
		}
	}
}

// Undo takes back the last move and puts both clocks back to where they
// stood before it. Either seated player may ask for it.
func (g *Game) Undo(playerID string) error {
	return g.update(func() error {
		if _, err := g.seat(playerID); err != nil {
			return err
		}
		if err := g.engine.Undo(); err != nil {
			return err
		}
		g.sound = ""
		g.drawOffer = ""
		g.syncClocks()
		if n := len(g.clockHistory); n > 0 {
			for _, c := range sides {
				g.clocks[c].SetTimeLeft(g.clockHistory[n-1][c])
			}
			g.clockHistory = g.clockHistory[:n-1]
		}
		g.logger.Debug("move taken back", zap.String("player_id", playerID))
		return nil
	})
}

func (g *Game) Resign(playerID string) error {
	return g.update(func() error {
		color, err := g.seat(playerID)
		if err != nil {
			return err
		}
		if err := g.engine.Resign(color); err != nil {
			return err
		}
		g.sound = SoundGameOver
		g.syncClocks()
		g.logger.Info("player resigned", zap.String("player_id", playerID))
		return nil
	})
}

// OfferDraw records a draw offer from the player. An offer made while the
// opponent's offer stands ends the game as an agreed draw.
func (g *Game) OfferDraw(playerID string) error {
	return g.update(func() error {
		color, err := g.seat(playerID)
		if err != nil {
			return err
		}
		if g.engine.Status().Over() {
			return engine.ErrGameOver
		}
		if g.drawOffer == colorOf(color.Opposite()) {
			if err := g.engine.ForceEnd(engine.Draw, engine.Agreement); err != nil {
				return err
			}
			g.drawOffer = ""
			g.sound = SoundGameOver
			g.syncClocks()
			g.logger.Info("draw agreed")
			return nil
		}
		g.drawOffer = colorOf(color)
		return nil
	})
}

// Reset starts the game over from the standard position with full clocks.
// The seats are kept.
func (g *Game) Reset(playerID string) error {
	return g.update(func() error {
		if _, err := g.seat(playerID); err != nil {
			return err
		}
		g.engine.Reset()
		g.resetClocks()
		g.sound = ""
		g.drawOffer = ""
		g.logger.Info("game reset", zap.String("player_id", playerID))
		return nil
	})
}

// flag is called by a side's clock when it runs out.
func (g *Game) flag(c engine.Color) {
	err := g.update(func() error {
		if g.engine.Status().Over() || g.clocks[c].TimeLeft() > 0 {
			return errClockNotExpired
		}
		if err := g.engine.FlagFall(c); err != nil {
			return err
		}
		g.sound = SoundGameOver
		g.syncClocks()
		g.logger.Info("flag fell", zap.String("color", c.String()))
		return nil
	})
	if err != nil && !errors.Is(err, errClockNotExpired) {
		g.logger.Warn("flag fall ignored", zap.Error(err))
	}
}

// LegalMoves lists the squares the piece on from may move to.
func (g *Game) LegalMoves(from Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	dests := g.engine.LegalDestinations(from.Square())
	out := make([]Position, 0, len(dests))
	for _, sq := range dests {
		out = append(out, positionOf(sq))
	}
	return out
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() GameState {
	pos := g.engine.Position()
	status := g.engine.Status()
	st := GameState{
		ID:              g.ID,
		Sound:           g.sound,
		Board:           boardOf(pos.Board),
		ToMove:          colorOf(pos.Turn),
		FEN:             pos.FEN(),
		MoveHistory:     pairMoves(g.engine.Start(), g.engine.History()),
		CapturedPieces:  capturedOf(g.engine.Captured()),
		MaterialBalance: g.engine.MaterialBalance(),
		IsCheck:         status.Check,
		Status:          status,
		Castling:        pos.Castling,
		EnPassantTarget: optionalPosition(pos.EnPassant),
		CanUndo:         g.engine.CanUndo(),
		DrawOffer:       g.drawOffer,
	}
	if m, ok := g.engine.LastMove(); ok {
		st.LastMove = &SimpleMove{From: positionOf(m.From), To: positionOf(m.To)}
	}
	if pp, ok := g.engine.PendingPromotion(); ok {
		st.PromotionSquare = optionalPosition(pp.To)
	}
	st.Players.White = g.clientPlayer(engine.White)
	st.Players.Black = g.clientPlayer(engine.Black)
	return st
}

func (g *Game) clientPlayer(c engine.Color) ClientPlayer {
	return ClientPlayer{
		ID:       g.players[c].ID,
		Color:    colorOf(c),
		TimeLeft: g.clocks[c].TimeLeft().Milliseconds(),
	}
}

// PGN exports the game with a seven-tag-roster style header dated now.
func (g *Game) PGN(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	name := func(c engine.Color) string {
		if id := g.players[c].ID; id != "" {
			return id
		}
		return "?"
	}
	return g.engine.PGN([]engine.Tag{
		{Name: "Event", Value: "Casual game"},
		{Name: "Site", Value: g.ID},
		{Name: "Date", Value: now.Format("2006.01.02")},
		{Name: "White", Value: name(engine.White)},
		{Name: "Black", Value: name(engine.Black)},
	})
}

// RegisterConnection subscribes conn to state broadcasts. Seated players may
// connect at any time, others only while a seat is open. The new connection
// receives the current state right away.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, err := g.seat(playerID)
	authorized := err == nil || g.hasOpenSeat()
	g.mu.Unlock()
	if !authorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.logger.Debug("connection registered", zap.String("player_id", playerID))

	return g.update(func() error { return nil })
}

// UnregisterConnection removes conn if it is still the player's current
// connection.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.logger.Debug("connection unregistered", zap.String("player_id", playerID))
	}
}

// send writes the state to every connection and drops the ones that fail.
// The caller holds connections.sendMu.
func (g *Game) send(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		g.logger.Error("failed to marshal game state", zap.Error(err))
		return
	}

	g.connections.mu.RLock()
	active := maps.Clone(g.connections.connections)
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			g.logger.Warn("failed to send state", zap.String("player_id", playerID), zap.Error(err))
			g.UnregisterConnection(playerID, conn)
		}
	}
}
