// Package engine implements the rules of chess for a single game: move
// validation, special moves, check detection, game termination, undo history
// and algebraic notation. An Engine is not safe for concurrent use.
package engine

import (
	"fmt"
	"slices"
)

// Move is a from→to transition.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// Captured lists captured pieces by the colour of the piece taken.
type Captured struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func (c Captured) clone() Captured {
	return Captured{White: slices.Clone(c.White), Black: slices.Clone(c.Black)}
}

func (c *Captured) add(p Piece) {
	if p.Color == White {
		c.White = append(c.White, p)
	} else {
		c.Black = append(c.Black, p)
	}
}

// PendingPromotion is a pawn move that reached the last rank and waits for
// the promotion piece.
type PendingPromotion struct {
	From    Square `json:"from"`
	To      Square `json:"to"`
	Color   Color  `json:"color"`
	Capture bool   `json:"capture"`
	castle  string
}

// Outcome describes the effect of a successful command.
type Outcome struct {
	Notation         string
	Captured         Piece
	PromotionPending bool
	Status           Status
}

type Engine struct {
	pos       Position
	start     Position
	captured  Captured
	lastMove  *Move
	pending   *PendingPromotion
	status    Status
	moves     []string
	positions []uint64
	undo      []snapshot
}

// New returns an engine set up in the standard initial position.
func New() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// NewFromFEN returns an engine starting from the given position.
func NewFromFEN(fen string) (*Engine, error) {
	pos, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	e := &Engine{}
	e.resetTo(pos)
	return e, nil
}

// Reset discards the game and all history and restores the initial position.
func (e *Engine) Reset() {
	e.resetTo(NewPosition())
}

func (e *Engine) resetTo(pos Position) {
	*e = Engine{pos: pos, start: pos}
	e.positions = []uint64{pos.Hash()}
	e.status = e.classify()
}

func (e *Engine) mutable() error {
	if e.pending != nil {
		return ErrPromotionPending
	}
	if e.status.Over() {
		return ErrGameOver
	}
	return nil
}

// IsLegalMove reports whether from→to may be applied now.
func (e *Engine) IsLegalMove(from, to Square) bool {
	return e.mutable() == nil && e.pos.IsLegalMove(from, to)
}

// LegalDestinations lists the squares the piece on from may move to now.
func (e *Engine) LegalDestinations(from Square) []Square {
	if e.mutable() != nil {
		return nil
	}
	return e.pos.LegalDestinations(from)
}

// LegalMoves lists every move the side to move may apply now.
func (e *Engine) LegalMoves() []Move {
	if e.mutable() != nil {
		return nil
	}
	return e.pos.LegalMoves()
}

func (e *Engine) IsInCheck(c Color) bool {
	return e.pos.IsInCheck(c)
}

// ApplyMove plays from→to. A pawn reaching the last rank leaves the move
// pending until CompletePromotion. Rejected moves change nothing.
func (e *Engine) ApplyMove(from, to Square) (Outcome, error) {
	if err := e.mutable(); err != nil {
		return Outcome{}, err
	}
	if !e.pos.IsLegalMove(from, to) {
		return Outcome{}, fmt.Errorf("%s%s: %w", from, to, ErrIllegalMove)
	}

	e.pushSnapshot()

	piece := e.pos.Board[from]
	promotes := e.pos.isPromotion(from, to)
	disambig := e.pos.disambiguation(from, to)
	fx := e.pos.play(from, to)
	capture := !fx.captured.IsEmpty()
	if capture {
		e.captured.add(fx.captured)
	}

	if promotes {
		e.pending = &PendingPromotion{
			From:    from,
			To:      to,
			Color:   piece.Color,
			Capture: capture,
			castle:  fx.castle,
		}
		e.lastMove = &Move{From: from, To: to}
		return Outcome{Captured: fx.captured, PromotionPending: true, Status: e.status}, nil
	}

	out := e.finish(from, to, san(piece, from, to, capture, fx.castle, disambig))
	out.Captured = fx.captured
	return out, nil
}

// CompletePromotion resolves a pending promotion with a queen, rook, bishop
// or knight and finishes the move.
func (e *Engine) CompletePromotion(t PieceType) (Outcome, error) {
	if e.pending == nil {
		return Outcome{}, ErrNoPendingPromotion
	}
	switch t {
	case Queen, Rook, Bishop, Knight:
	default:
		return Outcome{}, fmt.Errorf("%s: %w", t, ErrInvalidPromotion)
	}

	pp := *e.pending
	e.pending = nil
	e.pos.Board[pp.To] = Piece{Type: t, Color: pp.Color}
	e.pos.HalfMoveClock = 0

	notation := san(Piece{Type: Pawn, Color: pp.Color}, pp.From, pp.To, pp.Capture, pp.castle, "") + "=" + t.Letter()
	return e.finish(pp.From, pp.To, notation), nil
}

func (e *Engine) finish(from, to Square, notation string) Outcome {
	e.moves = append(e.moves, notation)
	e.lastMove = &Move{From: from, To: to}
	e.pos.switchTurn()
	e.positions = append(e.positions, e.pos.Hash())
	e.evaluate()
	return Outcome{Notation: e.moves[len(e.moves)-1], Status: e.status}
}

// ForceEnd terminates the game from outside the rules, e.g. on resignation,
// flag fall or agreed draw. An unfinished promotion move is taken back first.
func (e *Engine) ForceEnd(r Result, t Termination) error {
	if e.status.Over() {
		return ErrGameOver
	}
	switch r {
	case WhiteWins, BlackWins, Draw:
	default:
		return fmt.Errorf("%q: %w", r, ErrInvalidResult)
	}
	if t == NotTerminated {
		return fmt.Errorf("no termination given: %w", ErrInvalidResult)
	}
	if e.pending != nil {
		e.pending = nil
		e.popSnapshot()
	}
	e.status = finished(r, t, e.pos.IsInCheck(e.pos.Turn))
	return nil
}

// Resign ends the game as a loss for c.
func (e *Engine) Resign(c Color) error {
	return e.ForceEnd(WinFor(c.Opposite()), Resignation)
}

// FlagFall ends the game as a loss on time for c.
func (e *Engine) FlagFall(c Color) error {
	return e.ForceEnd(WinFor(c.Opposite()), TimeForfeit)
}

// Position returns a copy of the current position.
func (e *Engine) Position() Position { return e.pos }

// Start returns the position the game began from.
func (e *Engine) Start() Position { return e.start }

func (e *Engine) Board() [64]Piece { return e.pos.Board }

func (e *Engine) Turn() Color { return e.pos.Turn }

func (e *Engine) Status() Status { return e.status }

func (e *Engine) FEN() string { return e.pos.FEN() }

func (e *Engine) LastMove() (Move, bool) {
	if e.lastMove == nil {
		return Move{}, false
	}
	return *e.lastMove, true
}

func (e *Engine) PendingPromotion() (PendingPromotion, bool) {
	if e.pending == nil {
		return PendingPromotion{}, false
	}
	return *e.pending, true
}

// Captured returns copies of the captured-piece lists.
func (e *Engine) Captured() Captured { return e.captured.clone() }

// MaterialBalance is white's material advantage from captures.
func (e *Engine) MaterialBalance() int {
	balance := 0
	for _, p := range e.captured.Black {
		balance += p.Type.Value()
	}
	for _, p := range e.captured.White {
		balance -= p.Type.Value()
	}
	return balance
}

// History returns the notation of every completed move.
func (e *Engine) History() []string { return slices.Clone(e.moves) }
