package engine

import "fmt"

// Termination is the reason a game ended.
type Termination int

const (
	NotTerminated Termination = iota
	Checkmate
	Stalemate
	ThreefoldRepetition
	FiftyMoveRule
	InsufficientMaterial
	Resignation
	TimeForfeit
	Agreement
)

func (t Termination) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case ThreefoldRepetition:
		return "threefold repetition"
	case FiftyMoveRule:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case Resignation:
		return "resignation"
	case TimeForfeit:
		return "time forfeit"
	case Agreement:
		return "agreement"
	}
	return "ongoing"
}

func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Termination) UnmarshalText(b []byte) error {
	for c := NotTerminated; c <= Agreement; c++ {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown termination %q", b)
}

// Result is the PGN game result token.
type Result string

const (
	Ongoing   Result = "*"
	WhiteWins Result = "1-0"
	BlackWins Result = "0-1"
	Draw      Result = "1/2-1/2"
)

// WinFor returns the result in which c wins.
func WinFor(c Color) Result {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Status classifies the current position.
type Status struct {
	Termination Termination `json:"termination"`
	Result      Result      `json:"result"`
	Check       bool        `json:"check"`
	Reason      string      `json:"reason"`
}

func (s Status) Over() bool {
	return s.Termination != NotTerminated
}

func ongoing(check bool) Status {
	return Status{Result: Ongoing, Check: check}
}

func finished(r Result, t Termination, check bool) Status {
	return Status{Termination: t, Result: r, Check: check, Reason: reason(r, t)}
}

func reason(r Result, t Termination) string {
	switch r {
	case WhiteWins:
		return fmt.Sprintf("white wins by %s", t)
	case BlackWins:
		return fmt.Sprintf("black wins by %s", t)
	}
	if t == Stalemate {
		return "draw by stalemate"
	}
	return fmt.Sprintf("draw by %s", t)
}

// InsufficientMaterial applies the simplified dead-position rule: at most
// four pieces, none of them a pawn, rook or queen, and either at most one
// minor piece or exactly two bishops standing on same-coloured squares.
func (p *Position) InsufficientMaterial() bool {
	total, minors := 0, 0
	var bishops []Square
	for sq, pc := range p.Board {
		if pc.IsEmpty() {
			continue
		}
		total++
		switch pc.Type {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			minors++
		case Bishop:
			minors++
			bishops = append(bishops, Square(sq))
		}
	}
	if total > 4 {
		return false
	}
	if minors <= 1 {
		return true
	}
	return minors == 2 && len(bishops) == 2 && bishops[0].IsLight() == bishops[1].IsLight()
}

// evaluate classifies the position after a completed move and appends the
// check or mate marker to the last notation entry.
func (e *Engine) evaluate() {
	e.status = e.classify()
	switch {
	case e.status.Termination == Checkmate:
		e.annotateLast("#")
	case !e.status.Over() && e.status.Check:
		e.annotateLast("+")
	}
}

// classify reports the status of the current position.
func (e *Engine) classify() Status {
	pos := &e.pos
	check := pos.IsInCheck(pos.Turn)

	switch {
	case e.repetitions(pos.Hash()) >= 3:
		return finished(Draw, ThreefoldRepetition, check)
	case pos.HalfMoveClock >= 100:
		return finished(Draw, FiftyMoveRule, check)
	case pos.InsufficientMaterial():
		return finished(Draw, InsufficientMaterial, check)
	case !pos.HasLegalMoves():
		if check {
			return finished(WinFor(pos.Turn.Opposite()), Checkmate, true)
		}
		return finished(Draw, Stalemate, false)
	}
	return ongoing(check)
}

func (e *Engine) repetitions(h uint64) int {
	n := 0
	for _, seen := range e.positions {
		if seen == h {
			n++
		}
	}
	return n
}
