package engine

// snapshot is everything Undo needs to restore the state before a move.
type snapshot struct {
	pos          Position
	captured     Captured
	lastMove     *Move
	status       Status
	positionsLen int
	movesLen     int
}

func (e *Engine) pushSnapshot() {
	s := snapshot{
		pos:          e.pos,
		captured:     e.captured.clone(),
		status:       e.status,
		positionsLen: len(e.positions),
		movesLen:     len(e.moves),
	}
	if e.lastMove != nil {
		m := *e.lastMove
		s.lastMove = &m
	}
	e.undo = append(e.undo, s)
}

func (e *Engine) popSnapshot() {
	n := len(e.undo) - 1
	s := e.undo[n]
	e.undo = e.undo[:n]

	e.pos = s.pos
	e.captured = s.captured
	e.lastMove = s.lastMove
	e.status = s.status
	e.positions = e.positions[:s.positionsLen]
	e.moves = e.moves[:s.movesLen]
}

// Undo takes back the last completed move. It is refused while a promotion
// is pending, after the game has ended, or when there is nothing to undo.
func (e *Engine) Undo() error {
	if err := e.mutable(); err != nil {
		return err
	}
	if len(e.undo) == 0 {
		return ErrNothingToUndo
	}
	e.popSnapshot()
	return nil
}

// CanUndo reports whether Undo would succeed.
func (e *Engine) CanUndo() bool {
	return e.mutable() == nil && len(e.undo) > 0
}
