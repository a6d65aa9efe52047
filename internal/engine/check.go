package engine

// IsSquareAttacked reports whether any piece of byColor attacks sq. It uses
// raw attack patterns only and never asks whether the attacker is pinned.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	for from := Square(0); from < 64; from++ {
		pc := p.Board[from]
		if pc.IsEmpty() || pc.Color != byColor {
			continue
		}
		if p.IsValidMoveRaw(from, sq, true) {
			return true
		}
	}
	return false
}

// IsInCheck reports whether c's king is attacked. A side without a king is
// never in check.
func (p *Position) IsInCheck(c Color) bool {
	king := p.findKing(c)
	if king == NoSquare {
		return false
	}
	return p.IsSquareAttacked(king, c.Opposite())
}

// WouldBeInCheck plays from→to on a copy of the position, including en
// passant and castling side effects, and reports whether c is then in check.
// The receiver is never modified.
func (p *Position) WouldBeInCheck(from, to Square, c Color) bool {
	scratch := *p
	scratch.movePieces(from, to)
	return scratch.IsInCheck(c)
}
