package engine

// IsValidMoveRaw reports whether the piece on from may move to to by its
// movement pattern alone, ignoring whether its own king is left in check.
// In attack mode pawns only attack diagonally and the king never castles.
func (p *Position) IsValidMoveRaw(from, to Square, forAttack bool) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	piece := p.Board[from]
	if piece.IsEmpty() {
		return false
	}
	target := p.Board[to]
	if !target.IsEmpty() && target.Color == piece.Color {
		return false
	}

	dr := to.Row() - from.Row()
	dc := to.Col() - from.Col()

	switch piece.Type {
	case Pawn:
		return p.isValidPawnMove(piece.Color, from, to, forAttack)
	case Knight:
		return (abs(dr) == 2 && abs(dc) == 1) || (abs(dr) == 1 && abs(dc) == 2)
	case Bishop:
		return abs(dr) == abs(dc) && p.isPathClear(from, to)
	case Rook:
		return (dr == 0 || dc == 0) && p.isPathClear(from, to)
	case Queen:
		if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
			return false
		}
		return p.isPathClear(from, to)
	case King:
		if abs(dr) <= 1 && abs(dc) <= 1 {
			return true
		}
		if !forAttack && dr == 0 && abs(dc) == 2 {
			return p.canCastle(from, to)
		}
	}
	return false
}

func (p *Position) isValidPawnMove(c Color, from, to Square, forAttack bool) bool {
	dir, startRow := -1, 6
	if c == Black {
		dir, startRow = 1, 1
	}
	dr := to.Row() - from.Row()
	dc := to.Col() - from.Col()

	if forAttack {
		return abs(dc) == 1 && dr == dir
	}

	target := p.Board[to]
	if dc == 0 && target.IsEmpty() {
		if dr == dir {
			return true
		}
		if from.Row() == startRow && dr == 2*dir && p.Board[NewSquare(from.Row()+dir, from.Col())].IsEmpty() {
			return true
		}
	}

	if abs(dc) == 1 && dr == dir {
		return !target.IsEmpty() || to == p.EnPassant
	}
	return false
}

// isPathClear reports whether every square strictly between from and to on
// a straight line is empty.
func (p *Position) isPathClear(from, to Square) bool {
	dr := sign(to.Row() - from.Row())
	dc := sign(to.Col() - from.Col())
	r, c := from.Row()+dr, from.Col()+dc
	for r != to.Row() || c != to.Col() {
		if !p.Board[NewSquare(r, c)].IsEmpty() {
			return false
		}
		r += dr
		c += dc
	}
	return true
}

// canCastle checks every castling precondition for a king two-step from
// from to to: the right is held, the rook is home, the path is empty and
// the king neither starts in, passes through, nor lands on an attacked square.
func (p *Position) canCastle(from, to Square) bool {
	king := p.Board[from]
	if king.Type != King {
		return false
	}
	home := E1
	if king.Color == Black {
		home = E8
	}
	if from != home {
		return false
	}
	row := from.Row()
	enemy := king.Color.Opposite()

	if p.IsInCheck(king.Color) {
		return false
	}

	var rookCol int
	var between, passes []int
	switch to.Col() {
	case 6:
		if !p.Castling.KingSide(king.Color) {
			return false
		}
		rookCol, between, passes = 7, []int{5, 6}, []int{5, 6}
	case 2:
		if !p.Castling.QueenSide(king.Color) {
			return false
		}
		rookCol, between, passes = 0, []int{1, 2, 3}, []int{3, 2}
	default:
		return false
	}

	if !p.Board[NewSquare(row, rookCol)].Is(Rook, king.Color) {
		return false
	}
	for _, col := range between {
		if !p.Board[NewSquare(row, col)].IsEmpty() {
			return false
		}
	}
	for _, col := range passes {
		if p.IsSquareAttacked(NewSquare(row, col), enemy) {
			return false
		}
	}
	return true
}

// IsLegalMove reports whether the side to move may play from→to: the piece
// belongs to the side to move, the raw pattern holds and the mover's king is
// not left in check.
func (p *Position) IsLegalMove(from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	piece := p.Board[from]
	if piece.IsEmpty() || piece.Color != p.Turn {
		return false
	}
	if !p.IsValidMoveRaw(from, to, false) {
		return false
	}
	return !p.WouldBeInCheck(from, to, piece.Color)
}

// LegalDestinations lists every square the piece on from may legally move
// to, in ascending order.
func (p *Position) LegalDestinations(from Square) []Square {
	var dests []Square
	if !from.Valid() || p.Board[from].IsEmpty() || p.Board[from].Color != p.Turn {
		return dests
	}
	for to := Square(0); to < 64; to++ {
		if p.IsLegalMove(from, to) {
			dests = append(dests, to)
		}
	}
	return dests
}

// LegalMoves lists every legal move of the side to move. A promotion counts
// once regardless of the piece chosen.
func (p *Position) LegalMoves() []Move {
	var moves []Move
	for from := Square(0); from < 64; from++ {
		for _, to := range p.LegalDestinations(from) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	for from := Square(0); from < 64; from++ {
		if p.Board[from].IsEmpty() || p.Board[from].Color != p.Turn {
			continue
		}
		for to := Square(0); to < 64; to++ {
			if p.IsLegalMove(from, to) {
				return true
			}
		}
	}
	return false
}

// isPromotion reports whether moving the piece on from to to reaches the last rank.
func (p *Position) isPromotion(from, to Square) bool {
	return p.Board[from].Type == Pawn && (to.Row() == 0 || to.Row() == 7)
}
