package engine

import "strings"

// disambiguation returns the file, rank or square needed to tell the mover
// apart from other pieces of its kind that could also legally reach to.
// It must be computed on the position before the move.
func (p *Position) disambiguation(from, to Square) string {
	piece := p.Board[from]
	if piece.Type == Pawn || piece.Type == King {
		return ""
	}
	var others []Square
	for sq := Square(0); sq < 64; sq++ {
		if sq == from || p.Board[sq] != piece {
			continue
		}
		if p.IsLegalMove(sq, to) {
			others = append(others, sq)
		}
	}
	if len(others) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range others {
		if sq.Col() == from.Col() {
			sameFile = true
		}
		if sq.Row() == from.Row() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return from.File()
	case !sameRank:
		return from.Rank()
	}
	return from.String()
}

// san renders a move without check or promotion suffixes.
func san(piece Piece, from, to Square, capture bool, castle, disambig string) string {
	if castle != "" {
		return castle
	}
	var sb strings.Builder
	if piece.Type == Pawn {
		if capture {
			sb.WriteString(from.File())
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		return sb.String()
	}
	sb.WriteString(piece.Type.Letter())
	sb.WriteString(disambig)
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	return sb.String()
}

func (e *Engine) annotateLast(suffix string) {
	if n := len(e.moves); n > 0 {
		e.moves[n-1] += suffix
	}
}
