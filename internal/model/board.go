package model

import "github.com/benbeisheim/chess-backend/internal/engine"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (t PieceType) engineType() (engine.PieceType, bool) {
	return engine.ParsePieceType(string(t))
}

type Piece struct {
	Type  PieceType   `json:"type"`
	Color PlayerColor `json:"color"`
}

// Position is a board coordinate as the client sees it: X is the file
// (0 = a) and Y the row from the top (0 = eighth rank).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Square returns engine.NoSquare for coordinates off the board.
func (p Position) Square() engine.Square {
	return engine.NewSquare(p.Y, p.X)
}

func positionOf(sq engine.Square) Position {
	return Position{X: sq.Col(), Y: sq.Row()}
}

func optionalPosition(sq engine.Square) *Position {
	if !sq.Valid() {
		return nil
	}
	p := positionOf(sq)
	return &p
}

func pieceOf(p engine.Piece) *Piece {
	if p.IsEmpty() {
		return nil
	}
	return &Piece{Type: PieceType(p.Type.String()), Color: colorOf(p.Color)}
}

func boardOf(b [64]engine.Piece) [8][8]*Piece {
	var out [8][8]*Piece
	for i, p := range b {
		sq := engine.Square(i)
		out[sq.Row()][sq.Col()] = pieceOf(p)
	}
	return out
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func capturedOf(c engine.Captured) CapturedPieces {
	out := CapturedPieces{
		White: make([]Piece, 0, len(c.White)),
		Black: make([]Piece, 0, len(c.Black)),
	}
	for _, p := range c.White {
		out.White = append(out.White, *pieceOf(p))
	}
	for _, p := range c.Black {
		out.Black = append(out.Black, *pieceOf(p))
	}
	return out
}
