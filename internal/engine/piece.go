package engine

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, ok := ParseColor(string(b))
	if !ok {
		return fmt.Errorf("unknown colour %q", b)
	}
	*c = parsed
	return nil
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return White, false
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return ""
}

// Letter is the SAN letter of the piece type. Pawns have none.
func (t PieceType) Letter() string {
	switch t {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// Value is the material value used for the captured-pieces balance.
func (t PieceType) Value() int {
	switch t {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	}
	return 0
}

// ParsePieceType accepts full names ("queen") and SAN/FEN letters ("Q", "q").
func ParsePieceType(s string) (PieceType, bool) {
	switch s {
	case "pawn", "P", "p":
		return Pawn, true
	case "knight", "N", "n":
		return Knight, true
	case "bishop", "B", "b":
		return Bishop, true
	case "rook", "R", "r":
		return Rook, true
	case "queen", "Q", "q":
		return Queen, true
	case "king", "K", "k":
		return King, true
	}
	return NoPieceType, false
}

// Piece is the content of a square. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

var Empty = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

func (p Piece) Is(t PieceType, c Color) bool {
	return p.Type == t && p.Color == c
}

// FENRune returns the FEN character for the piece, upper case for white.
func (p Piece) FENRune() rune {
	var r rune
	switch p.Type {
	case Pawn:
		r = 'p'
	case Knight:
		r = 'n'
	case Bishop:
		r = 'b'
	case Rook:
		r = 'r'
	case Queen:
		r = 'q'
	case King:
		r = 'k'
	default:
		return 0
	}
	if p.Color == White {
		r -= 'a' - 'A'
	}
	return r
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}
