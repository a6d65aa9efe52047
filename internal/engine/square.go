package engine

import "fmt"

// Square indexes the board row-major from a8 (0) to h1 (63).
type Square int

const NoSquare Square = -1

const (
	A8 Square = 0
	E8 Square = 4
	H8 Square = 7
	A1 Square = 56
	E1 Square = 60
	H1 Square = 63
)

func NewSquare(row, col int) Square {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare
	}
	return Square(row*8 + col)
}

func (s Square) Valid() bool {
	return s >= 0 && s < 64
}

func (s Square) Row() int { return int(s) / 8 }
func (s Square) Col() int { return int(s) % 8 }

// File is the file letter, "a".."h".
func (s Square) File() string {
	return string(rune('a' + s.Col()))
}

// Rank is the rank digit, "1".."8".
func (s Square) Rank() string {
	return string(rune('8' - s.Row()))
}

// IsLight reports the square colour; only the comparison between squares matters.
func (s Square) IsLight() bool {
	return (s.Row()+s.Col())%2 == 0
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return s.File() + s.Rank()
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 || str[0] < 'a' || str[0] > 'h' || str[1] < '1' || str[1] > '8' {
		return NoSquare, fmt.Errorf("%q: %w", str, ErrInvalidSquare)
	}
	return NewSquare(int('8'-str[1]), int(str[0]-'a')), nil
}
