package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads a position from Forsyth-Edwards Notation. The clock fields
// are optional. Each side must have exactly one king.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Position{}, fmt.Errorf("want at least 4 fields, got %d: %w", len(fields), ErrInvalidFEN)
	}
	pos := Position{EnPassant: NoSquare, FullMoveNumber: 1}

	if err := parsePlacement(&pos, fields[0]); err != nil {
		return Position{}, err
	}

	switch fields[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
	default:
		return Position{}, fmt.Errorf("side to move %q: %w", fields[1], ErrInvalidFEN)
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				pos.Castling.WhiteKingSide = true
			case 'Q':
				pos.Castling.WhiteQueenSide = true
			case 'k':
				pos.Castling.BlackKingSide = true
			case 'q':
				pos.Castling.BlackQueenSide = true
			default:
				return Position{}, fmt.Errorf("castling %q: %w", fields[2], ErrInvalidFEN)
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("en passant %q: %w", fields[3], ErrInvalidFEN)
		}
		if !pos.validEnPassant(sq) {
			return Position{}, fmt.Errorf("en passant %s without a double-pushed pawn: %w", sq, ErrInvalidFEN)
		}
		pos.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return Position{}, fmt.Errorf("half-move clock %q: %w", fields[4], ErrInvalidFEN)
		}
		pos.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return Position{}, fmt.Errorf("full-move number %q: %w", fields[5], ErrInvalidFEN)
		}
		pos.FullMoveNumber = n
	}
	return pos, nil
}

// validEnPassant reports whether sq can be the target left by the opponent's
// double pawn push: empty, on the third rank from the pusher's side, with the
// pusher's pawn beyond it and its start square vacated.
func (p *Position) validEnPassant(sq Square) bool {
	pusher, row, ahead := Black, 2, 8
	if p.Turn == Black {
		pusher, row, ahead = White, 5, -8
	}
	if sq.Row() != row || !p.Board[sq].IsEmpty() {
		return false
	}
	return p.Board[sq+Square(ahead)].Is(Pawn, pusher) && p.Board[sq-Square(ahead)].IsEmpty()
}

func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("want 8 ranks, got %d: %w", len(ranks), ErrInvalidFEN)
	}
	kings := map[Color]int{}
	for row, rank := range ranks {
		col := 0
		for _, c := range rank {
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			t, ok := ParsePieceType(string(c))
			if !ok {
				return fmt.Errorf("piece %q: %w", c, ErrInvalidFEN)
			}
			if col > 7 {
				return fmt.Errorf("rank %d overflows: %w", 8-row, ErrInvalidFEN)
			}
			color := White
			if unicode.IsLower(c) {
				color = Black
			}
			if t == King {
				kings[color]++
			}
			pos.Board[NewSquare(row, col)] = Piece{Type: t, Color: color}
			col++
		}
		if col != 8 {
			return fmt.Errorf("rank %d has %d files: %w", 8-row, col, ErrInvalidFEN)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("need one king per side: %w", ErrInvalidFEN)
	}
	return nil
}

// FEN renders the position in Forsyth-Edwards Notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			pc := p.Board[NewSquare(row, col)]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteRune(pc.FENRune())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.Turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castling := ""
	if p.Castling.WhiteKingSide {
		castling += "K"
	}
	if p.Castling.WhiteQueenSide {
		castling += "Q"
	}
	if p.Castling.BlackKingSide {
		castling += "k"
	}
	if p.Castling.BlackQueenSide {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	fmt.Fprintf(&sb, " %s %d %d", p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
