package engine

// CastlingRights holds the four independent castling permissions.
type CastlingRights struct {
	WhiteKingSide  bool `json:"whiteKingSide"`
	WhiteQueenSide bool `json:"whiteQueenSide"`
	BlackKingSide  bool `json:"blackKingSide"`
	BlackQueenSide bool `json:"blackQueenSide"`
}

var allCastlingRights = CastlingRights{true, true, true, true}

func (r CastlingRights) flags() [4]bool {
	return [4]bool{r.WhiteKingSide, r.WhiteQueenSide, r.BlackKingSide, r.BlackQueenSide}
}

func (r CastlingRights) KingSide(c Color) bool {
	if c == White {
		return r.WhiteKingSide
	}
	return r.BlackKingSide
}

func (r CastlingRights) QueenSide(c Color) bool {
	if c == White {
		return r.WhiteQueenSide
	}
	return r.BlackQueenSide
}

func (r *CastlingRights) revokeColor(c Color) {
	if c == White {
		r.WhiteKingSide, r.WhiteQueenSide = false, false
	} else {
		r.BlackKingSide, r.BlackQueenSide = false, false
	}
}

// revokeCorner drops the right tied to a rook home square once anything
// leaves or lands on it.
func (r *CastlingRights) revokeCorner(sq Square) {
	switch sq {
	case H1:
		r.WhiteKingSide = false
	case A1:
		r.WhiteQueenSide = false
	case H8:
		r.BlackKingSide = false
	case A8:
		r.BlackQueenSide = false
	}
}

// Position is the complete board state of a game. It is a plain value:
// copying it yields an independent position.
type Position struct {
	Board          [64]Piece
	Turn           Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition returns the standard initial position.
func NewPosition() Position {
	p := Position{
		Turn:           White,
		Castling:       allCastlingRights,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for col, t := range backRank {
		p.Board[NewSquare(0, col)] = Piece{t, Black}
		p.Board[NewSquare(1, col)] = Piece{Pawn, Black}
		p.Board[NewSquare(6, col)] = Piece{Pawn, White}
		p.Board[NewSquare(7, col)] = Piece{t, White}
	}
	return p
}

func (p *Position) findKing(c Color) Square {
	for sq, pc := range p.Board {
		if pc.Is(King, c) {
			return Square(sq)
		}
	}
	return NoSquare
}

// moveEffects records what a board mutation did beyond relocating the mover.
type moveEffects struct {
	captured   Piece
	capturedOn Square
	castle     string
}

// movePieces relocates the mover and performs the board side effects of
// en passant and castling. It is shared by real application and by check
// simulation so both see the same resulting board.
func (p *Position) movePieces(from, to Square) moveEffects {
	piece := p.Board[from]
	fx := moveEffects{captured: p.Board[to], capturedOn: to}
	if fx.captured.IsEmpty() {
		fx.capturedOn = NoSquare
	}

	if piece.Type == Pawn && to == p.EnPassant && fx.captured.IsEmpty() {
		victim := to + 8
		if piece.Color == Black {
			victim = to - 8
		}
		if !p.Board[victim].IsEmpty() {
			fx.captured, fx.capturedOn = p.Board[victim], victim
			p.Board[victim] = Empty
		}
	}

	if piece.Type == King && abs(to.Col()-from.Col()) == 2 {
		row := from.Row()
		rookFrom, rookTo := NewSquare(row, 7), NewSquare(row, 5)
		fx.castle = "O-O"
		if to.Col() < from.Col() {
			rookFrom, rookTo = NewSquare(row, 0), NewSquare(row, 3)
			fx.castle = "O-O-O"
		}
		p.Board[rookTo] = p.Board[rookFrom]
		p.Board[rookFrom] = Empty
	}

	p.Board[to] = piece
	p.Board[from] = Empty
	return fx
}

// play applies a legal move to the position: board side effects, en-passant
// target, castling rights and half-move clock. Turn and promotion are left to
// the caller.
func (p *Position) play(from, to Square) moveEffects {
	piece := p.Board[from]
	fx := p.movePieces(from, to)

	p.EnPassant = NoSquare
	if piece.Type == Pawn && abs(to.Row()-from.Row()) == 2 {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if piece.Type == King {
		p.Castling.revokeColor(piece.Color)
	}
	if piece.Type == Rook {
		p.Castling.revokeCorner(from)
	}
	p.Castling.revokeCorner(to)

	if piece.Type == Pawn || !fx.captured.IsEmpty() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	return fx
}

// switchTurn hands the move to the other side.
func (p *Position) switchTurn() {
	if p.Turn == Black {
		p.FullMoveNumber++
	}
	p.Turn = p.Turn.Opposite()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
