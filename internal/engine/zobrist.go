package engine

// Zobrist keys, generated once from a fixed seed and never written afterwards.
var (
	zobristPiece     [2][7][64]uint64
	zobristCastling  [4]uint64
	zobristEnPassant [8]uint64
	zobristBlack     uint64
)

func init() {
	rng := xorshift(0x98F107A2BEEF1234)
	for c := White; c <= Black; c++ {
		for t := Pawn; t <= King; t++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][t][sq] = rng.next()
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
	zobristBlack = rng.next()
}

type xorshift uint64

// xorshift64*
func (x *xorshift) next() uint64 {
	*x ^= *x >> 12
	*x ^= *x << 25
	*x ^= *x >> 27
	return uint64(*x) * 0x2545F4914F6CDD1D
}

// Hash identifies a position for repetition detection: board, side to move,
// castling rights and en-passant target. Clocks are not part of it.
func (p *Position) Hash() uint64 {
	var h uint64
	for sq, pc := range p.Board {
		if !pc.IsEmpty() {
			h ^= zobristPiece[pc.Color][pc.Type][sq]
		}
	}
	for i, held := range p.Castling.flags() {
		if held {
			h ^= zobristCastling[i]
		}
	}
	if p.EnPassant.Valid() {
		h ^= zobristEnPassant[p.EnPassant.Col()]
	}
	if p.Turn == Black {
		h ^= zobristBlack
	}
	return h
}
