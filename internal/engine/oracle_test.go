package engine

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/google/go-cmp/cmp"
)

// oracleMoves lists the legal from-to pairs of a FEN according to an
// independent move generator, promotions collapsed to one entry.
func oracleMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("chess.FEN(%q): %v", fen, err)
	}
	game := chess.NewGame(opt)
	valid := game.ValidMoves()
	var moves []string
	for i := range valid {
		moves = append(moves, valid[i].String()[:4])
	}
	slices.Sort(moves)
	return slices.Compact(moves)
}

func engineMoves(pos Position) []string {
	var moves []string
	for _, m := range pos.LegalMoves() {
		moves = append(moves, m.String())
	}
	slices.Sort(moves)
	return moves
}

func TestLegalMovesMatchOracle(t *testing.T) {
	fens := []string{
		InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(oracleMoves(t, fen), engineMoves(pos)); diff != "" {
				t.Errorf("legal moves mismatch (-oracle +engine):\n%s", diff)
			}
		})
	}
}

func TestRandomGamesMatchOracle(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	rng := rand.New(rand.NewPCG(3, 5))
	for game := 0; game < 10; game++ {
		e := New()
		for ply := 0; ply < 120 && !e.Status().Over(); ply++ {
			pos := e.Position()
			fen := e.FEN()
			if diff := cmp.Diff(oracleMoves(t, fen), engineMoves(pos)); diff != "" {
				t.Fatalf("game %d ply %d %s: legal moves mismatch (-oracle +engine):\n%s", game, ply, fen, diff)
			}
			moves := e.LegalMoves()
			m := moves[rng.IntN(len(moves))]
			out, err := e.ApplyMove(m.From, m.To)
			if err != nil {
				t.Fatalf("ApplyMove(%s): %v", m, err)
			}
			if out.PromotionPending {
				promos := []PieceType{Queen, Rook, Bishop, Knight}
				if _, err := e.CompletePromotion(promos[rng.IntN(len(promos))]); err != nil {
					t.Fatalf("CompletePromotion: %v", err)
				}
			}
		}
	}
}
