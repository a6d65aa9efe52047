package engine

import (
	"testing"
)

func sq(t *testing.T, s string) Square {
	t.Helper()
	square, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return square
}

func mustEngine(t *testing.T, fen string) *Engine {
	t.Helper()
	if fen == "" {
		return New()
	}
	e, err := NewFromFEN(fen)
	if err != nil {
		t.Fatalf("NewFromFEN(%q): %v", fen, err)
	}
	return e
}

// play applies moves given as "e2e4" strings, promoting to a queen when a
// fifth character is absent and a promotion is pending.
func play(t *testing.T, e *Engine, moves ...string) Outcome {
	t.Helper()
	var out Outcome
	for _, m := range moves {
		var err error
		out, err = e.ApplyMove(sq(t, m[0:2]), sq(t, m[2:4]))
		if err != nil {
			t.Fatalf("ApplyMove(%s): %v", m, err)
		}
		if out.PromotionPending {
			promo := Queen
			if len(m) == 5 {
				promo, _ = ParsePieceType(m[4:5])
			}
			out, err = e.CompletePromotion(promo)
			if err != nil {
				t.Fatalf("CompletePromotion(%s): %v", m, err)
			}
		}
	}
	return out
}
