package engine

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCheckmate(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		moves    []string
		notation string
		result   Result
	}{
		{"fool's mate", "", []string{"f2f3", "e7e5", "g2g4", "d8h4"}, "Qh4#", BlackWins},
		{"back rank", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", []string{"a1a8"}, "Ra8#", WhiteWins},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEngine(t, tt.fen)
			out := play(t, e, tt.moves...)
			if out.Notation != tt.notation {
				t.Errorf("notation = %q, want %q", out.Notation, tt.notation)
			}
			want := Status{Termination: Checkmate, Result: tt.result, Check: true, Reason: reason(tt.result, Checkmate)}
			if diff := cmp.Diff(want, e.Status()); diff != "" {
				t.Errorf("Status() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStalemate(t *testing.T) {
	e := mustEngine(t, "k7/8/8/2Q5/8/8/8/7K w - - 0 1")
	out := play(t, e, "c5c7")
	if out.Notation != "Qc7" {
		t.Errorf("notation = %q, want Qc7", out.Notation)
	}
	st := e.Status()
	if st.Termination != Stalemate || st.Result != Draw || st.Check {
		t.Errorf("Status() = %+v, want stalemate draw", st)
	}
	if st.Reason != "draw by stalemate" {
		t.Errorf("Reason = %q", st.Reason)
	}
}

func TestCheckSuffix(t *testing.T) {
	e := New()
	out := play(t, e, "e2e4", "f7f6", "d1h5")
	if out.Notation != "Qh5+" {
		t.Errorf("notation = %q, want Qh5+", out.Notation)
	}
	st := e.Status()
	if st.Over() || !st.Check {
		t.Errorf("Status() = %+v, want ongoing with check", st)
	}
	if !e.IsInCheck(Black) || e.IsInCheck(White) {
		t.Error("only black should be in check")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"K vs K", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"K+B vs K", "4k3/8/8/8/8/8/8/4KB2 w - - 0 1", true},
		{"K+N vs K", "4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"K vs K+n", "4k1n1/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"K+B vs K+B same colour", "4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", true},
		{"K+B+B vs K same colour", "4k3/8/8/8/8/4B3/8/2B1K3 w - - 0 1", true},
		{"K+B vs K+B opposite colour", "4k3/5b2/8/8/8/8/8/2B1K3 w - - 0 1", false},
		{"K+B+B vs K opposite colour", "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1", false},
		{"K+N vs K+B", "4kb2/8/8/8/8/8/8/1N2K3 w - - 0 1", false},
		{"K+N+N vs K", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", false},
		{"K+R vs K", "4k3/8/8/8/8/8/8/4KR2 w - - 0 1", false},
		{"K+Q vs K", "4k3/8/8/8/8/8/8/4KQ2 w - - 0 1", false},
		{"K+P vs K", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"initial position", InitialFEN, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParseFEN(tt.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := pos.InsufficientMaterial(); got != tt.want {
				t.Errorf("InsufficientMaterial() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsufficientMaterialEndsGame(t *testing.T) {
	e := mustEngine(t, "4kb2/8/8/8/8/8/3r4/2B1K3 w - - 0 1")
	play(t, e, "e1d2")
	st := e.Status()
	if st.Termination != InsufficientMaterial || st.Result != Draw {
		t.Errorf("Status() = %+v, want insufficient material draw", st)
	}

	e = mustEngine(t, "4k3/5b2/8/8/8/8/8/2B1K3 w - - 0 1")
	play(t, e, "e1d2")
	if e.Status().Over() {
		t.Errorf("opposite-coloured bishops ended the game: %+v", e.Status())
	}
}

func TestStartPositionClassified(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Status
	}{
		{"checkmated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
			Status{Termination: Checkmate, Result: BlackWins, Check: true, Reason: reason(BlackWins, Checkmate)}},
		{"stalemated", "k7/2Q5/8/8/8/8/8/7K b - - 0 1",
			Status{Termination: Stalemate, Result: Draw, Reason: reason(Draw, Stalemate)}},
		{"dead position", "4k3/8/8/8/8/8/8/4KN2 w - - 0 1",
			Status{Termination: InsufficientMaterial, Result: Draw, Reason: reason(Draw, InsufficientMaterial)}},
		{"fifty moves already", "4k3/8/8/8/8/8/8/R3K3 w - - 100 80",
			Status{Termination: FiftyMoveRule, Result: Draw, Reason: reason(Draw, FiftyMoveRule)}},
		{"in check", "4k3/8/8/8/8/8/8/r3K3 w - - 0 1", ongoing(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEngine(t, tt.fen)
			if diff := cmp.Diff(tt.want, e.Status()); diff != "" {
				t.Errorf("Status() mismatch (-want +got):\n%s", diff)
			}
			if h := e.History(); len(h) != 0 {
				t.Errorf("History() = %v, want empty", h)
			}
			if tt.want.Over() {
				if _, err := e.ApplyMove(sq(t, "e1"), sq(t, "e2")); !errors.Is(err, ErrGameOver) {
					t.Errorf("ApplyMove err = %v, want ErrGameOver", err)
				}
			}
		})
	}
}

func TestCaptureIntoInsufficientMaterial(t *testing.T) {
	e := mustEngine(t, "4k3/8/8/8/8/8/3r4/4KB2 w - - 0 1")
	out := play(t, e, "e1d2")
	if out.Notation != "Kxd2" {
		t.Errorf("notation = %q, want Kxd2", out.Notation)
	}
	if e.Status().Termination != InsufficientMaterial {
		t.Errorf("Status() = %+v, want insufficient material", e.Status())
	}
}

func TestFiftyMoveRule(t *testing.T) {
	e := mustEngine(t, "4k3/8/8/8/8/8/8/R3K3 w - - 98 60")
	play(t, e, "a1a2")
	if e.Status().Over() {
		t.Fatalf("game ended at half-move clock %d", e.Position().HalfMoveClock)
	}
	play(t, e, "e8e7")
	if got := e.Position().HalfMoveClock; got != 100 {
		t.Fatalf("HalfMoveClock = %d, want 100", got)
	}
	if st := e.Status(); st.Termination != FiftyMoveRule || st.Result != Draw {
		t.Errorf("Status() = %+v, want fifty-move draw", st)
	}
}

func TestHalfMoveClockResets(t *testing.T) {
	e := New()
	play(t, e, "g1f3", "g8f6")
	if got := e.Position().HalfMoveClock; got != 2 {
		t.Fatalf("HalfMoveClock = %d, want 2", got)
	}
	play(t, e, "e2e4")
	if got := e.Position().HalfMoveClock; got != 0 {
		t.Fatalf("HalfMoveClock after pawn move = %d, want 0", got)
	}
	play(t, e, "f6e4")
	if got := e.Position().HalfMoveClock; got != 0 {
		t.Fatalf("HalfMoveClock after capture = %d, want 0", got)
	}
}

var knightShuffle = []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}

func TestThreefoldRepetition(t *testing.T) {
	e := New()
	play(t, e, knightShuffle[:7]...)
	if e.Status().Over() {
		t.Fatalf("game ended before the third occurrence: %+v", e.Status())
	}
	play(t, e, knightShuffle[7])
	if st := e.Status(); st.Termination != ThreefoldRepetition || st.Result != Draw {
		t.Errorf("Status() = %+v, want threefold repetition", st)
	}
}

func TestUndoTruncatesRepetitionHistory(t *testing.T) {
	e := New()
	play(t, e, knightShuffle[:7]...)
	for i := 0; i < 2; i++ {
		if err := e.Undo(); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	play(t, e, knightShuffle[5:7]...)
	if e.Status().Over() {
		t.Fatalf("undone positions still counted: %+v", e.Status())
	}
	play(t, e, knightShuffle[7])
	if e.Status().Termination != ThreefoldRepetition {
		t.Errorf("Status() = %+v, want threefold repetition", e.Status())
	}
}

func TestPromotion(t *testing.T) {
	e := mustEngine(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	out, err := e.ApplyMove(sq(t, "a7"), sq(t, "a8"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !out.PromotionPending {
		t.Fatal("PromotionPending = false, want true")
	}
	if pp, ok := e.PendingPromotion(); !ok || pp.To != sq(t, "a8") || pp.Color != White {
		t.Errorf("PendingPromotion() = %+v, %v", pp, ok)
	}

	if e.IsLegalMove(sq(t, "h1"), sq(t, "h2")) {
		t.Error("IsLegalMove allowed a move while a promotion is pending")
	}
	if _, err := e.ApplyMove(sq(t, "h1"), sq(t, "h2")); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("ApplyMove during promotion: err = %v, want ErrPromotionPending", err)
	}
	if err := e.Undo(); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("Undo during promotion: err = %v, want ErrPromotionPending", err)
	}
	if _, err := e.CompletePromotion(King); !errors.Is(err, ErrInvalidPromotion) {
		t.Errorf("CompletePromotion(King): err = %v, want ErrInvalidPromotion", err)
	}

	out, err = e.CompletePromotion(Queen)
	if err != nil {
		t.Fatalf("CompletePromotion: %v", err)
	}
	if out.Notation != "a8=Q+" {
		t.Errorf("notation = %q, want a8=Q+", out.Notation)
	}
	if got := e.Board()[sq(t, "a8")]; got != (Piece{Queen, White}) {
		t.Errorf("a8 = %v, want white queen", got)
	}
	if e.Turn() != Black {
		t.Error("turn did not pass to black")
	}
	if _, err := e.CompletePromotion(Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Errorf("second CompletePromotion: err = %v, want ErrNoPendingPromotion", err)
	}
}

func TestPromotionWithCapture(t *testing.T) {
	e := mustEngine(t, "1n6/P7/8/8/8/8/8/k6K w - - 3 40")
	out := play(t, e, "a7b8n")
	if out.Notation != "axb8=N" {
		t.Errorf("notation = %q, want axb8=N", out.Notation)
	}
	if got := e.Captured().Black; len(got) != 1 || got[0] != (Piece{Knight, Black}) {
		t.Errorf("Captured().Black = %v", got)
	}
	if got := e.Position().HalfMoveClock; got != 0 {
		t.Errorf("HalfMoveClock = %d, want 0", got)
	}
}

func TestForceEndDuringPromotionTakesMoveBack(t *testing.T) {
	e := mustEngine(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	before := e.Position()
	if _, err := e.ApplyMove(sq(t, "a7"), sq(t, "a8")); err != nil {
		t.Fatal(err)
	}
	if err := e.Resign(White); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if diff := cmp.Diff(before, e.Position()); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if _, ok := e.PendingPromotion(); ok {
		t.Error("promotion still pending after game end")
	}
	if st := e.Status(); st.Result != BlackWins || st.Termination != Resignation {
		t.Errorf("Status() = %+v", st)
	}
}

func TestForceEnd(t *testing.T) {
	e := New()
	play(t, e, "e2e4")
	if err := e.ForceEnd(Ongoing, Agreement); !errors.Is(err, ErrInvalidResult) {
		t.Errorf("ForceEnd(Ongoing): err = %v, want ErrInvalidResult", err)
	}
	if err := e.ForceEnd(Draw, NotTerminated); !errors.Is(err, ErrInvalidResult) {
		t.Errorf("ForceEnd(NotTerminated): err = %v, want ErrInvalidResult", err)
	}
	if err := e.FlagFall(Black); err != nil {
		t.Fatalf("FlagFall: %v", err)
	}
	st := e.Status()
	if st.Result != WhiteWins || st.Termination != TimeForfeit || st.Reason != "white wins by time forfeit" {
		t.Errorf("Status() = %+v", st)
	}
	if err := e.Resign(White); !errors.Is(err, ErrGameOver) {
		t.Errorf("Resign after end: err = %v, want ErrGameOver", err)
	}
	if _, err := e.ApplyMove(sq(t, "e7"), sq(t, "e5")); !errors.Is(err, ErrGameOver) {
		t.Errorf("ApplyMove after end: err = %v, want ErrGameOver", err)
	}
	if e.IsLegalMove(sq(t, "e7"), sq(t, "e5")) || e.LegalMoves() != nil {
		t.Error("moves reported legal after game end")
	}
	if err := e.Undo(); !errors.Is(err, ErrGameOver) {
		t.Errorf("Undo after end: err = %v, want ErrGameOver", err)
	}
	if got := e.Movetext(); got != "1. e4 1-0" {
		t.Errorf("Movetext() = %q", got)
	}
}

func TestRejectedMoveChangesNothing(t *testing.T) {
	e := New()
	play(t, e, "e2e4")
	before := e.Position()
	_, err := e.ApplyMove(sq(t, "e4"), sq(t, "e5"))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	if diff := cmp.Diff(before, e.Position()); diff != "" {
		t.Errorf("position changed (-want +got):\n%s", diff)
	}
	if got := len(e.History()); got != 1 {
		t.Errorf("len(History()) = %d, want 1", got)
	}
}

func TestUndo(t *testing.T) {
	e := New()
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo on new game: err = %v, want ErrNothingToUndo", err)
	}
	play(t, e, "e2e4", "d7d5")
	before := e.Position()
	play(t, e, "e4d5")
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(before, e.Position()); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if got := e.Captured(); len(got.Black) != 0 {
		t.Errorf("captured pieces not restored: %+v", got)
	}
	if diff := cmp.Diff([]string{"e4", "d5"}, e.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
	if m, ok := e.LastMove(); !ok || m != (Move{sq(t, "d7"), sq(t, "d5")}) {
		t.Errorf("LastMove() = %v, %v", m, ok)
	}
}

func TestUndoRoundTripRandomGames(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	equateEmpty := cmpopts.EquateEmpty()
	for game := 0; game < 5; game++ {
		e := New()
		for ply := 0; ply < 80 && !e.Status().Over(); ply++ {
			moves := e.LegalMoves()
			m := moves[rng.IntN(len(moves))]
			mover := e.Turn()
			beforePos, beforeCaptured, beforeHistory := e.Position(), e.Captured(), e.History()

			step := func() {
				out, err := e.ApplyMove(m.From, m.To)
				if err != nil {
					t.Fatalf("game %d ply %d: ApplyMove(%s): %v", game, ply, m, err)
				}
				if out.PromotionPending {
					if _, err := e.CompletePromotion(Queen); err != nil {
						t.Fatalf("CompletePromotion: %v", err)
					}
				}
			}

			step()
			pos := e.Position()
			if pos.IsInCheck(mover) {
				t.Fatalf("game %d ply %d: %s left the mover in check", game, ply, m)
			}
			if e.Status().Over() {
				break
			}
			if err := e.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if diff := cmp.Diff(beforePos, e.Position()); diff != "" {
				t.Fatalf("game %d ply %d: undo %s position mismatch (-want +got):\n%s", game, ply, m, diff)
			}
			if diff := cmp.Diff(beforeCaptured, e.Captured(), equateEmpty); diff != "" {
				t.Fatalf("captured mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(beforeHistory, e.History(), equateEmpty); diff != "" {
				t.Fatalf("history mismatch (-want +got):\n%s", diff)
			}
			step()
		}
	}
}

func TestReset(t *testing.T) {
	e := New()
	play(t, e, "e2e4", "e7e5")
	e.Reset()
	if diff := cmp.Diff(NewPosition(), e.Position()); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if len(e.History()) != 0 || e.CanUndo() {
		t.Error("history survived Reset")
	}
	if _, ok := e.LastMove(); ok {
		t.Error("last move survived Reset")
	}
}

func TestMaterialBalance(t *testing.T) {
	e := New()
	play(t, e, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5a2", "a1a2")
	if got := e.MaterialBalance(); got != 8 {
		t.Errorf("MaterialBalance() = %d, want 8", got)
	}
}
