package engine

import (
	"testing"

	"chess-opponent/rules"
)

func TestScoreMove(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want int
	}{
		{"7k/8/8/3q4/4P3/8/8/K7 w - - 0 1", "e4d5", 89},
		{"7k/8/8/3q4/4P3/8/8/K7 w - - 0 1", "e4e5", 0},
		{"1r5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7b8q", 949},
		{"1r5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8n", 900},
		{"7k/8/8/3p4/2Q5/8/8/K7 w - - 0 1", "c4d5", 1},
		// en passant finds nothing on the target square
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", -1},
	}
	for _, tt := range tests {
		pos := mustParse(t, tt.fen)
		m, err := pos.ParseMove(tt.move)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tt.move, err)
		}
		if got := scoreMove(pos, m); got != tt.want {
			t.Fatalf("%s in %q: got %d want %d", tt.move, tt.fen, got, tt.want)
		}
	}
}

func TestOrderMovesCapturesFirst(t *testing.T) {
	pos := mustParse(t, "7k/8/8/3q4/4P3/8/8/K7 w - - 0 1")
	ordered := OrderMoves(pos, false)
	if len(ordered) != len(pos.LegalMoves()) {
		t.Fatalf("got %d moves want %d", len(ordered), len(pos.LegalMoves()))
	}
	if got := ordered[0].String(); got != "e4d5" {
		t.Fatalf("first move: got %s want e4d5", got)
	}
}

func TestOrderMovesPromotionCapture(t *testing.T) {
	pos := mustParse(t, "1r5k/P7/8/8/8/8/8/K7 w - - 0 1")
	ordered := OrderMoves(pos, false)

	// the four capturing promotions come first, then the four quiet ones
	for i := 0; i < 4; i++ {
		if ordered[i].To() != 57 || ordered[i].Promote() == rules.NoPieceType {
			t.Fatalf("move %d: got %s", i, ordered[i].String())
		}
	}
	for i := 4; i < 8; i++ {
		if ordered[i].To() != 56 || ordered[i].Promote() == rules.NoPieceType {
			t.Fatalf("move %d: got %s", i, ordered[i].String())
		}
	}
}

func TestOrderMovesCapturesOnly(t *testing.T) {
	pos := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	captures := OrderMoves(pos, true)

	want := 0
	for _, m := range pos.LegalMoves() {
		if pos.IsCapture(m) {
			want++
		}
	}
	if len(captures) != want {
		t.Fatalf("got %d captures want %d", len(captures), want)
	}
	for i := range captures {
		if !pos.IsCapture(captures[i]) {
			t.Fatalf("quiet move %s in capture list", captures[i].String())
		}
		if i > 0 && scoreMove(pos, captures[i-1]) < scoreMove(pos, captures[i]) {
			t.Fatalf("captures out of order at %d", i)
		}
	}
}

func TestOrderMovesEmpty(t *testing.T) {
	pos := mustParse(t, "R6k/6pp/8/8/pppp4/8/8/6K1 b - - 0 1")
	if got := OrderMoves(pos, false); len(got) != 0 {
		t.Fatalf("got %d moves in a mated position", len(got))
	}
}
