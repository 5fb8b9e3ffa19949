package engine

import (
	"errors"
	"testing"

	"chess-opponent/rules"
)

func newTestSearcher(t *testing.T, depth int) *Searcher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Depth = depth
	s, err := NewSearcher(cfg)
	if err != nil {
		t.Fatalf("NewSearcher: %v", err)
	}
	return s
}

// fullWidth is plain minimax with the same leaves as the searcher but no
// pruning and no table.
func fullWidth(pos Position, depth int) Score {
	if depth <= 0 || pos.Status().IsTerminal() {
		return fullQuiescence(pos)
	}
	white := pos.WhiteToMove()
	best := Infinity
	if white {
		best = -Infinity
	}
	for _, m := range pos.LegalMoves() {
		unapply := pos.Apply(m)
		score := fullWidth(pos, depth-1)
		unapply()
		if white {
			best = Max(best, score)
		} else {
			best = Min(best, score)
		}
	}
	return best
}

func fullQuiescence(pos Position) Score {
	best := Evaluate(pos)
	white := pos.WhiteToMove()
	for _, m := range pos.LegalMoves() {
		if !pos.IsCapture(m) {
			continue
		}
		unapply := pos.Apply(m)
		score := fullQuiescence(pos)
		unapply()
		if white {
			best = Max(best, score)
		} else {
			best = Min(best, score)
		}
	}
	return best
}

func TestNewSearcherRejectsDepth(t *testing.T) {
	for _, depth := range []int{0, -3} {
		cfg := DefaultConfig()
		cfg.Depth = depth
		if _, err := NewSearcher(cfg); !errors.Is(err, ErrInvalidDepth) {
			t.Fatalf("depth %d: got %v want ErrInvalidDepth", depth, err)
		}
	}
}

func TestBestMoveStartpos(t *testing.T) {
	s := newTestSearcher(t, 2)
	pos := rules.NewPosition()
	before := pos.FEN()

	move, nodes := s.BestMove(pos)
	if move == NoMove {
		t.Fatalf("no move from the start position")
	}
	if _, err := pos.ParseMove(move.String()); err != nil {
		t.Fatalf("illegal move %s: %v", move.String(), err)
	}
	if nodes == 0 || nodes != s.Stats().Nodes {
		t.Fatalf("nodes: got %d, stats report %d", nodes, s.Stats().Nodes)
	}
	if got := pos.FEN(); got != before {
		t.Fatalf("position not restored: got %q want %q", got, before)
	}
	if s.TableSize() == 0 {
		t.Fatalf("table empty after a depth 2 search")
	}
}

func TestBestMoveDeterministic(t *testing.T) {
	fen := "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"
	a, b := newTestSearcher(t, 3), newTestSearcher(t, 3)

	moveA, nodesA := a.BestMove(mustParse(t, fen))
	moveB, nodesB := b.BestMove(mustParse(t, fen))
	if moveA != moveB || nodesA != nodesB {
		t.Fatalf("got %s/%d and %s/%d", moveA.String(), nodesA, moveB.String(), nodesB)
	}
}

func TestSearchMatchesMinimax(t *testing.T) {
	fens := []string{
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"6k1/5ppp/8/3n4/4P3/2N5/5PPP/6K1 w - - 0 1",
		"6k1/5ppp/8/3n4/4P3/2N5/5PPP/6K1 b - - 0 1",
		"r3k3/8/8/3p4/4P3/8/8/4K2R w - - 0 1",
	}
	for _, fen := range fens {
		// one searcher per position, deepening as BestMove does
		s := newTestSearcher(t, 3)
		pos := mustParse(t, fen)
		for depth := 1; depth <= 3; depth++ {
			_, got := s.searchRoot(pos, depth)
			if want := rootValue(pos, depth); got != want {
				t.Fatalf("%q depth %d: got %d want %d", fen, depth, got, want)
			}
		}
	}
}

func rootValue(pos Position, depth int) Score {
	white := pos.WhiteToMove()
	best := Infinity
	if white {
		best = -Infinity
	}
	for _, m := range pos.LegalMoves() {
		unapply := pos.Apply(m)
		score := fullWidth(pos, depth-1)
		unapply()
		if white {
			best = Max(best, score)
		} else {
			best = Min(best, score)
		}
	}
	return best
}

func TestQuiescenceResolvesExchange(t *testing.T) {
	s := newTestSearcher(t, 1)
	pos := mustParse(t, "7k/8/2p5/3p4/4P3/8/8/K7 w - - 0 1")

	// exd5 cxd5 leaves Black a pawn up, so White stands pat
	if got := s.quiescence(pos, -Infinity, Infinity); got != -90 {
		t.Fatalf("score: got %d want -90", got)
	}
	if s.stats.Nodes != 3 {
		t.Fatalf("nodes: got %d want 3", s.stats.Nodes)
	}
	if got, want := fullQuiescence(pos), Score(-90); got != want {
		t.Fatalf("reference: got %d want %d", got, want)
	}
}

func TestQuiescenceStandPatCutoff(t *testing.T) {
	s := newTestSearcher(t, 1)
	pos := mustParse(t, "7k/8/2p5/3p4/4P3/8/8/K7 w - - 0 1")

	if got := s.quiescence(pos, -1000, -500); got != -500 {
		t.Fatalf("white above beta: got %d want -500", got)
	}
	if s.stats.QStandPatCutoffs != 1 || s.stats.Nodes != 1 {
		t.Fatalf("stats: %+v", s.stats)
	}
}

func TestBestMoveFindsMate(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		s := newTestSearcher(t, depth)
		pos := mustParse(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")

		move, _ := s.BestMove(pos)
		if move == NoMove {
			t.Fatalf("depth %d: no move", depth)
		}
		pos.Apply(move)
		if got := pos.Status(); got != rules.Checkmate {
			t.Fatalf("depth %d: %s leads to %s", depth, move.String(), got)
		}
	}
}

func TestBestMoveBlackAvoidsMate(t *testing.T) {
	s := newTestSearcher(t, 2)
	// Qxg7 mates unless Black deals with it
	pos := mustParse(t, "6k1/6p1/8/8/8/2B3Q1/8/6K1 b - - 0 1")

	move, _ := s.BestMove(pos)
	if move == NoMove {
		t.Fatalf("no move")
	}
	pos.Apply(move)
	for _, reply := range pos.LegalMoves() {
		unapply := pos.Apply(reply)
		status := pos.Status()
		unapply()
		if status == rules.Checkmate {
			t.Fatalf("%s allows mate with %s", move.String(), reply.String())
		}
	}
}

func TestBestMoveNoLegalMoves(t *testing.T) {
	s := newTestSearcher(t, 3)
	for _, fen := range []string{
		"R6k/6pp/8/8/pppp4/8/8/6K1 b - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	} {
		move, nodes := s.BestMove(mustParse(t, fen))
		if move != NoMove || nodes != 0 {
			t.Fatalf("%q: got %s with %d nodes", fen, move.String(), nodes)
		}
	}
}

func TestStatsResetBetweenSearches(t *testing.T) {
	s := newTestSearcher(t, 3)
	s.BestMove(rules.NewPosition())
	if s.Stats().Nodes == 0 {
		t.Fatalf("no nodes counted")
	}

	s.BestMove(mustParse(t, "R6k/6pp/8/8/pppp4/8/8/6K1 b - - 0 1"))
	if got := s.Stats(); got != (Stats{}) {
		t.Fatalf("stats carried over: %+v", got)
	}
}
