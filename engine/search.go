package engine

import (
	"github.com/rs/zerolog"

	"chess-opponent/rules"
)

// NoMove is returned when the position has no legal move.
const NoMove rules.Move = 0

// Searcher picks moves with iterative deepening alpha-beta plus quiescence.
// It owns its key table, transposition table and counters, so it must not be
// used by two goroutines at once; concurrent searches need separate Searchers.
type Searcher struct {
	depth int
	keys  *KeyTable
	tt    *TransTable
	stats Stats
	log   zerolog.Logger
}

func NewSearcher(cfg Config) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Searcher{
		depth: cfg.Depth,
		keys:  NewKeyTable(cfg.Seed),
		tt:    NewTransTable(),
		log:   cfg.Logger,
	}, nil
}

func (s *Searcher) Depth() int { return s.depth }

// Stats returns the counters of the most recent search.
func (s *Searcher) Stats() Stats { return s.stats }

// TableSize is the number of cached positions; the table is never trimmed.
func (s *Searcher) TableSize() int { return s.tt.Len() }

// BestMove searches pos to the configured depth and returns the move chosen
// by the deepest iteration, with the number of nodes visited. It returns
// NoMove when pos has no legal move. pos is mutated during the search and
// restored before returning.
func (s *Searcher) BestMove(pos Position) (rules.Move, uint64) {
	s.stats.Reset()

	bestMove := NoMove
	for depth := 1; depth <= s.depth; depth++ {
		move, score := s.searchRoot(pos, depth)
		if move == NoMove {
			continue
		}
		bestMove = move

		s.log.Debug().
			Int("depth", depth).
			Int32("score", int32(score)).
			Str("move", move.String()).
			Uint64("nodes", s.stats.Nodes).
			Uint64("cache_hits", s.stats.CacheHits).
			Msg("iteration-complete")
	}

	s.log.Debug().
		Object("stats", s.stats).
		Int("tt_size", s.tt.Len()).
		Msg("search-complete")

	return bestMove, s.stats.Nodes
}

// searchRoot scores every root move with a full window. The bounds are
// tightened as moves are scored but the root itself never cuts off.
func (s *Searcher) searchRoot(pos Position, depth int) (rules.Move, Score) {
	alpha, beta := -Infinity, Infinity
	whiteToMove := pos.WhiteToMove()

	bestMove := NoMove
	bestScore := Infinity
	if whiteToMove {
		bestScore = -Infinity
	}

	moveList := scoreMovesList(pos, false)
	for index := range moveList.moves {
		orderNextMove(index, &moveList)
		move := moveList.moves[index].move

		unapply := pos.Apply(move)
		score := s.minimax(pos, depth-1, alpha, beta, pos.WhiteToMove())
		unapply()

		if whiteToMove {
			if score > bestScore {
				bestScore, bestMove = score, move
			}
			alpha = Max(alpha, score)
		} else {
			if score < bestScore {
				bestScore, bestMove = score, move
			}
			beta = Min(beta, score)
		}
	}
	return bestMove, bestScore
}

func (s *Searcher) minimax(pos Position, depth int, alpha, beta Score, maximizing bool) Score {
	s.stats.Nodes++

	// Bounds are classified against the window we were given, not the one the
	// probe below may narrow it to.
	origAlpha, origBeta := alpha, beta

	posHash := s.keys.Hash(pos)
	probe := s.tt.Probe(posHash, depth, alpha, beta)
	if probe.Cutoff {
		if probe.Exact {
			s.stats.CacheHits++
		}
		return probe.Score
	}
	alpha, beta = probe.Alpha, probe.Beta

	if depth <= 0 || pos.Status().IsTerminal() {
		return s.quiescence(pos, alpha, beta)
	}

	moveList := scoreMovesList(pos, false)
	var bestScore Score

	if maximizing {
		bestScore = -Infinity
		for index := range moveList.moves {
			orderNextMove(index, &moveList)

			unapply := pos.Apply(moveList.moves[index].move)
			score := s.minimax(pos, depth-1, alpha, beta, false)
			unapply()

			bestScore = Max(bestScore, score)
			alpha = Max(alpha, score)
			if beta <= alpha {
				s.stats.BetaCutoffs++
				break
			}
		}
	} else {
		bestScore = Infinity
		for index := range moveList.moves {
			orderNextMove(index, &moveList)

			unapply := pos.Apply(moveList.moves[index].move)
			score := s.minimax(pos, depth-1, alpha, beta, true)
			unapply()

			bestScore = Min(bestScore, score)
			beta = Min(beta, score)
			if beta <= alpha {
				s.stats.BetaCutoffs++
				break
			}
		}
	}

	s.tt.Store(posHash, depth, bestScore, origAlpha, origBeta)
	return bestScore
}

// quiescence resolves captures until the position is quiet. The side to move
// may always decline to capture, so the static score is a floor (for White) or
// a ceiling (for Black). There is no depth limit; capture chains end because
// material runs out.
func (s *Searcher) quiescence(pos Position, alpha, beta Score) Score {
	s.stats.Nodes++

	standPat := Evaluate(pos)
	whiteToMove := pos.WhiteToMove()

	if whiteToMove {
		if standPat >= beta {
			s.stats.QStandPatCutoffs++
			return beta
		}
		alpha = Max(alpha, standPat)
	} else {
		if standPat <= alpha {
			s.stats.QStandPatCutoffs++
			return alpha
		}
		beta = Min(beta, standPat)
	}

	moveList := scoreMovesList(pos, true)
	for index := range moveList.moves {
		orderNextMove(index, &moveList)

		unapply := pos.Apply(moveList.moves[index].move)
		score := s.quiescence(pos, alpha, beta)
		unapply()

		if whiteToMove {
			if score >= beta {
				s.stats.QBetaCutoffs++
				return beta
			}
			alpha = Max(alpha, score)
		} else {
			if score <= alpha {
				s.stats.QBetaCutoffs++
				return alpha
			}
			beta = Min(beta, score)
		}
	}

	if whiteToMove {
		return alpha
	}
	return beta
}
