// Package opponent runs the search off the caller's goroutine and hands the
// chosen move back as a UCI token for a canonical notnil/chess game.
package opponent

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chess-opponent/engine"
	"chess-opponent/rules"
)

var (
	ErrBusy        = errors.New("opponent: a search is already running")
	ErrNoMove      = errors.New("opponent: no move to play")
	ErrIllegalMove = errors.New("opponent: move is not legal in the current position")
)

// Result is what a finished search sends back. Move is a UCI token, empty
// when the searched position had no legal move.
type Result struct {
	Move    string
	Nodes   uint64
	Elapsed time.Duration
	Stats   engine.Stats
	Err     error
}

func (r Result) NPS() uint64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return uint64(float64(r.Nodes) / r.Elapsed.Seconds())
}

// Opponent owns one Searcher and runs at most one search on it at a time.
type Opponent struct {
	searcher *engine.Searcher
	log      zerolog.Logger
	busy     atomic.Bool
}

func New(cfg engine.Config) (*Opponent, error) {
	s, err := engine.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("opponent: %w", err)
	}
	return &Opponent{searcher: s, log: cfg.Logger}, nil
}

// Think searches a private copy of pos in a new goroutine. The returned
// channel yields exactly one Result. While a search is in flight further calls
// get ErrBusy.
func (o *Opponent) Think(pos *rules.Position) <-chan Result {
	out := make(chan Result, 1)
	if !o.busy.CompareAndSwap(false, true) {
		out <- Result{Err: ErrBusy}
		return out
	}

	snapshot := pos.Clone()
	go func() {
		start := time.Now()
		move, nodes := o.searcher.BestMove(snapshot)
		res := Result{
			Nodes:   nodes,
			Elapsed: time.Since(start),
			Stats:   o.searcher.Stats(),
		}
		if move != engine.NoMove {
			res.Move = move.String()
		}

		o.log.Info().
			Str("move", res.Move).
			Uint64("nodes", res.Nodes).
			Dur("elapsed", res.Elapsed).
			Uint64("nps", res.NPS()).
			Int("tt_size", o.searcher.TableSize()).
			Msg("think-complete")

		o.busy.Store(false)
		out <- res
	}()
	return out
}

// Play applies the token in res to game. The game may have moved on since the
// search started, so the token is checked against its current position.
func Play(game *chess.Game, res Result) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Move == "" {
		return ErrNoMove
	}
	m, err := chess.UCINotation{}.Decode(game.Position(), res.Move)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, res.Move, err)
	}
	if err := game.Move(m); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, res.Move, err)
	}
	return nil
}

// PositionFromGame rebuilds game as a rules.Position by replaying its moves
// from the starting position, so repetition history carries over.
func PositionFromGame(game *chess.Game) (*rules.Position, error) {
	positions := game.Positions()
	pos, err := rules.ParseFEN(positions[0].String())
	if err != nil {
		return nil, err
	}
	for i, m := range game.Moves() {
		uci := chess.UCINotation{}.Encode(positions[i], m)
		move, err := pos.ParseMove(uci)
		if err != nil {
			return nil, fmt.Errorf("opponent: replay ply %d: %w", i+1, err)
		}
		pos.Apply(move)
	}
	return pos, nil
}
