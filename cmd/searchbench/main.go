package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"chess-opponent/engine"
	"chess-opponent/rules"
)

// Positions searched when no FEN is given.
var benchFENs = []string{
	rules.Startpos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r1bq1rk1/pp2bppp/2n1pn2/3p4/2PP4/2N1PN2/PP2BPPP/R2QKB1R b KQ - 3 8",
	"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
}

type benchResult struct {
	fen     string
	move    string
	nodes   uint64
	elapsed time.Duration
	stats   engine.Stats
}

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run per position")
	fenFlag := flag.String("fen", "", "single FEN to search (empty = built-in set)")
	workersFlag := flag.Int("workers", runtime.NumCPU(), "positions searched concurrently")
	configFlag := flag.String("config", "", "JSON engine config (overrides -depth)")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	verbose := flag.Bool("v", false, "log every completed iteration")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	cfg := engine.DefaultConfig()
	cfg.Depth = *depthFlag
	if *configFlag != "" {
		var err error
		cfg, err = engine.LoadConfig(*configFlag)
		if err != nil {
			logger.Fatal().Err(err).Msg("load-config")
		}
	}
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("bad-config")
	}

	if *workersFlag < 1 {
		logger.Fatal().Int("workers", *workersFlag).Msg("workers must be positive")
	}

	fens := benchFENs
	if *fenFlag != "" {
		fens = []string{*fenFlag}
	}
	if args := flag.Args(); len(args) > 0 {
		fens = args
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("create-cpu-profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			logger.Fatal().Err(err).Msg("start-cpu-profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Printf("searchbench: positions=%d depth=%d repeat=%d workers=%d\n",
		len(fens), cfg.Depth, *repeatFlag, *workersFlag)

	startAll := time.Now()
	results := make([]benchResult, len(fens))

	// Each goroutine owns its Searcher; tables are never shared.
	var g errgroup.Group
	g.SetLimit(*workersFlag)
	for i, fen := range fens {
		i, fen := i, fen
		g.Go(func() error {
			searchCfg := cfg
			searchCfg.Logger = logger.With().Int("position", i).Logger()
			searcher, err := engine.NewSearcher(searchCfg)
			if err != nil {
				return err
			}

			var res benchResult
			for r := 0; r < *repeatFlag; r++ {
				pos, err := rules.ParseFEN(fen)
				if err != nil {
					return fmt.Errorf("position %d: %w", i, err)
				}
				start := time.Now()
				move, nodes := searcher.BestMove(pos)

				res.elapsed += time.Since(start)
				res.nodes += nodes
				res.move = "(none)"
				if move != engine.NoMove {
					res.move = move.String()
				}
			}
			res.fen = fen
			res.stats = searcher.Stats()
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("search-failed")
	}

	lines := lo.Map(results, func(r benchResult, i int) string {
		nps := float64(r.nodes) / r.elapsed.Seconds()
		return fmt.Sprintf("%2d: bestmove %-6s nodes=%-10d time=%-12v nps=%.0f  %s",
			i+1, r.move, r.nodes, r.elapsed.Round(time.Microsecond), nps, r.fen)
	})
	for _, line := range lines {
		fmt.Println(line)
	}

	totalNodes := lo.Reduce(results, func(sum uint64, r benchResult, _ int) uint64 {
		return sum + r.nodes
	}, 0)
	totalElapsed := time.Since(startAll)
	fmt.Printf("total nodes: %d  wall time: %v  nps: %.0f\n",
		totalNodes, totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("create-mem-profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("write-mem-profile")
		}
	}
}
