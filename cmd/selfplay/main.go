package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chess-opponent/engine"
	"chess-opponent/opponent"
)

func main() {
	whiteDepth := flag.Int("white-depth", 3, "search depth for White")
	blackDepth := flag.Int("black-depth", 3, "search depth for Black")
	maxPlies := flag.Int("max-plies", 200, "stop the game after this many plies")
	fenFlag := flag.String("fen", "", "starting FEN (empty = startpos)")
	verbose := flag.Bool("v", false, "log every completed iteration")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	var opts []func(*chess.Game)
	if *fenFlag != "" {
		fen, err := chess.FEN(*fenFlag)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad-fen")
		}
		opts = append(opts, fen)
	}
	game := chess.NewGame(opts...)

	white, err := newPlayer(*whiteDepth, logger.With().Str("side", "white").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("white-player")
	}
	black, err := newPlayer(*blackDepth, logger.With().Str("side", "black").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("black-player")
	}

	for ply := 0; ply < *maxPlies && game.Outcome() == chess.NoOutcome; ply++ {
		pos, err := opponent.PositionFromGame(game)
		if err != nil {
			logger.Fatal().Err(err).Msg("convert-position")
		}
		if status := pos.Status(); status.IsTerminal() {
			logger.Info().Stringer("status", status).Msg("game-over")
			break
		}

		player := white
		if game.Position().Turn() == chess.Black {
			player = black
		}
		res := <-player.Think(pos)
		if err := opponent.Play(game, res); err != nil {
			logger.Fatal().Err(err).Str("move", res.Move).Msg("play")
		}
		logger.Debug().Int("ply", ply+1).Str("move", res.Move).Msg("played")
	}

	fmt.Println(game.String())
	fmt.Println()
	fmt.Println(game.Position().Board().Draw())
	fmt.Printf("FEN: %s\n", game.Position().String())
	fmt.Printf("Outcome: %s\n", game.Outcome())
	fmt.Printf("Method: %s\n", game.Method())
}

func newPlayer(depth int, log zerolog.Logger) (*opponent.Opponent, error) {
	cfg := engine.DefaultConfig()
	cfg.Depth = depth
	cfg.Logger = log
	return opponent.New(cfg)
}
