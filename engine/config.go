package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var ErrInvalidDepth = errors.New("engine: search depth must be at least 1 ply")

// Config is fixed for the lifetime of a Searcher.
type Config struct {
	// Depth is the iterative deepening limit in plies.
	Depth int `json:"depth"`
	// Seed feeds the Zobrist key table.
	Seed   int64          `json:"seed"`
	Logger zerolog.Logger `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		Depth:  4,
		Seed:   DefaultSeed,
		Logger: zerolog.Nop(),
	}
}

// LoadConfig reads a JSON config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("engine: parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, c.Depth)
	}
	return nil
}
