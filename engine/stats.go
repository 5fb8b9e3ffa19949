package engine

import "github.com/rs/zerolog"

// Stats collects per-search counters. They are reset at the start of every
// BestMove call and only ever grow during it.
type Stats struct {
	Nodes            uint64
	CacheHits        uint64
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
}

func (s *Stats) Reset() {
	*s = Stats{}
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("cache_hits", s.CacheHits).
		Uint64("beta_cutoffs", s.BetaCutoffs).
		Uint64("q_standpat_cutoffs", s.QStandPatCutoffs).
		Uint64("q_beta_cutoffs", s.QBetaCutoffs)
}
