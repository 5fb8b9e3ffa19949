package engine

const (
	// Flags
	UpperBoundFlag = iota // fail-low: true score <= stored score
	LowerBoundFlag        // fail-high: true score >= stored score
	ExactFlag
)

type TTEntry struct {
	Depth int8
	Score Score
	Flag  int8
}

// ProbeResult is what a lookup tells the caller. Alpha and Beta are the window
// after any stored bound was applied; when Cutoff is set, Score answers the
// node outright.
type ProbeResult struct {
	Alpha  Score
	Beta   Score
	Score  Score
	Cutoff bool
	Exact  bool
}

// TransTable caches search results by position key.
//
// This is an "always replace" table with no size limit: every Store overwrites
// whatever was there, whatever its depth, and nothing is ever evicted. Memory
// grows with the number of distinct positions the owning searcher visits.
type TransTable struct {
	entries map[uint64]TTEntry
}

func NewTransTable() *TransTable {
	return &TransTable{entries: make(map[uint64]TTEntry, 1<<16)}
}

func (tt *TransTable) Len() int {
	return len(tt.entries)
}

func (tt *TransTable) Clear() {
	tt.entries = make(map[uint64]TTEntry, 1<<16)
}

// Probe looks up key for a search of the given depth within (alpha, beta).
// Missing keys and entries searched shallower than depth leave the window as is.
func (tt *TransTable) Probe(key uint64, depth int, alpha, beta Score) ProbeResult {
	res := ProbeResult{Alpha: alpha, Beta: beta}
	entry, ok := tt.entries[key]
	if !ok || int(entry.Depth) < depth {
		return res
	}

	switch entry.Flag {
	case ExactFlag:
		res.Score, res.Cutoff, res.Exact = entry.Score, true, true
		return res
	case LowerBoundFlag:
		res.Alpha = Max(res.Alpha, entry.Score)
	case UpperBoundFlag:
		res.Beta = Min(res.Beta, entry.Score)
	}
	if res.Alpha >= res.Beta {
		res.Score, res.Cutoff = entry.Score, true
	}
	return res
}

// Store records score for key, classifying it against the window the node was
// asked to search (before any probe narrowed it).
func (tt *TransTable) Store(key uint64, depth int, score, origAlpha, origBeta Score) {
	var flag int8 = ExactFlag
	if score <= origAlpha {
		flag = UpperBoundFlag
	} else if score >= origBeta {
		flag = LowerBoundFlag
	}
	tt.entries[key] = TTEntry{Depth: int8(depth), Score: score, Flag: flag}
}
