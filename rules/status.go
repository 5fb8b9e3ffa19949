package rules

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

const (
	seventyFiveMoveLimit = 150
	fivefoldLimit        = 5

	darkSquares  uint64 = 0xAA55AA55AA55AA55
	lightSquares        = ^darkSquares
)

// Status classifies a position as still in play or as one of the ways a game ends.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoves
	FivefoldRepetition
)

var statusNames = [...]string{
	Ongoing:              "ongoing",
	Checkmate:            "checkmate",
	Stalemate:            "stalemate",
	InsufficientMaterial: "insufficient material",
	SeventyFiveMoves:     "seventy-five moves",
	FivefoldRepetition:   "fivefold repetition",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return s != Ongoing
}

// Status reports whether the game is over in p. Checkmate takes precedence over
// every draw condition.
func (p *Position) Status() Status {
	if len(p.board.GenerateLegalMoves()) == 0 {
		if p.board.OurKingInCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if p.insufficientMaterial() {
		return InsufficientMaterial
	}
	if int(p.board.Halfmoveclock) >= seventyFiveMoveLimit {
		return SeventyFiveMoves
	}
	if p.repetitions() >= fivefoldLimit {
		return FivefoldRepetition
	}
	return Ongoing
}

// repetitions counts how often the current position occurs in the history,
// looking back no further than the last irreversible move.
func (p *Position) repetitions() int {
	if len(p.history) == 0 {
		return 0
	}
	current := len(p.history) - 1
	start := current - int(p.board.Halfmoveclock)
	if start < 0 {
		start = 0
	}
	count := 0
	for i := start; i <= current; i++ {
		if p.history[i] == p.history[current] {
			count++
		}
	}
	return count
}

func (p *Position) insufficientMaterial() bool {
	return insufficientFor(&p.board.White, &p.board.Black, &p.board) &&
		insufficientFor(&p.board.Black, &p.board.White, &p.board)
}

// insufficientFor reports whether us can never deliver mate, whatever them does.
func insufficientFor(us, them *dragontoothmg.Bitboards, b *dragontoothmg.Board) bool {
	if us.Pawns|us.Rooks|us.Queens != 0 {
		return false
	}
	if us.Knights != 0 {
		return bits.OnesCount64(us.All) <= 2 && them.All&^them.Kings&^them.Queens == 0
	}
	if us.Bishops != 0 {
		bishops := b.White.Bishops | b.Black.Bishops
		sameColour := bishops&darkSquares == 0 || bishops&lightSquares == 0
		return sameColour && b.White.Pawns|b.Black.Pawns == 0 && b.White.Knights|b.Black.Knights == 0
	}
	return true
}
