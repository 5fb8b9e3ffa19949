package engine

import (
	"math/rand"

	"chess-opponent/rules"
)

// DefaultSeed keeps key tables reproducible between runs unless a caller asks otherwise.
const DefaultSeed int64 = 0xC0DE

// KeyTable holds the Zobrist keys for one searcher: a key per square per
// coloured piece, plus one for Black to move.
type KeyTable struct {
	pieces      [64][12]uint64
	blackToMove uint64
}

func NewKeyTable(seed int64) *KeyTable {
	rnd := rand.New(rand.NewSource(seed))
	kt := &KeyTable{}
	for sq := 0; sq < 64; sq++ {
		for p := 0; p < 12; p++ {
			kt.pieces[sq][p] = rnd.Uint64()
		}
	}
	kt.blackToMove = rnd.Uint64()
	return kt
}

// Hash fingerprints piece placement and side to move. Castling rights and the
// en passant square are deliberately left out, so positions that differ only in
// those share a key.
func (kt *KeyTable) Hash(pos Position) uint64 {
	var key uint64
	pos.ForEachPiece(func(sq uint8, pc rules.Piece) {
		key ^= kt.pieces[sq][pieceIndex(pc)]
	})
	if !pos.WhiteToMove() {
		key ^= kt.blackToMove
	}
	return key
}

func pieceIndex(pc rules.Piece) int {
	idx := int(pc.Type) - 1
	if pc.Color == rules.Black {
		idx += 6
	}
	return idx
}
