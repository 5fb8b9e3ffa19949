package engine

import "chess-opponent/rules"

// Position is what the search needs from the rules engine. *rules.Position
// implements it. The search mutates it only through Apply and the returned
// undo function, always restoring it before returning.
type Position interface {
	LegalMoves() []rules.Move
	Apply(m rules.Move) (unapply func())
	IsCapture(m rules.Move) bool
	PieceAt(sq uint8) (rules.Piece, bool)
	ForEachPiece(fn func(sq uint8, pc rules.Piece))
	WhiteToMove() bool
	Status() rules.Status
}

var _ Position = (*rules.Position)(nil)
