package engine

import (
	"github.com/samber/lo"

	"chess-opponent/rules"
)

type move struct {
	move  rules.Move
	score int
}

type moveList struct {
	moves []move
}

// Abbreviated piece values for MVV-LVA. Only used to rank captures against
// each other; never mixed with centipawn scores.
var orderValue = [7]int{
	rules.Pawn:   1,
	rules.Knight: 3,
	rules.Bishop: 3,
	rules.Rook:   5,
	rules.Queen:  9,
	rules.King:   100,
}

var promotionBonus = 900

// OrderMoves returns the legal moves of pos, best candidates first. With
// capturesOnly set, quiet moves are dropped.
func OrderMoves(pos Position, capturesOnly bool) []rules.Move {
	list := scoreMovesList(pos, capturesOnly)
	ordered := make([]rules.Move, len(list.moves))
	for index := range list.moves {
		orderNextMove(index, &list)
		ordered[index] = list.moves[index].move
	}
	return ordered
}

func scoreMovesList(pos Position, capturesOnly bool) (movesList moveList) {
	legal := pos.LegalMoves()
	if capturesOnly {
		legal = lo.Filter(legal, func(m rules.Move, _ int) bool {
			return pos.IsCapture(m)
		})
	}

	movesList.moves = make([]move, len(legal))
	for i := range legal {
		movesList.moves[i].move = legal[i]
		movesList.moves[i].score = scoreMove(pos, legal[i])
	}
	return movesList
}

// scoreMove ranks captures by 10*victim - aggressor and adds a flat bonus for
// promotions. Quiet moves score 0. En passant finds no victim on the target
// square and so scores as a capture of nothing.
func scoreMove(pos Position, m rules.Move) int {
	score := 0
	if pos.IsCapture(m) {
		var victim, aggressor int
		if pc, ok := pos.PieceAt(m.To()); ok {
			victim = orderValue[pc.Type]
		}
		if pc, ok := pos.PieceAt(m.From()); ok {
			aggressor = orderValue[pc.Type]
		}
		score = 10*victim - aggressor
	}
	if m.Promote() != rules.NoPieceType {
		score += promotionBonus
	}
	return score
}

// Ordering the moves one at a time, at index given
func orderNextMove(currIndex int, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := bestIndex + 1; index < len(moves.moves); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	moves.moves[currIndex], moves.moves[bestIndex] = moves.moves[bestIndex], moves.moves[currIndex]
}
