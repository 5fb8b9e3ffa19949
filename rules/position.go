package rules

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidFEN  = errors.New("rules: invalid FEN")
	ErrIllegalMove = errors.New("rules: illegal move")
)

// Move is the dragontoothmg move encoding: origin, destination and an optional
// promotion piece. It carries no reference to the position it came from.
type Move = dragontoothmg.Move

type PieceType = dragontoothmg.Piece

const (
	NoPieceType PieceType = dragontoothmg.Nothing
	Pawn        PieceType = dragontoothmg.Pawn
	Knight      PieceType = dragontoothmg.Knight
	Bishop      PieceType = dragontoothmg.Bishop
	Rook        PieceType = dragontoothmg.Rook
	Queen       PieceType = dragontoothmg.Queen
	King        PieceType = dragontoothmg.King
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

type Piece struct {
	Type  PieceType
	Color Color
}

// Position is a single mutable board. It is changed only through Apply and the
// undo function Apply returns, in strict LIFO order. A Position must not be
// shared between goroutines; hand a Clone to a worker instead.
type Position struct {
	board dragontoothmg.Board
	// board hashes from the first known position up to and including the current one
	history []uint64
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(Startpos)
	if err != nil {
		panic(err)
	}
	return pos
}

// ParseFEN builds a position from a six-field FEN string.
func ParseFEN(fen string) (pos *Position, err error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: want 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	// dragontoothmg panics on malformed placement strings
	defer func() {
		if r := recover(); r != nil {
			pos = nil
			err = fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()

	board := dragontoothmg.ParseFen(strings.Join(fields, " "))
	if bits.OnesCount64(board.White.Kings) != 1 || bits.OnesCount64(board.Black.Kings) != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	pos = &Position{board: board}
	pos.history = append(pos.history, pos.board.Hash())
	return pos, nil
}

// FEN renders the position; used for diagnostics and worker handoff only.
func (p *Position) FEN() string {
	return p.board.ToFen()
}

// Clone returns an independent snapshot, including repetition history.
func (p *Position) Clone() *Position {
	clone := &Position{board: p.board}
	clone.history = append(make([]uint64, 0, len(p.history)+64), p.history...)
	return clone
}

func (p *Position) WhiteToMove() bool {
	return p.board.Wtomove
}

func (p *Position) SideToMove() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

func (p *Position) InCheck() bool {
	return p.board.OurKingInCheck()
}

func (p *Position) LegalMoves() []Move {
	return p.board.GenerateLegalMoves()
}

// Apply plays m and returns the function that takes it back.
func (p *Position) Apply(m Move) func() {
	unapply := p.board.Apply(m)
	p.history = append(p.history, p.board.Hash())
	return func() {
		unapply()
		p.history = p.history[:len(p.history)-1]
	}
}

// IsCapture reports whether m removes an enemy piece, en passant included.
func (p *Position) IsCapture(m Move) bool {
	if dragontoothmg.IsCapture(m, &p.board) {
		return true
	}
	from, to := m.From(), m.To()
	own := p.own()
	if own.Pawns&(uint64(1)<<from) == 0 || from%8 == to%8 {
		return false
	}
	// a diagonal pawn step onto an empty square can only be en passant
	return (p.board.White.All|p.board.Black.All)&(uint64(1)<<to) == 0
}

// PieceAt reports the piece on sq (a1 = 0, h8 = 63).
func (p *Position) PieceAt(sq uint8) (Piece, bool) {
	if pt, ok := pieceTypeAt(sq, &p.board.White); ok {
		return Piece{Type: pt, Color: White}, true
	}
	if pt, ok := pieceTypeAt(sq, &p.board.Black); ok {
		return Piece{Type: pt, Color: Black}, true
	}
	return Piece{}, false
}

// ForEachPiece calls fn for every occupied square.
func (p *Position) ForEachPiece(fn func(sq uint8, pc Piece)) {
	forEachPiece(&p.board.White, White, fn)
	forEachPiece(&p.board.Black, Black, fn)
}

// ParseMove resolves a UCI move string against the legal moves of p.
func (p *Position) ParseMove(uci string) (Move, error) {
	moves := p.LegalMoves()
	for i := range moves {
		if moves[i].String() == uci {
			return moves[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrIllegalMove, uci, p.FEN())
}

func (p *Position) own() *dragontoothmg.Bitboards {
	if p.board.Wtomove {
		return &p.board.White
	}
	return &p.board.Black
}

func pieceTypeAt(sq uint8, bitboards *dragontoothmg.Bitboards) (PieceType, bool) {
	mask := uint64(1) << sq
	switch {
	case bitboards.All&mask == 0:
		return NoPieceType, false
	case bitboards.Pawns&mask != 0:
		return Pawn, true
	case bitboards.Knights&mask != 0:
		return Knight, true
	case bitboards.Bishops&mask != 0:
		return Bishop, true
	case bitboards.Rooks&mask != 0:
		return Rook, true
	case bitboards.Queens&mask != 0:
		return Queen, true
	case bitboards.Kings&mask != 0:
		return King, true
	}
	return NoPieceType, false
}

func forEachPiece(bitboards *dragontoothmg.Bitboards, color Color, fn func(sq uint8, pc Piece)) {
	sets := [...]struct {
		bb uint64
		pt PieceType
	}{
		{bitboards.Pawns, Pawn},
		{bitboards.Knights, Knight},
		{bitboards.Bishops, Bishop},
		{bitboards.Rooks, Rook},
		{bitboards.Queens, Queen},
		{bitboards.Kings, King},
	}
	for _, set := range sets {
		for bb := set.bb; bb != 0; bb &= bb - 1 {
			fn(uint8(bits.TrailingZeros64(bb)), Piece{Type: set.pt, Color: color})
		}
	}
}
