package shogi

import "fmt"

// Move packs a Shogi move into 32 bits, generalizing the teacher's
// 16-bit chess Move (board.Move) to carry a drop source and a captured
// piece type inline, since Shogi's drop rule and hand-management make
// capture bookkeeping part of the move itself rather than something
// recovered from the board at undo time.
//
// bits 0-6:   to square (0-80)
// bits 7-14:  from square (0-80), or dropFromBase+pieceType for a drop
// bits 15-18: moving piece type (post-promotion if promoting)
// bits 19-22: captured piece type (0 = none)
// bit 23:     promotion flag
type Move uint32

const (
	moveToMask    = 0x7F
	moveFromShift = 7
	moveFromMask  = 0xFF << moveFromShift
	movePieceShift   = 15
	movePieceMask    = 0xF << movePieceShift
	moveCapturedShift = 19
	moveCapturedMask  = 0xF << moveCapturedShift
	movePromoBit      = 1 << 23

	// dropFromBase marks a "from" field as a drop of a given piece type
	// rather than a board square; NumSquares (81) leaves room below 256.
	dropFromBase = 150
)

// NoMove is the null/invalid move.
const NoMove Move = 0

// sentinels usi.c reserves for resignation and the (rare) USI "pass".
const (
	MoveResign Move = 0xFFFFFFFF
	MovePass   Move = 0xFFFFFFFE
)

// NewMove creates a board move (non-drop).
func NewMove(from, to Square, piece, captured PieceType, promote bool) Move {
	m := Move(to) | Move(from)<<moveFromShift | Move(piece)<<movePieceShift | Move(captured)<<moveCapturedShift
	if promote {
		m |= movePromoBit
	}
	return m
}

// NewDrop creates a drop move of piece pt onto to.
func NewDrop(pt PieceType, to Square) Move {
	return Move(to) | Move(dropFromBase+int(pt))<<moveFromShift | Move(pt)<<movePieceShift
}

func (m Move) To() Square {
	return Square(m & moveToMask)
}

func (m Move) fromRaw() int {
	return int((m & moveFromMask) >> moveFromShift)
}

// IsDrop reports whether m places a piece from hand.
func (m Move) IsDrop() bool {
	return m.fromRaw() >= dropFromBase
}

// From returns the origin square; only meaningful if !IsDrop().
func (m Move) From() Square {
	return Square(m.fromRaw())
}

// DropType returns the piece type being dropped; only meaningful if IsDrop().
func (m Move) DropType() PieceType {
	return PieceType(m.fromRaw() - dropFromBase)
}

// Piece returns the moving piece's type (after promotion, if any).
func (m Move) Piece() PieceType {
	return PieceType((m & movePieceMask) >> movePieceShift)
}

// Captured returns the captured piece's type, NoPieceType if none.
func (m Move) Captured() PieceType {
	return PieceType((m & moveCapturedMask) >> moveCapturedShift)
}

// IsPromotion reports whether this move promotes the moving piece.
func (m Move) IsPromotion() bool {
	return m&movePromoBit != 0
}

// IsCapture reports whether this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured() != NoPieceType
}

// IsQuiet reports whether this move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String renders USI move notation: "<from><to>[+]" for board moves,
// "<PieceLetter>*<to>" for drops, matching original_source/usi.c's
// usi_move_to_string.
func (m Move) String() string {
	switch m {
	case NoMove:
		return "resign"
	case MoveResign:
		return "resign"
	case MovePass:
		return "pass"
	}
	if m.IsDrop() {
		return fmt.Sprintf("%c*%s", m.DropType().Demote().SFENChar(), m.To())
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += "+"
	}
	return s
}

// MoveList is a fixed-capacity move buffer, avoiding per-position
// allocation exactly as the teacher's board.MoveList does.
type MoveList struct {
	moves [600]Move
	count int
}

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int            { return ml.count }
func (ml *MoveList) Get(i int) Move      { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move)   { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int)       { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()              { ml.count = 0 }
func (ml *MoveList) Slice() []Move       { return ml.moves[:ml.count] }

func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Undo captures the state needed to reverse a MakeMove call, the
// Shogi analogue of the teacher's board.UndoInfo, widened to restore
// hand counts since Shogi drops/captures mutate hands instead of
// vanishing material permanently.
type Undo struct {
	Captured   PieceType // full on-board type at capture time, including promotion
	HandBefore [2]Hand
	Hash       uint64
	Checkers   Bitboard
	KingSquare [2]Square
}
