package shogi

import "testing"

func TestHandPackingRoundTrip(t *testing.T) {
	var h Hand
	h = h.Add(Pawn)
	h = h.Add(Pawn)
	h = h.Add(Rook)
	if h.Count(Pawn) != 2 {
		t.Errorf("expected 2 pawns in hand, got %d", h.Count(Pawn))
	}
	if h.Count(Rook) != 1 {
		t.Errorf("expected 1 rook in hand, got %d", h.Count(Rook))
	}
	h = h.Remove(Pawn)
	if h.Count(Pawn) != 1 {
		t.Errorf("expected 1 pawn in hand after remove, got %d", h.Count(Pawn))
	}
}

func TestHandMaxCounts(t *testing.T) {
	if MaxHandCount(Pawn) != 18 {
		t.Errorf("expected max pawn count 18, got %d", MaxHandCount(Pawn))
	}
	if MaxHandCount(Rook) != 2 {
		t.Errorf("expected max rook count 2, got %d", MaxHandCount(Rook))
	}
	if MaxHandCount(Gold) != 4 {
		t.Errorf("expected max gold count 4, got %d", MaxHandCount(Gold))
	}
}

func TestBitboardSetClear(t *testing.T) {
	var bb Bitboard
	sq := NewSquare(3, 5)
	bb = bb.Set(sq)
	if !bb.IsSet(sq) {
		t.Errorf("expected square %v to be set", sq)
	}
	if bb.PopCount() != 1 {
		t.Errorf("expected popcount 1, got %d", bb.PopCount())
	}
	bb = bb.Clear(sq)
	if bb.IsSet(sq) || bb.PopCount() != 0 {
		t.Errorf("expected bitboard to be empty after clear")
	}
}

func TestBitboardSpansBothWords(t *testing.T) {
	var bb Bitboard
	low := NewSquare(0, 0)
	high := NewSquare(8, 8)
	bb = bb.Set(low).Set(high)
	if bb.PopCount() != 2 {
		t.Errorf("expected popcount 2 across both words, got %d", bb.PopCount())
	}
	if !bb.IsSet(low) || !bb.IsSet(high) {
		t.Errorf("expected both low and high squares set")
	}
}

func TestPieceTypeSignedMagnitude(t *testing.T) {
	p := NewPiece(Rook, White)
	if p.Type() != Rook {
		t.Errorf("expected type Rook, got %v", p.Type())
	}
	if p.Color() != White {
		t.Errorf("expected color White, got %v", p.Color())
	}
	promoted := p.Promote()
	if promoted.Type() != Dragon {
		t.Errorf("expected promoted Rook to be Dragon, got %v", promoted.Type())
	}
	if promoted.Color() != White {
		t.Errorf("expected promoted piece to keep color White")
	}
}

func TestNewPositionInCheckFalse(t *testing.T) {
	pos := NewPosition()
	if pos.InCheck() {
		t.Errorf("starting position should not be in check")
	}
}

func TestComputeHashChangesWithSideToMove(t *testing.T) {
	pos := NewPosition()
	h1 := pos.ComputeHash()
	pos.SideToMove = pos.SideToMove.Other()
	h2 := pos.ComputeHash()
	if h1 == h2 {
		t.Errorf("expected hash to change when side to move flips")
	}
}
