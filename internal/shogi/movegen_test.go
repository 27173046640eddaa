package shogi

import "testing"

// perft counts leaf nodes at depth, the standard move-generation
// correctness check, grounded on the teacher's board/perft_test.go.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// TestPerftStartposDepth1 checks the well-known 30-move count for the
// first player's opening choices in standard Shogi: nine pawn pushes
// plus twenty-one piece moves (lances 2, silvers 4, golds 6, king 3,
// rook 6; the knights and the bishop have none, and no drops are
// possible with empty hands).
func TestPerftStartposDepth1(t *testing.T) {
	pos := NewPosition()
	got := perft(pos, 1)
	if got != 30 {
		t.Errorf("perft(1) from startpos = %d, want 30", got)
	}
}

// TestPerftUnmakeRestoresHash checks that playing and unplaying every
// legal move from the starting position returns the position to its
// original Zobrist hash, the property the incremental NNUE accumulator
// and the search's repetition detector both depend on.
func TestPerftUnmakeRestoresHash(t *testing.T) {
	pos := NewPosition()
	original := pos.Hash
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		pos.UnmakeMove(m, undo)
		if pos.Hash != original {
			t.Fatalf("hash not restored after move %s: got %x want %x", m, pos.Hash, original)
		}
	}
}

// TestPerftDepth2AllRepliesExist is a weaker, implementation-
// agnostic sanity check in place of a hardcoded depth-2 total: every
// one of the 30 root moves must have at least one legal reply (no side
// can be accidentally mated or stalemated two plies into the
// standard opening).
func TestPerftDepth2AllRepliesExist(t *testing.T) {
	pos := NewPosition()
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		replies := pos.GenerateLegalMoves()
		if replies.Len() == 0 {
			t.Errorf("move %s leaves opponent with no legal replies", m)
		}
		pos.UnmakeMove(m, undo)
	}
}

// TestNifuForbidsSecondUnpromotedPawn checks the two-pawns-on-a-file
// rule: with a pawn already on file 4 and another in hand, no drop of
// that pawn back onto file 4 should be generated.
func TestNifuForbidsSecondUnpromotedPawn(t *testing.T) {
	// Black has a pawn on e5 (file 4) already, and a second pawn in
	// hand; the board is otherwise empty except both kings.
	sfen := "4k4/9/9/9/4P4/9/9/9/4K4 b P 1"
	pos, err := ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("ParseSFEN failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsDrop() && m.DropType() == Pawn && m.To().File() == 4 {
			t.Errorf("nifu violation: generated pawn drop %s onto file already holding a pawn", m)
		}
	}
}

// TestForcedPromotionOnLastRank checks that a pawn move onto the
// furthest rank is only generated as a promoting move (Shogi pawns and
// lances cannot stay unpromoted on the last rank).
func TestForcedPromotionOnLastRank(t *testing.T) {
	// Black pawn one step from promotion on file 4.
	sfen := "3pkp3/4P4/9/9/9/9/9/9/4K4 b - 1"
	pos, err := ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("ParseSFEN failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	found := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if !m.IsDrop() && m.Piece().Demote() == Pawn && m.To().Rank() == 0 {
			found = true
			if !m.IsPromotion() {
				t.Errorf("pawn move to last rank %s must be forced to promote", m)
			}
		}
	}
	if !found {
		t.Fatalf("expected to find a pawn push to the last rank in this position")
	}
}
