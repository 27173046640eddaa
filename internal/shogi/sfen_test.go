package shogi

import "testing"

func TestParseSFENStartpos(t *testing.T) {
	pos, err := ParseSFEN(StartSFEN)
	if err != nil {
		t.Fatalf("ParseSFEN(StartSFEN) failed: %v", err)
	}
	if pos.SideToMove != Black {
		t.Errorf("expected Black to move, got %v", pos.SideToMove)
	}
	if pos.PieceAt(NewSquare(4, 8)).Type() != King || pos.PieceAt(NewSquare(4, 8)).Color() != Black {
		t.Errorf("expected Black king on 5i, got %v", pos.PieceAt(NewSquare(4, 8)))
	}
	if pos.PieceAt(NewSquare(4, 0)).Type() != King || pos.PieceAt(NewSquare(4, 0)).Color() != White {
		t.Errorf("expected White king on 5a, got %v", pos.PieceAt(NewSquare(4, 0)))
	}
	if !pos.Hands[Black].Empty() || !pos.Hands[White].Empty() {
		t.Errorf("expected empty hands at startpos")
	}
}

func TestRenderSFENRoundTrip(t *testing.T) {
	pos, err := ParseSFEN(StartSFEN)
	if err != nil {
		t.Fatalf("ParseSFEN failed: %v", err)
	}
	rendered := pos.RenderSFEN()

	reparsed, err := ParseSFEN(rendered)
	if err != nil {
		t.Fatalf("ParseSFEN(rendered) failed: %v, sfen=%q", err, rendered)
	}
	if reparsed.Hash != pos.Hash {
		t.Errorf("round-tripped position hash mismatch: %x vs %x", reparsed.Hash, pos.Hash)
	}
}

func TestParseSFENWithHands(t *testing.T) {
	// A pawn missing from White's third rank and White's bishop missing
	// from its developing square, both parked in hand per the "Pb" field
	// (uppercase = Black's hand, lowercase = White's hand).
	sfen := "lnsgkgsnl/1r7/p1ppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b Pb 1"
	pos, err := ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("ParseSFEN failed: %v", err)
	}
	if pos.Hands[Black].Count(Pawn) != 1 {
		t.Errorf("expected 1 pawn in Black's hand, got %d", pos.Hands[Black].Count(Pawn))
	}
	if pos.Hands[White].Count(Bishop) != 1 {
		t.Errorf("expected 1 bishop in White's hand, got %d", pos.Hands[White].Count(Bishop))
	}
}
