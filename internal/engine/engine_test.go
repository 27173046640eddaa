package engine

import (
	"testing"
	"time"

	"github.com/hailam/shogi-engine/internal/shogi"
)

func TestEngineDetectsCheckmate(t *testing.T) {
	// White king cornered at 1a: a rook on file 8 gives check and
	// controls the whole file (covering the 1b flight square), while a
	// lone gold at 3b covers both remaining flight squares, 2a and 2b.
	// White has no other piece on the board to block or capture with.
	pos, err := shogi.ParseSFEN("8k/6G2/9/9/9/8R/9/9/4K4 w - 1")
	if err != nil {
		t.Fatalf("ParseSFEN failed: %v", err)
	}
	if !pos.InCheck() {
		t.Fatalf("expected White to be in check in this position")
	}
	if pos.GenerateLegalMoves().Len() != 0 {
		t.Fatalf("expected no legal moves for White (checkmate)")
	}

	eng := NewEngine(4)
	eng.SetPosition(pos)

	result := eng.Search(GoLimits{Depth: 3})
	if result.Move != shogi.NoMove {
		t.Errorf("expected NoMove for a checkmated side, got %s", result.Move)
	}
	if result.Score > -MateScore+MaxPly {
		t.Errorf("expected a deeply negative mate score for the side to move, got %d", result.Score)
	}
}

func TestEnginePerftMatchesStartpos(t *testing.T) {
	eng := NewEngine(1)
	if got := eng.Perft(1); got != 30 {
		t.Errorf("perft(1) = %d, want 30", got)
	}
}

func TestEngineRespectsNodeLimit(t *testing.T) {
	eng := NewEngine(4)
	result := eng.Search(GoLimits{Nodes: 500, Depth: 64})
	if result.Nodes == 0 {
		t.Errorf("expected at least some nodes searched")
	}
}

func TestEngineMoveTimeStopsPromptly(t *testing.T) {
	eng := NewEngine(4)
	start := time.Now()
	eng.Search(GoLimits{MoveTime: 50 * time.Millisecond, Depth: 64})
	elapsed := time.Since(start)
	if elapsed > 2*time.Second {
		t.Errorf("search with a 50ms move time budget took %v, want well under 2s", elapsed)
	}
}

func TestScoreToStringFormatsMateAndCP(t *testing.T) {
	if got := ScoreToString(150); got != "cp 150" {
		t.Errorf("expected 'cp 150', got %q", got)
	}
	if got := ScoreToString(MateScore - 2); got == "" {
		t.Errorf("expected a mate score string")
	}
}
