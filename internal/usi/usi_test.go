package usi

import (
	"testing"
	"time"

	"github.com/hailam/shogi-engine/internal/shogi"
)

func TestParseMoveBoardMove(t *testing.T) {
	pos := shogi.NewPosition()
	m, err := ParseMove(pos, "c7c6")
	if err != nil {
		t.Fatalf("ParseMove failed: %v", err)
	}
	if m.IsDrop() {
		t.Errorf("expected a board move, got a drop")
	}
}

func TestParseMoveDropNotation(t *testing.T) {
	sfen := "4k4/9/9/9/9/9/9/9/4K4 b P 1"
	pos, err := shogi.ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("ParseSFEN failed: %v", err)
	}
	m, err := ParseMove(pos, "P*e5")
	if err != nil {
		t.Fatalf("ParseMove failed on drop: %v", err)
	}
	if !m.IsDrop() || m.DropType() != shogi.Pawn {
		t.Errorf("expected a pawn drop, got %s", m)
	}
}

func TestParseMoveSentinels(t *testing.T) {
	pos := shogi.NewPosition()
	if m, err := ParseMove(pos, "resign"); err != nil || m != shogi.MoveResign {
		t.Errorf("expected MoveResign, got %s (err %v)", m, err)
	}
	if m, err := ParseMove(pos, "pass"); err != nil || m != shogi.MovePass {
		t.Errorf("expected MovePass, got %s (err %v)", m, err)
	}
}

func TestParseMoveRejectsIllegalMove(t *testing.T) {
	pos := shogi.NewPosition()
	if _, err := ParseMove(pos, "a1a2"); err == nil {
		t.Errorf("expected an error for a move with no matching legal move")
	}
}

func TestParseGoLimitsTimeControl(t *testing.T) {
	limits := parseGoLimits([]string{"btime", "60000", "wtime", "30000", "byoyomi", "5000"})
	if limits.Time[shogi.Black] != 60*time.Second {
		t.Errorf("expected black time 60s, got %v", limits.Time[shogi.Black])
	}
	if limits.Time[shogi.White] != 30*time.Second {
		t.Errorf("expected white time 30s, got %v", limits.Time[shogi.White])
	}
	if limits.Byoyomi != 5*time.Second {
		t.Errorf("expected byoyomi 5s, got %v", limits.Byoyomi)
	}
}

func TestParseGoLimitsDepthAndNodes(t *testing.T) {
	limits := parseGoLimits([]string{"depth", "12", "nodes", "100000"})
	if limits.Depth != 12 {
		t.Errorf("expected depth 12, got %d", limits.Depth)
	}
	if limits.Nodes != 100000 {
		t.Errorf("expected nodes 100000, got %d", limits.Nodes)
	}
}

func TestParseGoLimitsInfiniteAndPonder(t *testing.T) {
	limits := parseGoLimits([]string{"infinite"})
	if !limits.Infinite {
		t.Errorf("expected Infinite to be set")
	}
	limits = parseGoLimits([]string{"ponder"})
	if !limits.Ponder {
		t.Errorf("expected Ponder to be set")
	}
}
