package nnue

import (
	"testing"

	"github.com/hailam/shogi-engine/internal/shogi"
)

// TestIncrementalAccumulatorMatchesRefresh exercises the Debug-mode
// equality check end to end: every legal move from the starting
// position must incrementally update the accumulator to the same
// values a full recompute would produce, the property spec.md's
// Design Notes Open Question (b) requires in place of the original
// source's "refresh each ply" shortcut.
func TestIncrementalAccumulatorMatchesRefresh(t *testing.T) {
	pos := shogi.NewPosition()
	ev := NewEvaluator()
	ev.Debug = true
	ev.Reset(pos)

	moves := pos.GenerateLegalMoves()
	tested := 0
	for i := 0; i < moves.Len() && tested < 15; i++ {
		m := moves.Get(i)

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("move %s: incremental update panicked: %v", m, r)
				}
			}()
			undo := pos.MakeMove(m)
			ev.Push(pos, m, undo)
			ev.Pop()
			pos.UnmakeMove(m, undo)
		}()
		tested++
	}
}

func TestEvaluateReturnsFiniteScore(t *testing.T) {
	pos := shogi.NewPosition()
	ev := NewEvaluator()
	ev.Reset(pos)
	score := ev.Evaluate(pos)
	if score < -100000 || score > 100000 {
		t.Errorf("evaluation out of sane range: %d", score)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	n := NewNetwork()
	n.InitRandom(42)

	path := t.TempDir() + "/weights.bin"
	if err := n.SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights failed: %v", err)
	}

	loaded, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights failed: %v", err)
	}
	if loaded.FTBias != n.FTBias {
		t.Errorf("FTBias mismatch after round trip")
	}
	if loaded.OutputBias != n.OutputBias {
		t.Errorf("OutputBias mismatch after round trip")
	}
}
