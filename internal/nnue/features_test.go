package nnue

import (
	"sort"
	"testing"

	"github.com/hailam/shogi-engine/internal/shogi"
)

func TestBoardFeatureIndexExcludesKing(t *testing.T) {
	idx := BoardFeatureIndex(shogi.Black, shogi.King, shogi.NewSquare(4, 8), shogi.Black)
	if idx != -1 {
		t.Errorf("expected -1 for King, got %d", idx)
	}
}

func TestBoardFeatureIndexInRange(t *testing.T) {
	idx := BoardFeatureIndex(shogi.Black, shogi.Rook, shogi.NewSquare(0, 0), shogi.Black)
	if idx < 0 || idx >= int32(FeatureCount) {
		t.Errorf("feature index %d out of range [0, %d)", idx, FeatureCount)
	}
}

func TestHandFeatureIndexMonotonicByLevel(t *testing.T) {
	i1 := HandFeatureIndex(shogi.Black, shogi.Pawn, 1, shogi.Black)
	i2 := HandFeatureIndex(shogi.Black, shogi.Pawn, 2, shogi.Black)
	if i2 != i1+1 {
		t.Errorf("expected thermometer coding to be contiguous: level1=%d level2=%d", i1, i2)
	}
}

func sortedCopy(s []int32) []int32 {
	out := append([]int32(nil), s...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalSets(a, b []int32) bool {
	a, b = sortedCopy(a), sortedCopy(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestChangedFeaturesMatchesFullRefresh is the property-based equality
// check spec.md's Open Question (b) mandates: after applying a move,
// ActiveFeatures-before plus added minus removed must equal
// ActiveFeatures-after, for both perspectives.
func TestChangedFeaturesMatchesFullRefresh(t *testing.T) {
	pos := shogi.NewPosition()
	moves := pos.GenerateLegalMoves()

	tested := 0
	for i := 0; i < moves.Len() && tested < 10; i++ {
		m := moves.Get(i)

		for _, perspective := range [2]shogi.Color{shogi.Black, shogi.White} {
			before := ActiveFeatures(pos, perspective)
			undo := pos.MakeMove(m)
			added, removed := ChangedFeatures(pos, m, undo, perspective)
			after := ActiveFeatures(pos, perspective)
			pos.UnmakeMove(m, undo)

			predicted := applyDiff(before, added, removed)
			if !equalSets(predicted, after) {
				t.Errorf("move %s perspective %v: incremental diff mismatched full refresh\nbefore=%v added=%v removed=%v\npredicted=%v\nactual=%v",
					m, perspective, before, added, removed, predicted, after)
			}
		}
		tested++
	}
}

func applyDiff(before, added, removed []int32) []int32 {
	set := map[int32]bool{}
	for _, f := range before {
		set[f] = true
	}
	for _, f := range removed {
		delete(set, f)
	}
	for _, f := range added {
		set[f] = true
	}
	out := make([]int32, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	return out
}
