package nnue

import "github.com/hailam/shogi-engine/internal/shogi"

// Accumulator caches the feature-transformer output for both color
// perspectives at one ply, mirroring the teacher's
// internal/nnue/accumulator.go Accumulator{White,Black}.
type Accumulator struct {
	Black, White [L1Size]int16
	Computed     bool
}

// MaxPly bounds the accumulator/move stack depth, shared with the
// search driver's ply budget.
const MaxPly = 128

// AccumulatorStack is a per-ply ring of accumulators pushed on
// MakeMove and popped on UnmakeMove, exactly as the teacher's
// AccumulatorStack does for chess.
type AccumulatorStack struct {
	stack [MaxPly + 1]Accumulator
	top   int
}

func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0] = Accumulator{}
}

// Push copies the current accumulator onto a new ply slot so the next
// incremental update can mutate it without disturbing the entry
// UnmakeMove will need to restore.
func (s *AccumulatorStack) Push() *Accumulator {
	s.top++
	s.stack[s.top] = s.stack[s.top-1]
	return &s.stack[s.top]
}

func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// ComputeFull recomputes acc from scratch for both perspectives,
// grounded on the teacher's Accumulator.ComputeFull full-refresh path
// (also the only path original_source/nnue.c's nnue_update_accumulator
// actually takes, despite its name).
func (n *Network) ComputeFull(pos *shogi.Position, acc *Accumulator) {
	acc.Black = n.FTBias
	acc.White = n.FTBias
	for _, f := range ActiveFeatures(pos, shogi.Black) {
		addRow(&acc.Black, n.FTWeights[f])
	}
	for _, f := range ActiveFeatures(pos, shogi.White) {
		addRow(&acc.White, n.FTWeights[f])
	}
	acc.Computed = true
}

// UpdateIncremental applies only the features that changed due to
// move m (already made on pos) to produce a new accumulator from old,
// true incremental update rather than original_source/nnue.c's
// refresh-in-disguise, resolving spec.md's Design Notes open question
// in favor of the teacher Go implementation's behavior.
func (n *Network) UpdateIncremental(pos *shogi.Position, m shogi.Move, undo shogi.Undo, old, newAcc *Accumulator) {
	for _, persp := range [2]shogi.Color{shogi.Black, shogi.White} {
		added, removed := ChangedFeatures(pos, m, undo, persp)
		dst := &newAcc.Black
		src := &old.Black
		if persp == shogi.White {
			dst = &newAcc.White
			src = &old.White
		}
		*dst = *src
		for _, f := range removed {
			subRow(dst, n.FTWeights[f])
		}
		for _, f := range added {
			addRow(dst, n.FTWeights[f])
		}
	}
	newAcc.Computed = true
}

func addRow(dst *[L1Size]int16, row [L1Size]int16) {
	for i := range dst {
		dst[i] += row[i]
	}
}

func subRow(dst *[L1Size]int16, row [L1Size]int16) {
	for i := range dst {
		dst[i] -= row[i]
	}
}
