package nnue

import (
	"fmt"

	"github.com/hailam/shogi-engine/internal/shogi"
)

// Evaluator wraps a Network and its per-ply AccumulatorStack, the
// Shogi-engine analogue of the teacher's internal/nnue/nnue.go
// Evaluator.
type Evaluator struct {
	Network *Network
	Stack   AccumulatorStack

	// Debug, when true, recomputes each accumulator from scratch after
	// every Push and asserts it matches the incremental result,
	// implementing spec.md's Design Notes required debug-mode check.
	Debug bool
}

// NewEvaluator builds an Evaluator, using a deterministic random
// network when no weights are loaded yet (teacher's InitRandom fallback).
func NewEvaluator() *Evaluator {
	n := NewNetwork()
	n.InitRandom(0x5A17C0DE)
	return &Evaluator{Network: n}
}

// LoadWeights loads a weights file and swaps it in.
func (e *Evaluator) LoadWeights(path string) error {
	n, err := LoadWeights(path)
	if err != nil {
		return err
	}
	e.Network = n
	return nil
}

// Reset clears the accumulator stack and computes ply 0 from scratch.
func (e *Evaluator) Reset(pos *shogi.Position) {
	e.Stack.Reset()
	e.Network.ComputeFull(pos, e.Stack.Current())
}

// Push advances the accumulator stack one ply and incrementally
// updates it for move m (already applied to pos) using undo.
func (e *Evaluator) Push(pos *shogi.Position, m shogi.Move, undo shogi.Undo) {
	old := e.Stack.Current()
	next := e.Stack.Push()
	e.Network.UpdateIncremental(pos, m, undo, old, next)

	if e.Debug {
		e.verify(pos)
	}
}

// Pop reverts the accumulator stack to the previous ply after
// shogi.Position.UnmakeMove.
func (e *Evaluator) Pop() {
	e.Stack.Pop()
}

// verify recomputes from scratch and panics on mismatch, the debug
// check spec.md's Design Notes requires for the incremental path.
func (e *Evaluator) verify(pos *shogi.Position) {
	var fresh Accumulator
	e.Network.ComputeFull(pos, &fresh)
	cur := e.Stack.Current()
	if fresh.Black != cur.Black || fresh.White != cur.White {
		panic(fmt.Sprintf("nnue: incremental accumulator diverged from refresh at ply %d", pos.Ply))
	}
}

// Evaluate returns the centipawn score for pos from the side to move's
// perspective.
func (e *Evaluator) Evaluate(pos *shogi.Position) int {
	return e.Network.Forward(e.Stack.Current(), pos.SideToMove)
}
