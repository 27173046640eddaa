package engine

import "github.com/hailam/shogi-engine/internal/shogi"

// Material evaluates pos from Black's perspective using BaseValue,
// including pieces held in hand, a Shogi-specific term the teacher's
// chess Material() has no analogue for since captured chess pieces
// leave the game permanently.
func Material(pos *shogi.Position) int {
	score := 0
	for pt := 1; pt < shogi.PieceTypeCount; pt++ {
		score += pos.Pieces[shogi.Black][pt].PopCount() * shogi.BaseValue[pt]
		score -= pos.Pieces[shogi.White][pt].PopCount() * shogi.BaseValue[pt]
	}
	for _, pt := range shogi.HandPieceTypes {
		score += pos.Hands[shogi.Black].Count(pt) * shogi.BaseValue[pt]
		score -= pos.Hands[shogi.White].Count(pt) * shogi.BaseValue[pt]
	}
	return score
}

// Evaluator is the interface the search driver evaluates leaves
// through, satisfied by *nnue.Evaluator. Kept here, rather than
// importing internal/nnue into every call site, so the classical
// material fallback needs no NNUE dependency at all.
type Evaluator interface {
	Evaluate(pos *shogi.Position) int
	Push(pos *shogi.Position, m shogi.Move, undo shogi.Undo)
	Pop()
	Reset(pos *shogi.Position)
}

// StaticEval returns the centipawn score for pos from the side to
// move's perspective, using ev if present or falling back to
// material-only evaluation per spec.md's LoadError handling ("the
// evaluator stays unloaded; the engine continues with material-only
// evaluation").
func StaticEval(pos *shogi.Position, ev Evaluator, cache *EvalHash) int {
	if cache != nil {
		if score, ok := cache.Probe(pos.Hash); ok {
			return score
		}
	}

	var score int
	if ev != nil {
		score = ev.Evaluate(pos)
	} else {
		score = Material(pos)
		if pos.SideToMove == shogi.White {
			score = -score
		}
	}

	if cache != nil {
		cache.Store(pos.Hash, score)
	}
	return score
}
