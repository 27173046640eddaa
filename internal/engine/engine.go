package engine

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/hailam/shogi-engine/internal/nnue"
	"github.com/hailam/shogi-engine/internal/shogi"
)

// State is the driver's USI state machine position, exactly the
// Idle/Searching/Pondering/ReportBest states spec.md's protocol
// adapter contract (4.6) names.
type State int32

const (
	StateIdle State = iota
	StateSearching
	StatePondering
	StateReportBest
)

// Engine is the search driver: one transposition table, one eval
// hash, one NNUE (or nil) evaluator, and a single-threaded cooperative
// searcher, grounded on the teacher's internal/engine/engine.go
// Engine struct but built on the teacher's legacy single-searcher path
// (the one it uses today for Multi-PV) rather than its primary
// Lazy-SMP multi-worker path, per spec.md 5's single-threaded
// cooperative concurrency model (there is no multi-worker search in
// this package — see DESIGN.md).
type Engine struct {
	pos    *shogi.Position
	tt     *TranspositionTable
	evalTT *EvalHash
	nn     *nnue.Evaluator
	search *Searcher

	stopFlag atomic.Bool
	state    atomic.Int32

	tm *TimeManager

	positionHashes []uint64
	positionChecks []bool

	InfoFn func(depth, seldepth int, score int, nodes uint64, nps uint64, elapsed time.Duration, pv []shogi.Move)
}

// NewEngine allocates an Engine with a hashMB-sized transposition
// table and a 1/8th-sized evaluation hash, mirroring the teacher's
// NewEngine(sizeMB) constructor.
func NewEngine(hashMB int) *Engine {
	e := &Engine{
		tt:     NewTranspositionTable(hashMB),
		evalTT: NewEvalHash(max(1, hashMB/8)),
		tm:     NewTimeManager(),
	}
	e.pos = shogi.NewPosition()
	e.search = NewSearcher(e.tt, e.evalTT, nil, &e.stopFlag)
	return e
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// LoadNNUE loads a weights file and switches evaluation to NNUE.
func (e *Engine) LoadNNUE(path string) error {
	ev := nnue.NewEvaluator()
	if err := ev.LoadWeights(path); err != nil {
		return err
	}
	e.nn = ev
	e.nn.Reset(e.pos)
	e.search = NewSearcher(e.tt, e.evalTT, e.nn, &e.stopFlag)
	return nil
}

func (e *Engine) HasNNUE() bool { return e.nn != nil }

// SetPosition replaces the current position and (if NNUE is active)
// refreshes the accumulator stack from scratch.
func (e *Engine) SetPosition(pos *shogi.Position) {
	e.pos = pos
	if e.nn != nil {
		e.nn.Reset(e.pos)
	}
	e.positionHashes = e.positionHashes[:0]
	e.positionChecks = e.positionChecks[:0]
}

// Position returns the engine's current position.
func (e *Engine) Position() *shogi.Position { return e.pos }

// SetPositionHistory feeds the full game history (hashes and whether
// each half-move gave check) so the searcher can enforce the
// perpetual-check repetition rule beyond the current search tree.
func (e *Engine) SetPositionHistory(hashes []uint64, checks []bool) {
	e.positionHashes = hashes
	e.positionChecks = checks
}

// ApplyMove plays m on the live position, updating NNUE incrementally.
func (e *Engine) ApplyMove(m shogi.Move) (shogi.Undo, error) {
	if !e.pos.GenerateLegalMoves().Contains(m) {
		return shogi.Undo{}, &shogi.LegalityError{Move: m, Msg: "not a legal move in current position"}
	}
	undo := e.pos.MakeMove(m)
	if e.nn != nil {
		e.nn.Push(e.pos, m, undo)
	}
	e.positionHashes = append(e.positionHashes, e.pos.Hash)
	e.positionChecks = append(e.positionChecks, e.pos.InCheck())
	return undo, nil
}

func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

// Clear resets the transposition/eval hashes for a new game, the
// USI "usinewgame" handler's effect.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.evalTT.Clear()
}

// SearchResult is what the driver reports at the end of a search.
type SearchResult struct {
	Move      shogi.Move
	Ponder    shogi.Move
	Score     int
	Depth     int
	Nodes     uint64
	Elapsed   time.Duration
}

// Search runs iterative deepening bounded by limits and returns the
// chosen move (with an optional ponder-move lookahead per
// SPEC_FULL.md 4.10, supplemented from original_source/usi.c's
// post-bestmove ponder search).
func (e *Engine) Search(limits GoLimits) SearchResult {
	e.state.Store(int32(StateSearching))
	defer e.state.Store(int32(StateReportBest))

	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.search.Reset()
	e.search.SetHistory(e.positionHashes, e.positionChecks)

	e.tm.Init(limits, e.pos.SideToMove, e.pos.Ply)

	maxDepth := limits.Depth
	if maxDepth == 0 {
		maxDepth = MaxPly - 1
	}

	start := time.Now()
	var best shogi.Move
	var bestScore int
	var lastMove shogi.Move
	stability := 0
	changes := 0

	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -Infinity, Infinity
		window := 25
		if depth >= 4 {
			alpha = bestScore - window
			beta = bestScore + window
		}

		var move shogi.Move
		var score int
		for {
			move, score = e.search.Search(e.pos, depth, alpha, beta)
			if e.stopFlag.Load() {
				break
			}
			if score <= alpha {
				alpha -= window
				window *= 2
				continue
			}
			if score >= beta {
				beta += window
				window *= 2
				continue
			}
			break
		}

		if e.stopFlag.Load() && depth > 1 {
			break
		}

		best = move
		bestScore = score

		if move == lastMove {
			stability++
			changes = 0
		} else {
			changes++
			stability = 0
		}
		lastMove = move

		if e.InfoFn != nil {
			nodes := e.search.Nodes()
			elapsed := e.tm.Elapsed()
			nps := uint64(0)
			if elapsed > 0 {
				nps = uint64(float64(nodes) / elapsed.Seconds())
			}
			e.InfoFn(depth, depth, bestScore, nodes, nps, elapsed, e.search.GetPV())
		}

		if limits.Nodes > 0 && e.search.Nodes() >= limits.Nodes {
			break
		}

		e.tm.AdjustForStability(stability)
		e.tm.AdjustForInstability(changes)
		if !limits.Infinite && limits.MoveTime == 0 && e.tm.PastOptimum() {
			break
		}
		if e.tm.ShouldStop() {
			break
		}
	}

	result := SearchResult{
		Move:    best,
		Score:   bestScore,
		Depth:   maxDepth,
		Nodes:   e.search.Nodes(),
		Elapsed: time.Since(start),
	}

	if limits.Ponder && best != shogi.NoMove {
		result.Ponder = e.ponderMove(best)
	}

	return result
}

// ponderMove plays best internally, searches the opponent's reply for
// a shallow depth, then unwinds — original_source/usi.c's post-bestmove
// ponder-move lookahead, supplemented per SPEC_FULL.md 4.10.
func (e *Engine) ponderMove(best shogi.Move) shogi.Move {
	undo := e.pos.MakeMove(best)
	if e.nn != nil {
		e.nn.Push(e.pos, best, undo)
	}
	moves := e.pos.GenerateLegalMoves()
	var reply shogi.Move
	if moves.Len() > 0 {
		reply, _ = e.search.Search(e.pos, 6, -Infinity, Infinity)
	}
	if e.nn != nil {
		e.nn.Pop()
	}
	e.pos.UnmakeMove(best, undo)
	return reply
}

// Perft counts leaf nodes at depth, used by the bench/test harness to
// validate move generation, grounded on the teacher's
// Engine.Perft/board-level perft tests generalized to drops.
func (e *Engine) Perft(depth int) uint64 {
	return perft(e.pos, depth)
}

func perft(pos *shogi.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var total uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		total += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return total
}

// ScoreToString formats a centipawn or mate score USI-style ("cp 120"
// or "mate 3"), grounded on the teacher's Engine.ScoreToString.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		pliesToMate := MateScore - score
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	}
	if score < -MateScore+MaxPly {
		pliesToMate := MateScore + score
		return fmt.Sprintf("mate -%d", (pliesToMate+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

func init() {
	log.SetFlags(0)
}
