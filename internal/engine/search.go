package engine

import (
	"sync/atomic"

	"github.com/hailam/shogi-engine/internal/shogi"
)

// Search constants, unchanged in scale from the teacher's
// internal/engine/search.go.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation line found at each ply.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]shogi.Move
}

// History is a lightweight repeated-position detector the driver feeds
// with the game's move history so the Searcher can apply spec.md
// 4.5's perpetual-check repetition rule (the side delivering check
// throughout a repeated cycle loses) without needing the teacher's
// chess 50-move/insufficient-material rules, which have no Shogi
// equivalent.
type History struct {
	hashes     []uint64
	checkGiven []bool
}

func (h *History) Push(hash uint64, givesCheck bool) {
	h.hashes = append(h.hashes, hash)
	h.checkGiven = append(h.checkGiven, givesCheck)
}

func (h *History) Pop() {
	h.hashes = h.hashes[:len(h.hashes)-1]
	h.checkGiven = h.checkGiven[:len(h.checkGiven)-1]
}

// repetitionResult classifies a repeated position whose hash is the last
// history entry: 0 = not repeated, 1 = ordinary draw, 2 = the side to
// move is the perpetual checker and loses, 3 = the opponent is the
// perpetual checker and the side to move wins.
func (h *History) repetitionResult(hash uint64) int {
	count := 0
	oppAllChecks, usAllChecks := true, true
	for i := len(h.hashes) - 1; i >= 0; i-- {
		if h.hashes[i] == hash {
			count++
			if count >= 3 {
				if usAllChecks {
					return 2
				}
				if oppAllChecks {
					return 3
				}
				return 1
			}
		}
		if (len(h.hashes)-1-i)%2 == 0 {
			oppAllChecks = oppAllChecks && h.checkGiven[i]
		} else {
			usAllChecks = usAllChecks && h.checkGiven[i]
		}
	}
	return 0
}

// Searcher performs iterative-deepening negamax with quiescence,
// grounded on the teacher's internal/engine/search.go Searcher,
// generalized to shogi.Position/Move and widened with an Evaluator
// plug (NNUE or material) and repetition/perpetual-check handling.
type Searcher struct {
	pos     *shogi.Position
	tt      *TranspositionTable
	evalTT  *EvalHash
	eval    Evaluator
	orderer *MoveOrderer
	hist    *History

	nodes    uint64
	stopFlag *atomic.Bool

	pv PVTable
}

func NewSearcher(tt *TranspositionTable, evalTT *EvalHash, eval Evaluator, stopFlag *atomic.Bool) *Searcher {
	return &Searcher{
		tt:       tt,
		evalTT:   evalTT,
		eval:     eval,
		orderer:  NewMoveOrderer(),
		stopFlag: stopFlag,
		hist:     &History{},
	}
}

func (s *Searcher) Reset() {
	s.nodes = 0
	s.orderer.Clear()
}

func (s *Searcher) Nodes() uint64 { return s.nodes }

// SetHistory replaces the repetition history with the game's move
// history up to and including pos, one bool per ply marking whether
// that position's mover was giving check.
func (s *Searcher) SetHistory(hashes []uint64, checks []bool) {
	s.hist = &History{hashes: append([]uint64(nil), hashes...), checkGiven: append([]bool(nil), checks...)}
}

// Search runs iterative negamax to a fixed depth from pos (not
// copied — caller owns undo/redo via the same Position instance the
// driver already threads through MakeMove/UnmakeMove for NNUE
// incrementality).
func (s *Searcher) Search(pos *shogi.Position, depth int, alpha, beta int) (shogi.Move, int) {
	s.pos = pos

	score := s.negamax(depth, 0, alpha, beta)

	var bestMove shogi.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}
	return bestMove, score
}

func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 {
		if r := s.hist.repetitionResult(s.pos.Hash); r != 0 {
			if r == 2 {
				return -MateScore + ply
			}
			if r == 3 {
				return MateScore - ply
			}
			return 0
		}
	}

	var ttMove shogi.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		if int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	moves := s.pos.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := shogi.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		undo := s.pos.MakeMove(move)
		if s.eval != nil {
			s.eval.Push(s.pos, move, undo)
		}
		s.hist.Push(s.pos.Hash, s.pos.InCheck())

		score := -s.negamax(depth-1, ply+1, -beta, -alpha)

		s.hist.Pop()
		if s.eval != nil {
			s.eval.Pop()
		}
		s.pos.UnmakeMove(move, undo)

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
			if move.IsQuiet() {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
			}
			return score
		}
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

const maxQuiescencePly = 32

func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	if ply >= MaxPly-1 || ply > maxQuiescencePly {
		return StaticEval(s.pos, s.eval, s.evalTT)
	}
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	standPat := StaticEval(s.pos, s.eval, s.evalTT)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := s.pos.GenerateLegalMoves()
	captures := &shogi.MoveList{}
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.IsCapture() || s.pos.InCheck() {
			captures.Add(m)
		}
	}

	scores := s.orderer.ScoreMoves(s.pos, captures, ply, shogi.NoMove)
	for i := 0; i < captures.Len(); i++ {
		PickMove(captures, scores, i)
		move := captures.Get(i)

		undo := s.pos.MakeMove(move)
		if s.eval != nil {
			s.eval.Push(s.pos, move, undo)
		}
		score := -s.quiescence(ply+1, -beta, -alpha)
		if s.eval != nil {
			s.eval.Pop()
		}
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// GetPV returns the principal variation from the last Search call.
func (s *Searcher) GetPV() []shogi.Move {
	pv := make([]shogi.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}
