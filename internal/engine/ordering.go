package engine

import "github.com/hailam/shogi-engine/internal/shogi"

// Move ordering priorities, unchanged in scale from the teacher's
// internal/engine/ordering.go.
const (
	TTMoveScore     = 10000000
	GoodCaptureBase = 1000000
	KillerScore1    = 900000
	KillerScore2    = 800000
)

// MoveOrderer scores and sorts moves for search, trimmed from the
// teacher's MoveOrderer: this package keeps TT-move/MVV-LVA/killers/
// history (the heuristics spec.md's move-ordering contract in 4.5
// actually names) and drops the teacher's additional counter-move and
// capture-history/countermove-history tables, which are search-quality
// tuning knobs with no effect on any of spec.md's testable properties
// (see DESIGN.md).
type MoveOrderer struct {
	killers [MaxPly][2]shogi.Move
	history [pieceTypeSpan][shogi.NumSquares]int
}

const pieceTypeSpan = 16

func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = shogi.NoMove
		mo.killers[i][1] = shogi.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

func (mo *MoveOrderer) ScoreMoves(pos *shogi.Position, moves *shogi.MoveList, ply int, ttMove shogi.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(moves.Get(i), ply, ttMove)
	}
	return scores
}

var mvvLvaVictim = map[shogi.PieceType]int{
	shogi.Pawn: 1, shogi.Lance: 2, shogi.Knight: 2, shogi.Silver: 3, shogi.Gold: 4,
	shogi.Bishop: 6, shogi.Rook: 7,
	shogi.ProPawn: 4, shogi.ProLance: 4, shogi.ProKnight: 4, shogi.ProSilver: 4,
	shogi.Horse: 8, shogi.Dragon: 9,
}

func (mo *MoveOrderer) scoreMove(m shogi.Move, ply int, ttMove shogi.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture() {
		victim := mvvLvaVictim[m.Captured()]
		attacker := 1
		if !m.IsDrop() {
			attacker = mvvLvaVictim[m.Piece()]
			if attacker == 0 {
				attacker = 1
			}
		}
		return GoodCaptureBase + victim*1000 - attacker
	}

	if m.IsPromotion() {
		return GoodCaptureBase - 1000
	}

	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	return mo.history[historyIndex(m)][m.To()]
}

func historyIndex(m shogi.Move) int {
	if m.IsDrop() {
		return int(m.DropType())
	}
	return int(m.Piece())
}

// PickMove selects the highest-scoring remaining move and swaps it
// into position index, enabling lazy selection-sort ordering.
func PickMove(moves *shogi.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

func (mo *MoveOrderer) UpdateKillers(m shogi.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

func (mo *MoveOrderer) UpdateHistory(m shogi.Move, depth int, good bool) {
	idx := historyIndex(m)
	bonus := depth * depth
	if good {
		mo.history[idx][m.To()] += bonus
		if mo.history[idx][m.To()] > 400000 {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[idx][m.To()] -= bonus
		if mo.history[idx][m.To()] < -400000 {
			mo.history[idx][m.To()] = -400000
		}
	}
}
