package engine

import (
	"time"

	"github.com/hailam/shogi-engine/internal/shogi"
)

// GoLimits mirrors the USI "go" command's time-control parameters,
// the Shogi-engine counterpart of the teacher's UCILimits, widened
// with Byoyomi per original_source/usi.c's parse_go_params (a
// supplemented feature; chess's UCI has no byoyomi equivalent).
type GoLimits struct {
	Time      [2]time.Duration // btime, wtime (remaining time for Black, White)
	Inc       [2]time.Duration // binc, winc
	Byoyomi   time.Duration    // fixed per-move reserve time, added to every move
	MovesToGo int
	MoveTime  time.Duration
	Depth     int
	Nodes     uint64
	Infinite  bool
	Ponder    bool
}

// TimeManager paces iterative deepening against a soft "optimum" and a
// hard "maximum" budget, grounded on the teacher's
// internal/engine/timeman.go almost unchanged — time allocation is a
// domain-agnostic concern.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init sets up optimum/maximum time for a search by color us at game ply.
func (tm *TimeManager) Init(limits GoLimits, us shogi.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || (limits.Time[us] == 0 && limits.Byoyomi == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us] + limits.Byoyomi

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft / time.Duration(mtg)
	baseTime += inc * 9 / 10

	tm.optimumTime = baseTime
	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft*8/10 + limits.Byoyomi
	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft*95/100 + limits.Byoyomi
	if tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

func (tm *TimeManager) Elapsed() time.Duration      { return time.Since(tm.startTime) }
func (tm *TimeManager) OptimumTime() time.Duration  { return tm.optimumTime }
func (tm *TimeManager) MaximumTime() time.Duration  { return tm.maximumTime }
func (tm *TimeManager) ShouldStop() bool            { return tm.Elapsed() >= tm.maximumTime }
func (tm *TimeManager) PastOptimum() bool           { return tm.Elapsed() >= tm.optimumTime }

// AdjustForStability shortens the optimum once the best move has held
// for several consecutive iterations.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability extends the optimum (capped at maximum) when
// the best move keeps flipping between iterations.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
