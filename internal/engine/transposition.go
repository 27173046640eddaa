package engine

import "github.com/hailam/shogi-engine/internal/shogi"

// TTFlag indicates the kind of bound a TTEntry stores.
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound
	TTUpperBound
)

// TTEntry is a single transposition table slot, the Shogi-engine
// analogue of the teacher's engine.TTEntry with board.Move swapped
// for shogi.Move.
type TTEntry struct {
	Key      uint32
	BestMove shogi.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	Age      uint8
}

// TranspositionTable is a power-of-two-sized hash table with
// depth/generation replacement, unchanged in structure from the
// teacher's engine.TranspositionTable.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

func NewTranspositionTable(sizeMB int) *TranspositionTable {
	entrySize := uint64(16)
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	idx := hash & tt.mask
	entry := tt.entries[idx]
	if entry.Key == uint32(hash>>32) && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove shogi.Move) {
	idx := hash & tt.mask
	entry := &tt.entries[idx]
	if entry.Age != tt.age || depth >= int(entry.Depth) {
		entry.Key = uint32(hash >> 32)
		entry.BestMove = bestMove
		entry.Score = int16(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.Age = tt.age
	}
}

func (tt *TranspositionTable) NewSearch() { tt.age++ }

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	if sampleSize == 0 {
		return 0
	}
	return (used * 1000) / sampleSize
}

func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

func (tt *TranspositionTable) Size() uint64 { return tt.size }

// AdjustScoreFromTT/AdjustScoreToTT translate mate scores between the
// ply-relative form used during search and the ply-independent form
// stored in the table, unchanged from the teacher.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// EvalEntry is one slot of the static-evaluation cache.
type EvalEntry struct {
	Key   uint32
	Score int16
	Valid bool
}

// EvalHash is a small direct-mapped cache of static evaluations keyed
// by position hash, skipping repeated NNUE forward passes on
// transposed positions. Grounded on the teacher's internal/engine/
// pawnhash.go small-cache idiom, generalized from pawn structure to
// whole-position static eval (see SPEC_FULL.md 4.3).
type EvalHash struct {
	entries []EvalEntry
	mask    uint64
}

func NewEvalHash(sizeMB int) *EvalHash {
	entrySize := uint64(8)
	n := roundDownToPowerOf2((uint64(sizeMB) * 1024 * 1024) / entrySize)
	if n == 0 {
		n = 1
	}
	return &EvalHash{entries: make([]EvalEntry, n), mask: n - 1}
}

func (e *EvalHash) Probe(hash uint64) (int, bool) {
	entry := &e.entries[hash&e.mask]
	if entry.Valid && entry.Key == uint32(hash>>32) {
		return int(entry.Score), true
	}
	return 0, false
}

func (e *EvalHash) Store(hash uint64, score int) {
	entry := &e.entries[hash&e.mask]
	entry.Key = uint32(hash >> 32)
	entry.Score = int16(score)
	entry.Valid = true
}

func (e *EvalHash) Clear() {
	for i := range e.entries {
		e.entries[i] = EvalEntry{}
	}
}
