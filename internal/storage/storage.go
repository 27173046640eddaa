// Package storage persists USI option values and benchmark run history
// across process restarts, the Shogi-engine counterpart of the
// teacher's badger-backed user-preferences/game-stats storage,
// generalized from "player settings and win/loss records" to "engine
// options and benchmark history" per SPEC_FULL.md 4.9/9 (a Shogi
// engine has no human player profile to persist, but USI's
// setoption values and benchmark.c-style run history are the
// equivalent durable state).
package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyOptionPrefix = "option:"
	keyRunHistory   = "run_history"
	keyFirstLaunch  = "first_launch"
)

// BenchmarkRun records one completed benchmark harness invocation
// (internal/bench), mirroring the per-run summary
// original_source/benchmark.c prints at the end of its fixed suite.
type BenchmarkRun struct {
	Timestamp   time.Time `json:"timestamp"`
	TotalNodes  uint64    `json:"total_nodes"`
	TotalTime   time.Duration `json:"total_time"`
	NPS         uint64    `json:"nps"`
	Positions   int       `json:"positions"`
	Failed      int       `json:"failed"`
	UsedNNUE    bool      `json:"used_nnue"`
}

// RunHistory is the persisted list of past benchmark runs, capped to
// the most recent maxRunHistory entries.
type RunHistory struct {
	Runs []BenchmarkRun `json:"runs"`
}

const maxRunHistory = 50

// Store wraps BadgerDB for persistent engine-session state, the
// Shogi-engine analogue of the teacher's Storage type.
type Store struct {
	db *badger.DB
}

// NewStore opens (creating if absent) the engine's session database.
func NewStore() (*Store, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first time the engine has
// run on this machine.
func (s *Store) IsFirstLaunch() (bool, error) {
	firstLaunch := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})
	return firstLaunch, err
}

// MarkFirstLaunchComplete records that first-launch setup has run.
func (s *Store) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SetOption persists a USI setoption name/value pair so it survives a
// process restart (e.g. EvalFile, so the engine re-loads its last NNUE
// network automatically).
func (s *Store) SetOption(name, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptionPrefix+name), []byte(value))
	})
}

// GetOption retrieves a previously persisted option value.
func (s *Store) GetOption(name string) (string, bool) {
	var value string
	found := false
	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptionPrefix + name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	return value, found
}

// RecordGameResult logs a "gameover" notification for later inspection
// (USI sends win/lose/draw after a match concludes; there is no
// ongoing win/loss streak to track for an engine the way the
// teacher's GUI tracks its human player's record).
func (s *Store) RecordGameResult(result string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte("gameover:" + time.Now().UTC().Format(time.RFC3339Nano))
		return txn.Set(key, []byte(result))
	})
}

// LoadRunHistory loads the persisted benchmark run history, returning
// an empty history if none has been recorded yet.
func (s *Store) LoadRunHistory() (*RunHistory, error) {
	hist := &RunHistory{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyRunHistory))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, hist)
		})
	})
	return hist, err
}

// SaveRunHistory persists hist, capping to the most recent
// maxRunHistory entries.
func (s *Store) SaveRunHistory(hist *RunHistory) error {
	if len(hist.Runs) > maxRunHistory {
		hist.Runs = hist.Runs[len(hist.Runs)-maxRunHistory:]
	}
	data, err := json.Marshal(hist)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyRunHistory), data)
	})
}

// RecordRun appends run to the persisted history.
func (s *Store) RecordRun(run BenchmarkRun) error {
	hist, err := s.LoadRunHistory()
	if err != nil {
		return err
	}
	hist.Runs = append(hist.Runs, run)
	return s.SaveRunHistory(hist)
}
