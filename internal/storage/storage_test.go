package storage

import (
	"os"
	"testing"
	"time"
)

func TestStoreOptionsAndRunHistory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "shogi-engine-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	t.Setenv("XDG_DATA_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	t.Run("OptionRoundTrip", func(t *testing.T) {
		if _, found := store.GetOption("EvalFile"); found {
			t.Errorf("expected no EvalFile option before it is set")
		}
		if err := store.SetOption("EvalFile", "/tmp/weights.bin"); err != nil {
			t.Fatalf("SetOption failed: %v", err)
		}
		value, found := store.GetOption("EvalFile")
		if !found || value != "/tmp/weights.bin" {
			t.Errorf("expected EvalFile=/tmp/weights.bin, got %q found=%v", value, found)
		}
	})

	t.Run("RunHistory", func(t *testing.T) {
		hist, err := store.LoadRunHistory()
		if err != nil {
			t.Fatalf("LoadRunHistory failed: %v", err)
		}
		if len(hist.Runs) != 0 {
			t.Errorf("expected empty run history, got %d runs", len(hist.Runs))
		}

		run := BenchmarkRun{
			Timestamp:  time.Now(),
			TotalNodes: 1000,
			TotalTime:  time.Second,
			NPS:        1000,
			Positions:  10,
		}
		if err := store.RecordRun(run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}

		hist, err = store.LoadRunHistory()
		if err != nil {
			t.Fatalf("LoadRunHistory failed: %v", err)
		}
		if len(hist.Runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(hist.Runs))
		}
		if hist.Runs[0].TotalNodes != 1000 {
			t.Errorf("expected TotalNodes=1000, got %d", hist.Runs[0].TotalNodes)
		}
	})

	t.Run("RunHistoryCap", func(t *testing.T) {
		hist := &RunHistory{}
		for i := 0; i < maxRunHistory+10; i++ {
			hist.Runs = append(hist.Runs, BenchmarkRun{TotalNodes: uint64(i)})
		}
		if err := store.SaveRunHistory(hist); err != nil {
			t.Fatalf("SaveRunHistory failed: %v", err)
		}
		loaded, err := store.LoadRunHistory()
		if err != nil {
			t.Fatalf("LoadRunHistory failed: %v", err)
		}
		if len(loaded.Runs) != maxRunHistory {
			t.Errorf("expected history capped at %d, got %d", maxRunHistory, len(loaded.Runs))
		}
	})

	t.Run("FirstLaunch", func(t *testing.T) {
		first, err := store.IsFirstLaunch()
		if err != nil {
			t.Fatalf("IsFirstLaunch failed: %v", err)
		}
		if !first {
			t.Errorf("expected first launch to be true initially")
		}
		if err := store.MarkFirstLaunchComplete(); err != nil {
			t.Fatalf("MarkFirstLaunchComplete failed: %v", err)
		}
		first, err = store.IsFirstLaunch()
		if err != nil {
			t.Fatalf("IsFirstLaunch failed: %v", err)
		}
		if first {
			t.Errorf("expected first launch to be false after marking complete")
		}
	})
}

func TestDataPaths(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "shogi-engine-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
