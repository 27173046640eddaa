// Command shogi-usi is the engine's CLI entrypoint: it wires an
// Engine to the USI protocol handler over stdin/stdout, grounded on
// the teacher's cmd/chessplay-uci/main.go (flag parsing, CPU
// profiling, NNUE auto-load from standard locations).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	"github.com/hailam/shogi-engine/internal/bench"
	"github.com/hailam/shogi-engine/internal/engine"
	"github.com/hailam/shogi-engine/internal/storage"
	"github.com/hailam/shogi-engine/internal/usi"
)

// defaultNetName is the network file this engine looks for in the
// standard search paths, the Shogi-engine counterpart of the teacher's
// defaultBigNet/defaultSmallNet constants (one network, not two, since
// SPEC_FULL.md's NNUE design has no "small" auxiliary net).
const defaultNetName = "shogi.nnue"

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	evalFile   = flag.String("evalfile", "", "path to NNUE weights file")
	benchDepth = flag.Int("bench", 0, "run the benchmark suite at this depth and exit (0 disables)")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store, err := storage.NewStore()
	if err != nil {
		log.Printf("warning: session store unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	eng := engine.NewEngine(*hashMB)

	netPath := *evalFile
	if netPath == "" {
		netPath = autoLocateNNUE()
	}
	if netPath != "" {
		if err := eng.LoadNNUE(netPath); err != nil {
			log.Printf("warning: NNUE not loaded: %v (using material evaluation)", err)
		} else {
			log.Printf("NNUE loaded from %s", netPath)
		}
	}

	if *benchDepth > 0 {
		summary, err := bench.Run(os.Stdout, *hashMB, netPath, *benchDepth)
		if err != nil {
			log.Fatalf("benchmark failed: %v", err)
		}
		if store != nil {
			store.RecordRun(bench.ToBenchmarkRun(summary, netPath != ""))
		}
		return
	}

	protocol := usi.New(eng, store)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		eng.Stop()
		os.Exit(0)
	}()

	protocol.Run()
}

// autoLocateNNUE searches the same style of standard locations the
// teacher's autoLoadNNUE checks, adapted to one network file instead
// of two and to this engine's own data directory name.
func autoLocateNNUE() string {
	home, _ := os.UserHomeDir()

	searchDirs := []string{}
	if nnueDir, err := storage.GetNNUEDir(); err == nil {
		searchDirs = append(searchDirs, nnueDir)
	}
	searchDirs = append(searchDirs,
		filepath.Join(home, ".shogi-engine", "nnue"),
		"./nnue",
		".",
	)

	for _, dir := range searchDirs {
		path := filepath.Join(dir, defaultNetName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
}
