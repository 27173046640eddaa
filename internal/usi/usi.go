// Package usi implements the Universal Shogi Interface protocol, the
// Shogi analogue of the teacher's internal/uci package, grounded on
// original_source/usi.c for wire semantics (SFEN, drop notation,
// byoyomi, gameover) and on internal/uci/uci.go for the Go-idiomatic
// scanner loop, goroutine-driven search, and option handling.
package usi

import (
	"bufio"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hailam/shogi-engine/internal/bench"
	"github.com/hailam/shogi-engine/internal/engine"
	"github.com/hailam/shogi-engine/internal/shogi"
	"github.com/hailam/shogi-engine/internal/storage"
)

// USI implements the Universal Shogi Interface main loop.
type USI struct {
	engine *engine.Engine
	store  *storage.Store

	evalFile string

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool

	profileFile *os.File
}

// New creates a protocol handler around eng, optionally persisting
// option values and benchmark history through store (nil disables
// persistence).
func New(eng *engine.Engine, store *storage.Store) *USI {
	u := &USI{engine: eng, store: store}
	if store != nil {
		if path, ok := store.GetOption("EvalFile"); ok && path != "" {
			if err := eng.LoadNNUE(path); err == nil {
				u.evalFile = path
			}
		}
	}
	return u
}

// Run starts the USI main loop, reading commands from stdin until
// "quit" or EOF.
func (u *USI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "usi":
			u.handleUSI()
		case "isready":
			u.handleIsReady()
		case "usinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "ponderhit":
			u.handlePonderHit()
		case "gameover":
			u.handleGameOver(args)
		case "setoption":
			u.handleSetOption(args)
		case "quit":
			u.handleQuit()
		case "d":
			fmt.Println(u.engine.Position().String())
		case "perft":
			u.handlePerft(args)
		case "bench", "benchmark":
			u.handleBenchmark(args)
		}
	}
}

// handleUSI responds to the "usi" handshake with id lines and option
// declarations, grounded on original_source/usi.c's id/option block
// and the teacher's handleUCI.
func (u *USI) handleUSI() {
	fmt.Println("id name ShogiEngine")
	fmt.Println("id author ShogiEngine Team")
	fmt.Println()
	fmt.Println("option name USI_Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name USI_Ponder type check default false")
	fmt.Println("option name EvalFile type string default <empty>")
	fmt.Println("option name MultiPV type spin default 1 min 1 max 8")
	fmt.Println("usiok")
}

func (u *USI) handleIsReady() {
	fmt.Println("readyok")
}

func (u *USI) handleNewGame() {
	u.engine.Clear()
	u.engine.SetPosition(shogi.NewPosition())
}

// handlePosition parses "position sfen <sfen> moves ..." and
// "position startpos moves ...", matching original_source/usi.c's
// position command and the shape of the teacher's handlePosition.
func (u *USI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *shogi.Position
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = shogi.NewPosition()
		moveStart = 1
	case "sfen":
		sfenEnd := len(args)
		for i, a := range args[1:] {
			if a == "moves" {
				sfenEnd = i + 1
				break
			}
		}
		sfenStr := strings.Join(args[1:sfenEnd], " ")
		p, err := shogi.ParseSFEN(sfenStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid sfen: %v\n", err)
			return
		}
		pos = p
		moveStart = sfenEnd + 1
	default:
		return
	}

	for i, a := range args {
		if a == "moves" {
			moveStart = i + 1
			break
		}
	}

	u.engine.SetPosition(pos)
	hashes := []uint64{pos.Hash}
	checks := []bool{pos.InCheck()}

	if moveStart < len(args) {
		for _, moveStr := range args[moveStart:] {
			m, err := ParseMove(u.engine.Position(), moveStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string invalid move %s: %v\n", moveStr, err)
				return
			}
			if _, err := u.engine.ApplyMove(m); err != nil {
				fmt.Fprintf(os.Stderr, "info string illegal move %s: %v\n", moveStr, err)
				return
			}
			hashes = append(hashes, u.engine.Position().Hash)
			checks = append(checks, u.engine.Position().InCheck())
		}
	}

	u.engine.SetPositionHistory(hashes, checks)
}

// ParseMove converts USI move text ("e2e3", "f3f4+", "P*e5", "resign",
// "pass") into the matching legal shogi.Move in pos, grounded exactly
// on original_source/usi.c's usi_string_to_move grammar (letter-file,
// digit-rank squares, per spec.md 4.6/6).
func ParseMove(pos *shogi.Position, s string) (shogi.Move, error) {
	switch s {
	case "resign":
		return shogi.MoveResign, nil
	case "pass":
		return shogi.MovePass, nil
	}

	moves := pos.GenerateLegalMoves()

	if len(s) >= 3 && s[1] == '*' {
		to, err := shogi.ParseSquare(s[2:4])
		if err != nil {
			return shogi.NoMove, err
		}
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			if m.IsDrop() && m.To() == to && m.DropType().SFENChar() == s[0] {
				return m, nil
			}
		}
		return shogi.NoMove, fmt.Errorf("no legal drop matches %q", s)
	}

	if len(s) < 4 {
		return shogi.NoMove, fmt.Errorf("move string too short: %q", s)
	}
	from, err := shogi.ParseSquare(s[0:2])
	if err != nil {
		return shogi.NoMove, err
	}
	to, err := shogi.ParseSquare(s[2:4])
	if err != nil {
		return shogi.NoMove, err
	}
	promote := len(s) == 5 && s[4] == '+'

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsDrop() {
			continue
		}
		if m.From() == from && m.To() == to && m.IsPromotion() == promote {
			return m, nil
		}
	}
	return shogi.NoMove, fmt.Errorf("no legal move matches %q", s)
}

// handleGo parses "go" time controls into engine.GoLimits and starts a
// search goroutine, grounded on original_source/usi.c's parse_go_params
// (including byoyomi) and the teacher's handleGo goroutine pattern.
func (u *USI) handleGo(args []string) {
	limits := parseGoLimits(args)

	u.engine.InfoFn = func(depth, seldepth, score int, nodes uint64, nps uint64, elapsed time.Duration, pv []shogi.Move) {
		u.sendInfo(depth, score, nodes, nps, elapsed, pv)
	}

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		result := u.engine.Search(limits)
		u.searching = false

		if result.Move == shogi.NoMove {
			fmt.Println("bestmove resign")
			return
		}
		if result.Ponder != shogi.NoMove {
			fmt.Printf("bestmove %s ponder %s\n", result.Move.String(), result.Ponder.String())
			return
		}
		fmt.Printf("bestmove %s\n", result.Move.String())
	}()
}

func parseGoLimits(args []string) engine.GoLimits {
	var limits engine.GoLimits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				limits.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				limits.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[shogi.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[shogi.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Inc[shogi.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Inc[shogi.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "byoyomi":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Byoyomi = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				limits.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}
	return limits
}

func (u *USI) sendInfo(depth, score int, nodes, nps uint64, elapsed time.Duration, pv []shogi.Move) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", depth))
	parts = append(parts, "score "+engine.ScoreToString(score))
	parts = append(parts, fmt.Sprintf("nodes %d", nodes))
	parts = append(parts, fmt.Sprintf("nps %d", nps))
	parts = append(parts, fmt.Sprintf("time %d", elapsed.Milliseconds()))

	if len(pv) > 0 {
		strs := make([]string, len(pv))
		for i, m := range pv {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

func (u *USI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.engine.Stop()
		<-u.searchDone
	}
}

// handlePonderHit tells a pondering search it may now treat its
// current line as the one actually played; this engine's single-
// threaded driver runs ponder lookahead synchronously (engine.go's
// ponderMove), so ponderhit is a no-op acknowledgement per
// SPEC_FULL.md 4.10.
func (u *USI) handlePonderHit() {}

// handleGameOver logs the final result, the USI extension
// original_source/usi.c sends after a match concludes (win/lose/draw).
func (u *USI) handleGameOver(args []string) {
	result := "unknown"
	if len(args) > 0 {
		result = args[0]
	}
	fmt.Fprintf(os.Stderr, "info string game over: %s\n", result)
	if u.store != nil {
		u.store.RecordGameResult(result)
	}
}

func (u *USI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += a
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += a
			}
		}
	}

	switch strings.ToLower(name) {
	case "evalfile":
		u.evalFile = value
		if err := u.engine.LoadNNUE(value); err != nil {
			fmt.Fprintf(os.Stderr, "info string failed to load eval file: %v\n", err)
		} else if u.store != nil {
			u.store.SetOption("EvalFile", value)
		}
	case "usi_hash":
		// Hash is sized at engine construction; resizing mid-session
		// would discard the existing table for no benefit here.
	case "cpuprofile":
		u.handleCPUProfile(value)
	}
	if u.store != nil && name != "" {
		u.store.SetOption(name, value)
	}
}

func (u *USI) handleCPUProfile(value string) {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
	}
	if value == "" || value == "stop" {
		return
	}
	f, err := os.Create(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string failed to create profile: %v\n", err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "info string failed to start profile: %v\n", err)
		return
	}
	u.profileFile = f
}

func (u *USI) handleQuit() {
	u.handleStop()
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
	}
	os.Exit(0)
}

// handleBenchmark runs the built-in benchmark suite (internal/bench)
// at an optional depth override and records the result in the session
// store, the USI extension original_source/benchmark.c's standalone
// tool is folded into as a protocol command.
func (u *USI) handleBenchmark(args []string) {
	depth := 8
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}
	summary, err := bench.Run(os.Stdout, 64, u.evalFile, depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string benchmark failed: %v\n", err)
		return
	}
	if u.store != nil {
		u.store.RecordRun(bench.ToBenchmarkRun(summary, u.evalFile != ""))
	}
}

func (u *USI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	start := time.Now()
	nodes := u.engine.Perft(depth)
	elapsed := time.Since(start)
	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
