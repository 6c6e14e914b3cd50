package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"chess-hash/movegen"
	"chess-hash/position"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the exit code; main exits only after its deferred calls have run.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fen := fs.String("fen", position.FENStartPos, "FEN string (defaults to initial position)")
	depth := fs.Int("depth", 0, "Perft depth (required)")
	divide := fs.Bool("divide", false, "Print per-move node counts at root")
	census := fs.Bool("census", false, "Report distinct positions, distinct keys and collisions instead of timing")
	repeat := fs.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := fs.String("label", "", "Optional label prefix for one-line output")
	cpuProf := fs.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := fs.String("memprofile", "", "Write heap profile to file after run")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *depth <= 0 {
		fmt.Fprintln(stderr, "-depth must be > 0")
		return 2
	}

	pos, err := position.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(stderr, "ParseFEN error: %v\n", err)
		return 2
	}

	if *divide {
		div, err := movegen.Divide(pos, *depth)
		if err != nil {
			fmt.Fprintf(stderr, "divide: %v\n", err)
			return 2
		}
		var sum uint64
		for _, m := range movegen.SortedMoves(div) {
			fmt.Fprintf(stdout, "%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Fprintf(stdout, "Total: %d\n", sum)
		return 0
	}

	if *census {
		res, err := movegen.Census(pos, *depth)
		if err != nil {
			fmt.Fprintf(stderr, "census: %v\n", err)
			return 2
		}
		fmt.Fprintf(stdout, "nodes %d positions %d keys %d collisions %d\n", res.Nodes, res.Positions, res.Keys, len(res.Collisions))
		for _, c := range res.Collisions {
			fmt.Fprintln(stdout, "  ", c)
		}
		if len(res.Collisions) > 0 {
			return 1
		}
		return 0
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(stderr, "creating cpuprofile: %v\n", err)
			return 2
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "start cpu profile: %v\n", err)
			_ = f.Close()
			return 2
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	// Timing loop
	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		n, err := movegen.Perft(pos, *depth)
		if err != nil {
			fmt.Fprintf(stderr, "perft: %v\n", err)
			return 2
		}
		totalNodes += n
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Fprintf(stdout, "%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			fmt.Fprintf(stderr, "creating memprofile: %v\n", err)
			return 2
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(stderr, "write heap profile: %v\n", err)
			return 2
		}
	}
	return 0
}
