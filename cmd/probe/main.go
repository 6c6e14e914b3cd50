// Command probe is a line-oriented shell for inspecting position keys. It reads
// UCI-like commands from stdin and prints keys, their per-family breakdown,
// transposition table entries and perft results with key verification.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chess-hash/board"
	"chess-hash/engine"
	"chess-hash/movegen"
	"chess-hash/position"
	"chess-hash/zobrist"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "probe: %v\n", err)
		os.Exit(1)
	}
}

type prober struct {
	out   io.Writer
	pos   *position.Position
	stack []position.MoveState
	hist  *engine.History
	tt    *engine.TransTable
}

func newProber(out io.Writer) *prober {
	pos := position.NewPosition()
	return &prober{out: out, pos: pos, hist: engine.NewHistory(pos), tt: engine.NewTransTable(1)}
}

func run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	pr := newProber(out)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		if !pr.handle(tokens) {
			return nil
		}
	}
	return scanner.Err()
}

// handle runs one command and reports whether the loop should continue.
func (pr *prober) handle(tokens []string) bool {
	switch strings.ToLower(tokens[0]) {
	case "quit":
		return false
	case "isready":
		fmt.Fprintln(pr.out, "readyok")
	case "ucinewgame":
		pr.reset(position.NewPosition())
		pr.tt.Clear()
	case "tt":
		pr.transTable(tokens[1:])
	case "position":
		pr.position(tokens[1:])
	case "move":
		if len(tokens) < 2 {
			pr.info("Malformed move command")
			break
		}
		for _, mv := range tokens[1:] {
			if !pr.play(mv) {
				break
			}
		}
	case "undo":
		if len(pr.stack) == 0 {
			pr.info("Nothing to undo")
			break
		}
		st := pr.stack[len(pr.stack)-1]
		pr.stack = pr.stack[:len(pr.stack)-1]
		pr.pos.UnmakeMove(st)
		pr.hist.Pop()
	case "d":
		pr.display()
	case "keys":
		pr.keys()
	case "moves":
		moves := movegen.Legal(pr.pos)
		strs := make([]string, len(moves))
		for i, m := range moves {
			strs[i] = m.String()
		}
		fmt.Fprintf(pr.out, "%d: %s\n", len(moves), strings.Join(strs, " "))
	case "perft", "divide":
		depth, ok := pr.depthArg(tokens)
		if !ok {
			break
		}
		if strings.EqualFold(tokens[0], "divide") {
			pr.divide(depth)
			break
		}
		n, err := movegen.Perft(pr.pos, depth)
		if err != nil {
			pr.info(err.Error())
			break
		}
		fmt.Fprintf(pr.out, "perft %d: %d\n", depth, n)
	default:
		pr.info("Unknown command " + tokens[0])
	}
	return true
}

func (pr *prober) info(msg string) {
	fmt.Fprintln(pr.out, "info string", msg)
}

func (pr *prober) reset(pos *position.Position) {
	pr.pos = pos
	pr.stack = pr.stack[:0]
	pr.hist.Reset(pos)
}

func (pr *prober) position(args []string) {
	if len(args) == 0 {
		pr.info("Malformed position command")
		return
	}
	var pos *position.Position
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		pos = position.NewPosition()
	case "fen":
		var fields []string
		for len(rest) > 0 && strings.ToLower(rest[0]) != "moves" {
			fields = append(fields, rest[0])
			rest = rest[1:]
		}
		if len(fields) == 0 {
			pr.info("Invalid fen position")
			return
		}
		var err error
		pos, err = position.ParseFEN(strings.Join(fields, " "))
		if err != nil {
			pr.info(err.Error())
			return
		}
	default:
		pr.info("Invalid position subcommand")
		return
	}
	pr.reset(pos)
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return
	}
	for _, mv := range rest[1:] {
		if !pr.play(mv) {
			return
		}
	}
}

func (pr *prober) play(uci string) bool {
	m, ok := movegen.FindMove(pr.pos, strings.ToLower(uci))
	if !ok {
		pr.info("Move " + uci + " not found for position " + pr.pos.ToFEN())
		return false
	}
	pr.stack = append(pr.stack, pr.pos.MakeMove(m))
	pr.hist.Push(pr.pos)
	return true
}

func (pr *prober) depthArg(tokens []string) (int, bool) {
	if len(tokens) < 2 {
		pr.info("Missing depth")
		return 0, false
	}
	depth, err := strconv.Atoi(tokens[1])
	if err != nil || depth < 1 {
		pr.info("Invalid depth " + tokens[1])
		return 0, false
	}
	return depth, true
}

func (pr *prober) divide(depth int) {
	div, err := movegen.Divide(pr.pos, depth)
	if err != nil {
		pr.info(err.Error())
		return
	}
	var sum uint64
	for _, m := range movegen.SortedMoves(div) {
		fmt.Fprintf(pr.out, "%s: %d\n", m, div[m])
		sum += div[m]
	}
	fmt.Fprintf(pr.out, "Total: %d\n", sum)
}

func (pr *prober) display() {
	for rank := 7; rank >= 0; rank-- {
		var sb strings.Builder
		for file := 0; file < 8; file++ {
			pc := pr.pos.PieceAt(board.NewSquare(board.File(file), rank))
			ch := '.'
			if pc.Type() != board.PieceTypeNone {
				ch = pc.Char()
			}
			sb.WriteRune(ch)
			sb.WriteByte(' ')
		}
		fmt.Fprintf(pr.out, "%d  %s\n", rank+1, strings.TrimRight(sb.String(), " "))
	}
	fmt.Fprintln(pr.out, "   a b c d e f g h")
	fmt.Fprintf(pr.out, "fen %s\n", pr.pos.ToFEN())
	fmt.Fprintf(pr.out, "key %#016x\n", pr.pos.Hash())
	fmt.Fprintf(pr.out, "recomputed %#016x\n", pr.pos.ComputeHash())
	fmt.Fprintf(pr.out, "repetitions %d\n", pr.hist.Repetitions())
}

// keys prints the contribution of each key family; their XOR is the position key.
func (pr *prober) keys() {
	var pieces uint64
	for sq := board.Square(0); sq < 64; sq++ {
		if pc := pr.pos.PieceAt(sq); pc.Type() != board.PieceTypeNone {
			pieces ^= zobrist.Piece(pc, sq)
		}
	}
	turn := zobrist.Turn(pr.pos.SideToMove())
	ep := zobrist.EnPassant(pr.pos.EnPassantSquare().File())
	castling := zobrist.Castling(pr.pos.CastlingRights())

	fmt.Fprintf(pr.out, "pieces     %#016x\n", pieces)
	fmt.Fprintf(pr.out, "turn       %#016x (%v)\n", turn, pr.pos.SideToMove())
	fmt.Fprintf(pr.out, "enpassant  %#016x (%v)\n", ep, pr.pos.EnPassantSquare())
	fmt.Fprintf(pr.out, "castling   %#016x (%v)\n", castling, pr.pos.CastlingRights())
	fmt.Fprintf(pr.out, "xor        %#016x\n", pieces^turn^ep^castling)
	fmt.Fprintf(pr.out, "key        %#016x\n", pr.pos.Hash())
}

// transTable handles "tt" (probe the current key) and "tt store <depth> <score> [move]".
func (pr *prober) transTable(args []string) {
	key := pr.pos.Hash()
	if len(args) == 0 || strings.EqualFold(args[0], "probe") {
		entry, found := pr.tt.Probe(key)
		if !found {
			fmt.Fprintf(pr.out, "tt miss %#016x hashfull %d\n", key, pr.tt.Hashfull())
			return
		}
		fmt.Fprintf(pr.out, "tt hit %#016x depth %d score %d move %v hashfull %d\n",
			key, entry.Depth, entry.Score, entry.Move, pr.tt.Hashfull())
		return
	}
	if !strings.EqualFold(args[0], "store") || len(args) < 3 {
		pr.info("Malformed tt command")
		return
	}
	depth, err := strconv.Atoi(args[1])
	if err != nil || depth < 0 || depth > 127 {
		pr.info("Invalid depth " + args[1])
		return
	}
	score, err := strconv.Atoi(args[2])
	if err != nil || score < -32000 || score > 32000 {
		pr.info("Invalid score " + args[2])
		return
	}
	move := position.NullMove
	if len(args) > 3 {
		m, ok := movegen.FindMove(pr.pos, strings.ToLower(args[3]))
		if !ok {
			pr.info("Move " + args[3] + " not found for position " + pr.pos.ToFEN())
			return
		}
		move = m
	}
	pr.tt.Store(key, int8(depth), 0, move, int16(score), engine.ExactFlag)
	fmt.Fprintf(pr.out, "tt stored %#016x\n", key)
}
