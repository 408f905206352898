// Package shell is a line-oriented command interpreter over a recall.Manager.
// One command per line; values are JSON, and a bare word that is not valid
// JSON is stored as a string.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nevindra/recall"
)

const helpText = `commands:
  remember [-s] <key> <json>   store a value (-s: short-term)
  recall [-s] <key>            look a key up
  forget <key>                 forget one long-term key
  clear-short                  forget all short-term memory
  keys [-s]                    list keys
  help                         show this help
  quit                         exit`

// Shell reads commands from in and writes results to out.
type Shell struct {
	mem    *recall.Manager
	in     io.Reader
	out    io.Writer
	prompt string
}

// New creates a Shell. An empty prompt prints none.
func New(mem *recall.Manager, in io.Reader, out io.Writer, prompt string) *Shell {
	return &Shell{mem: mem, in: in, out: out, prompt: prompt}
}

// Run processes commands until quit, end of input, or ctx cancellation.
// Command errors are printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	s.printPrompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			s.printPrompt()
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := s.Exec(ctx, line); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		s.printPrompt()
	}
	return scanner.Err()
}

func (s *Shell) printPrompt() {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "remember":
		short, rest := shortFlag(rest)
		key, raw, ok := strings.Cut(rest, " ")
		raw = strings.TrimSpace(raw)
		if !ok || key == "" || raw == "" {
			return fmt.Errorf("usage: remember [-s] <key> <json>")
		}
		if err := s.mem.Remember(ctx, key, parseValue(raw), short); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "ok")

	case "recall":
		short, key := shortFlag(rest)
		if key == "" {
			return fmt.Errorf("usage: recall [-s] <key>")
		}
		v, found, err := s.mem.Recall(ctx, key, short)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(s.out, "(none)")
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("format value: %w", err)
		}
		fmt.Fprintln(s.out, string(data))

	case "forget":
		if rest == "" {
			return fmt.Errorf("usage: forget <key>")
		}
		if err := s.mem.ClearLongTerm(ctx, rest); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "ok")

	case "clear-short":
		if err := s.mem.ClearShortTerm(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "ok")

	case "keys":
		short, extra := shortFlag(rest)
		if extra != "" {
			return fmt.Errorf("usage: keys [-s]")
		}
		var store recall.Store = s.mem.LongTerm()
		if short {
			store = s.mem.ShortTerm()
		}
		keys, err := store.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(s.out, k)
		}

	case "help":
		fmt.Fprintln(s.out, helpText)

	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

// shortFlag strips a leading -s from args.
func shortFlag(args string) (bool, string) {
	if args == "-s" {
		return true, ""
	}
	if rest, ok := strings.CutPrefix(args, "-s "); ok {
		return true, strings.TrimSpace(rest)
	}
	return false, args
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
