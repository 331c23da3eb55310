package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kvarga/llgrammar"
)

// readBatchGrammar reads an integer rule count followed by that many rule
// lines from r, in the format the companion driver surface documents, and
// parses them into a fresh Analyzer.
func readBatchGrammar(r io.Reader) (*llgrammar.Analyzer, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, fmt.Errorf("expected a rule count, got end of input")
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("rule count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("rule count must not be negative, got %d", count)
	}

	rules := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("expected %d rule lines, got %d before end of input", count, i)
		}
		rules = append(rules, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	a := llgrammar.New()
	a.ParseAll(rules)
	return a, nil
}

// runInteractive drives a readline-backed REPL that accepts rule lines and
// short queries ("first X", "follow X", "is_ll1", "recognize ...",
// "done") one at a time, grounded on internal/input's
// InteractiveCommandReader.
func runInteractive(a *llgrammar.Analyzer) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "llgramctl> "})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "done" {
			return nil
		}

		if handled := tryQuery(a, line); !handled {
			if !a.Parse(line) {
				fmt.Fprintf(rl.Stderr(), "rejected: %q\n", line)
			}
		}
	}
}

// tryQuery interprets line as one of the REPL's query forms and reports
// whether it was recognized as one (as opposed to a rule to parse).
func tryQuery(a *llgrammar.Analyzer, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "first":
		if len(fields) != 2 {
			return false
		}
		first, err := a.First(fields[1])
		if err != nil {
			fmt.Println(err.Error())
			return true
		}
		fmt.Println(strings.Join(sortedSet(first), " "))
		return true

	case "follow":
		if len(fields) != 2 {
			return false
		}
		follow, err := a.Follow(fields[1])
		if err != nil {
			fmt.Println(err.Error())
			return true
		}
		fmt.Println(strings.Join(sortedSet(follow), " "))
		return true

	case "is_ll1":
		fmt.Println(a.IsLL1())
		return true

	case "recognize":
		accepted, err := a.Recognize(strings.Join(fields[1:], " "))
		if err != nil {
			fmt.Println(err.Error())
			return true
		}
		fmt.Println(accepted)
		return true

	default:
		return false
	}
}
