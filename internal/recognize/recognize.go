// Package recognize implements component E, the table-driven stack
// recognizer described in §4.E: given an LL(1) grammar's parsing table and a
// whitespace-separated input string, it accepts or rejects using the
// classic predictive-parsing driver.
//
// The shape of the main loop is grounded on the reference's own LL(1)
// driver (internal/ictiobus/parse/ll1.go): a symbol stack seeded with the
// start symbol over the end marker, walked by repeatedly comparing the
// stack top against the next input token. The stack itself is an
// emirpasic/gods arraystack rather than a hand-rolled slice, the same
// container family the reference reaches for wherever it needs an explicit
// LIFO.
package recognize

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/kvarga/llgrammar/internal/grammar"
	"github.com/kvarga/llgrammar/internal/llerrors"
)

// Run drives the predictive recognizer over input against g's current
// parsing table. It returns a structured error, rather than false, when the
// grammar itself is not in a state that can be recognized against: no
// productions at all, or not LL(1).
func Run(g *grammar.Grammar, input string) (bool, error) {
	if len(g.Productions()) == 0 {
		return false, llerrors.IllFormed("recognize: grammar has no productions")
	}
	if !g.IsLL1() {
		return false, llerrors.IllFormed("recognize: grammar is not LL(1)")
	}

	tokens := strings.Fields(input)
	tokens = append(tokens, grammar.EndMarker)

	stack := arraystack.New()
	stack.Push(grammar.EndMarker)
	stack.Push(g.StartSymbol())
	cursor := 0

	for {
		top, _ := stack.Peek()
		x := top.(string)
		t := tokens[cursor]

		switch {
		case x == grammar.EndMarker && t == grammar.EndMarker:
			return true, nil

		case x == grammar.EndMarker:
			// the stack is exhausted but input remains
			return false, nil

		case g.HasTerminal(x):
			if x != t {
				return false, nil
			}
			stack.Pop()
			cursor++

		case g.HasNonterminal(x):
			p, ok := g.ProductionFor(x, t)
			if !ok {
				return false, nil
			}
			stack.Pop()
			if !p.IsEpsilon() {
				for i := len(p.RHS) - 1; i >= 0; i-- {
					stack.Push(p.RHS[i])
				}
			}

		default:
			// x is neither a known terminal nor a known nonterminal; this
			// cannot happen for a symbol that ever reached the stack from a
			// well-formed grammar, but fail closed rather than panic.
			return false, nil
		}
	}
}
