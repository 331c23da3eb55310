package grammar

import (
	"strings"
)

// epsilonToken is the wire spelling of the empty string inside a rule's
// right-hand side.
const epsilonToken = "''"

// ParseRule parses a single textual rule of the form "LHS -> S1 S2 ... Sn"
// and, on success, adds the resulting production to g. It reports whether
// the line was syntactically valid; on a rejected line g is left unchanged.
//
// This is component B, the rule parser. It does not run the update
// orchestration pass (FIRST/FOLLOW/table refresh); callers that want an
// immediately-consistent analysis must trigger that separately, which lets a
// batch of rules share a single pass.
func (g *Grammar) ParseRule(line string) bool {
	lhs, rhs, ok := splitRule(line)
	if !ok {
		return false
	}

	g.AddProduction(lhs, rhs)
	return true
}

// ParseRules parses an ordered list of rules as a single batch: each line is
// validated and added independently, but the epoch is bumped only once, at
// the end, rather than once per line. It returns the conjunction of each
// line's validity; a rejected line still leaves every other line's
// production in place.
func (g *Grammar) ParseRules(lines []string) bool {
	g.BeginBatch()
	defer g.EndBatch()

	allOK := true
	for _, line := range lines {
		lhs, rhs, ok := splitRule(line)
		if !ok {
			allOK = false
			continue
		}
		g.AddProduction(lhs, rhs)
	}
	return allOK
}

// splitRule performs the syntactic analysis of one rule line without
// touching the grammar. It returns the validated LHS name and RHS symbol
// sequence, or ok=false if the line does not conform to the rule grammar.
func splitRule(line string) (lhs string, rhs []string, ok bool) {
	arrow := strings.Index(line, "->")
	if arrow < 0 {
		return "", nil, false
	}

	lhs = strings.TrimSpace(line[:arrow])
	if !validName(lhs) {
		return "", nil, false
	}

	rhsPart := strings.TrimSpace(line[arrow+2:])
	if rhsPart == "" {
		return "", nil, false
	}

	tokens := strings.Fields(rhsPart)
	if len(tokens) == 0 {
		return "", nil, false
	}

	symbols := make([]string, len(tokens))
	for i, tok := range tokens {
		switch tok {
		case epsilonToken:
			if len(tokens) != 1 {
				// epsilon is only meaningful as the sole symbol of a
				// production
				return "", nil, false
			}
			symbols[i] = Epsilon
		case EndMarker:
			// reserved, never user-supplied
			return "", nil, false
		default:
			symbols[i] = tok
		}
	}

	return lhs, symbols, true
}
