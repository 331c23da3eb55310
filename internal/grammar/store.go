package grammar

import (
	"fmt"
	"strings"
)

// Production is an ordered pair (LHS, RHS) where LHS is a nonterminal name
// and RHS is a non-empty ordered sequence of symbols. A Production whose RHS
// is exactly [Epsilon] is an epsilon-production.
type Production struct {
	LHS string
	RHS []string
}

// IsEpsilon reports whether p is the epsilon-production for its LHS.
func (p Production) IsEpsilon() bool {
	return len(p.RHS) == 1 && p.RHS[0] == Epsilon
}

// Copy returns a duplicate of p whose RHS slice does not alias p's.
func (p Production) Copy() Production {
	rhs := make([]string, len(p.RHS))
	copy(rhs, p.RHS)
	return Production{LHS: p.LHS, RHS: rhs}
}

// String renders p in the textual rule format, e.g. "E -> T EPrime" or
// "EPrime -> ''" for an epsilon-production.
func (p Production) String() string {
	parts := make([]string, len(p.RHS))
	for i, sym := range p.RHS {
		if sym == Epsilon {
			parts[i] = "''"
		} else {
			parts[i] = sym
		}
	}
	return fmt.Sprintf("%s -> %s", p.LHS, strings.Join(parts, " "))
}

// record is the bookkeeping the engine keeps per nonterminal: its cached
// FIRST/FOLLOW sets, each tagged with the epoch it was computed under, and
// the LL(1) parsing row once one has been built.
type record struct {
	name string

	first    map[string]bool
	firstVer int

	follow    map[string]bool
	followVer int

	row map[string]Production // terminal -> chosen production, once built
}

// Grammar is the symbol-and-production store described as component A: the
// ordered set of nonterminals, the set of terminals, and the ordered list of
// productions, plus the cached analysis attached to each nonterminal.
//
// The zero value is an empty grammar ready to use.
type Grammar struct {
	nonterminals    []string
	nonterminalSet  map[string]*record
	terminals       []string
	terminalSet     map[string]bool
	productions     []Production
	productionsOf   map[string][]int
	start           string
	epoch           int
	ll1             bool
	ll1Current      bool // whether ll1/the table reflect the current epoch

	// scratch/cache state, not part of the grammar's logical content
	followGuard  map[string]bool
	firstValid   bool
	firstEpoch   int
	suspendBumps bool
}

// Epoch returns the grammar's current monotone change counter.
func (g *Grammar) Epoch() int {
	return g.epoch
}

// StartSymbol returns the LHS of the first production ever inserted, or the
// empty string if the grammar has no productions.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// HasNonterminal reports whether name is bound as a nonterminal.
func (g *Grammar) HasNonterminal(name string) bool {
	_, ok := g.nonterminalSet[name]
	return ok
}

// HasTerminal reports whether name is a terminal.
func (g *Grammar) HasTerminal(name string) bool {
	return g.terminalSet[name]
}

// HasSymbol reports whether name is any known symbol (terminal, nonterminal,
// or epsilon).
func (g *Grammar) HasSymbol(name string) bool {
	return name == Epsilon || g.HasNonterminal(name) || g.HasTerminal(name)
}

// Nonterminals returns the nonterminal names in insertion order. The backing
// slice is owned by the grammar; callers must not mutate it.
func (g *Grammar) Nonterminals() []string {
	return g.nonterminals
}

// Terminals returns the terminal names in insertion order. The backing slice
// is owned by the grammar; callers must not mutate it.
func (g *Grammar) Terminals() []string {
	return g.terminals
}

// Productions returns every production in global insertion order.
func (g *Grammar) Productions() []Production {
	return g.productions
}

// ProductionsOf returns, in insertion order, the productions whose LHS is
// name. It returns nil if name is not a nonterminal.
func (g *Grammar) ProductionsOf(name string) []Production {
	idxs, ok := g.productionsOf[name]
	if !ok {
		return nil
	}
	out := make([]Production, len(idxs))
	for i, idx := range idxs {
		out[i] = g.productions[idx]
	}
	return out
}

// recordOf returns the cache record for a nonterminal, or nil if name is not
// one.
func (g *Grammar) recordOf(name string) *record {
	return g.nonterminalSet[name]
}

// addNonterminal ensures name is registered as a nonterminal, promoting it
// out of the terminal set if it had been inferred as one. Returns true if
// this call newly introduced the nonterminal.
func (g *Grammar) addNonterminal(name string) bool {
	if g.nonterminalSet == nil {
		g.nonterminalSet = map[string]*record{}
	}
	if _, ok := g.nonterminalSet[name]; ok {
		return false
	}

	if g.terminalSet[name] {
		g.removeTerminal(name)
	}

	g.nonterminalSet[name] = &record{name: name}
	g.nonterminals = append(g.nonterminals, name)
	if g.start == "" {
		g.start = name
	}
	return true
}

// addTerminal registers name as a terminal if it is not already known as a
// nonterminal or terminal. Epsilon is never inserted.
func (g *Grammar) addTerminal(name string) {
	if name == Epsilon {
		return
	}
	if g.HasNonterminal(name) {
		return
	}
	if g.terminalSet == nil {
		g.terminalSet = map[string]bool{}
	}
	if g.terminalSet[name] {
		return
	}
	g.terminalSet[name] = true
	g.terminals = append(g.terminals, name)
}

// removeTerminal drops name from the terminal set entirely. Used only when a
// symbol previously assumed terminal turns out to be a nonterminal.
func (g *Grammar) removeTerminal(name string) {
	if !g.terminalSet[name] {
		return
	}
	delete(g.terminalSet, name)
	for i, t := range g.terminals {
		if t == name {
			g.terminals = append(g.terminals[:i], g.terminals[i+1:]...)
			break
		}
	}
}

// AddProduction registers one production, promoting lhs to a nonterminal and
// every unrecognized RHS symbol to a terminal, appends it to the insertion
// order, and bumps the epoch. It does not run the update pass, and neither
// does the rule parser that calls it; callers of the rule parser (the
// Analyzer facade) run Update afterwards.
func (g *Grammar) AddProduction(lhs string, rhs []string) Production {
	g.addNonterminal(lhs)

	rhsCopy := make([]string, len(rhs))
	copy(rhsCopy, rhs)
	for _, sym := range rhsCopy {
		if sym == Epsilon {
			continue
		}
		if !g.HasNonterminal(sym) {
			g.addTerminal(sym)
		}
	}

	p := Production{LHS: lhs, RHS: rhsCopy}
	idx := len(g.productions)
	g.productions = append(g.productions, p)

	if g.productionsOf == nil {
		g.productionsOf = map[string][]int{}
	}
	g.productionsOf[lhs] = append(g.productionsOf[lhs], idx)

	g.bumpEpoch()
	return p
}

// bumpEpoch advances the change counter and marks every cached analysis
// stale. Called on every structural mutation, unless a batch of mutations
// has asked to defer bumping until it completes.
func (g *Grammar) bumpEpoch() {
	if g.suspendBumps {
		return
	}
	g.epoch++
	g.ll1Current = false
}

// BeginBatch suspends per-mutation epoch bumps until EndBatch is called,
// which performs a single bump covering the whole batch. Used by the
// batched rule parser (§4.B) so that parsing N rules advances the epoch
// once, not N times.
func (g *Grammar) BeginBatch() {
	g.suspendBumps = true
}

// EndBatch closes a batch opened with BeginBatch and performs the single
// deferred epoch bump.
func (g *Grammar) EndBatch() {
	g.suspendBumps = false
	g.epoch++
	g.ll1Current = false
}

// Clear resets the grammar to the empty state and bumps the epoch.
func (g *Grammar) Clear() {
	*g = Grammar{epoch: g.epoch + 1}
}

// IsLL1Cached reports the cached LL(1) verdict and whether it is current
// with respect to the grammar's epoch.
func (g *Grammar) IsLL1Cached() (ll1 bool, current bool) {
	return g.ll1, g.ll1Current
}

// setLL1 records the LL(1) verdict for the current epoch.
func (g *Grammar) setLL1(ll1 bool) {
	g.ll1 = ll1
	g.ll1Current = true
}
