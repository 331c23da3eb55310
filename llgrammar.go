// Package llgrammar builds an LL(1) predictive parser from a context-free
// grammar supplied one production rule at a time, and recognizes
// whitespace-tokenized input strings against it.
//
// The Analyzer type is the single facade described by the design: it owns
// the symbol/production store, the FIRST/FOLLOW engine, the LL(1) table
// builder, and the stack recognizer, and is the only type library
// consumers need to import.
package llgrammar

import (
	"github.com/kvarga/llgrammar/internal/diag"
	"github.com/kvarga/llgrammar/internal/grammar"
	"github.com/kvarga/llgrammar/internal/llerrors"
	"github.com/kvarga/llgrammar/internal/recognize"
)

// Epsilon and EndMarker are the two reserved wire tokens: Epsilon ("''" in
// rule text) denotes the empty string, EndMarker ("$") denotes end of input.
const (
	Epsilon   = grammar.Epsilon
	EndMarker = grammar.EndMarker
)

// Analyzer is the facade over the grammar-analysis engine: symbol and
// production store, FIRST/FOLLOW engine, LL(1) table builder, and stack
// recognizer. The zero value is an empty analyzer ready to use.
type Analyzer struct {
	g    grammar.Grammar
	diag diag.Sink
}

// New returns an empty Analyzer that discards diagnostics.
func New() *Analyzer {
	return &Analyzer{diag: diag.Nop}
}

// SetDiagnostics attaches a sink that receives informational and error
// messages as the grammar changes. Passing nil restores the no-op sink. The
// analyzer never writes to a process-global writer on its own; this is the
// only way it produces output.
func (a *Analyzer) SetDiagnostics(sink diag.Sink) {
	if sink == nil {
		sink = diag.Nop
	}
	a.diag = sink
}

func (a *Analyzer) sink() diag.Sink {
	if a.diag == nil {
		return diag.Nop
	}
	return a.diag
}

// Parse adds one production from a textual rule and reports whether the
// line was syntactically valid. On success the grammar's cached
// FIRST/FOLLOW/table attributes are refreshed immediately.
func (a *Analyzer) Parse(rule string) bool {
	ok := a.g.ParseRule(rule)
	if !ok {
		a.sink().Errorf("syntax-rejected rule: %q", rule)
		return false
	}
	a.g.Update()
	a.sink().Infof("added production: %s", rule)
	return true
}

// ParseAll adds many productions as a single batch, refreshing cached
// attributes once at the end rather than once per rule, and returns the
// conjunction of each line's syntactic validity. A rejected line does not
// prevent the other lines in the batch from being added.
func (a *Analyzer) ParseAll(rules []string) bool {
	ok := a.g.ParseRules(rules)
	a.g.Update()
	if !ok {
		a.sink().Errorf("one or more rules in the batch were syntax-rejected")
	}
	return ok
}

// Clear removes all grammar state.
func (a *Analyzer) Clear() {
	a.g.Clear()
}

// Variables returns the nonterminal names in insertion order.
func (a *Analyzer) Variables() []string {
	return a.g.Nonterminals()
}

// Terminals returns the terminal names in insertion order.
func (a *Analyzer) Terminals() []string {
	return a.g.Terminals()
}

// StartSymbol returns the LHS of the first production ever parsed, or the
// empty string if the grammar has no productions.
func (a *Analyzer) StartSymbol() string {
	return a.g.StartSymbol()
}

// First returns FIRST(name): a terminal, a nonterminal, or epsilon. It
// returns an UnknownSymbol error (see internal/llerrors) if name is none of
// those.
func (a *Analyzer) First(name string) (map[string]bool, error) {
	if !a.g.HasSymbol(name) {
		return nil, llerrors.UnknownSymbol(name)
	}
	return a.g.First(name), nil
}

// Follow returns FOLLOW(name). FOLLOW is only defined for nonterminals; it
// returns an UnknownSymbol error for terminals, epsilon, and unrecognized
// names alike.
func (a *Analyzer) Follow(name string) (map[string]bool, error) {
	if !a.g.HasNonterminal(name) {
		return nil, llerrors.UnknownSymbol(name)
	}
	return a.g.Follow(name), nil
}

// IsLL1 decides whether the grammar is LL(1).
func (a *Analyzer) IsLL1() bool {
	return a.g.IsLL1()
}

// ProductionFor returns the textual form of M[nonterminal, terminal], or the
// empty string if that cell has no entry. It returns an UnknownSymbol error
// if nonterminal is not a nonterminal (always the case for a grammar with no
// productions), and an IllFormed error (distinct from an empty cell) if the
// grammar is not LL(1).
func (a *Analyzer) ProductionFor(nonterminal, terminal string) (string, error) {
	if !a.g.HasNonterminal(nonterminal) {
		return "", llerrors.UnknownSymbol(nonterminal)
	}
	if len(a.g.Productions()) == 0 {
		return "", llerrors.IllFormed("production_for: grammar has no productions")
	}
	if !a.g.IsLL1() {
		return "", llerrors.IllFormed("production_for: grammar is not LL(1)")
	}

	p, ok := a.g.ProductionFor(nonterminal, terminal)
	if !ok {
		return "", nil
	}
	return p.String(), nil
}

// Recognize drives the stack recognizer over a whitespace-separated input
// string and reports acceptance. It returns an IllFormed error, rather than
// false, if the grammar has no productions or is not LL(1).
func (a *Analyzer) Recognize(input string) (bool, error) {
	return recognize.Run(&a.g, input)
}

// Fingerprint returns a stable content digest of the grammar's ordered
// production list, independent of the epoch counter. Used by
// internal/store to detect whether a persisted session's rules actually
// changed since it was last snapshotted.
func (a *Analyzer) Fingerprint() (string, error) {
	return a.g.Fingerprint()
}

// Epoch returns the analyzer's current monotone change counter.
func (a *Analyzer) Epoch() int {
	return a.g.Epoch()
}
