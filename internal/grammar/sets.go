package grammar

import "sort"

// This file implements component C, the FIRST/FOLLOW engine.
//
// FIRST is computed for every nonterminal at once as a worklist fixed
// point: the set of interest only ever grows, so repeatedly sweeping every
// production until nothing changes is guaranteed to terminate even across
// indirect (mutual) recursion, at the cost of not matching the teacher's
// single-symbol memoized recursion one-for-one. FOLLOW keeps the reference's
// memoized-recursion shape, since the termination hazard there is solved by
// an explicit per-invocation guard rather than by monotone growth (see
// DESIGN.md).

// First returns FIRST(x) for a single symbol: a terminal, epsilon, or a
// nonterminal. It returns nil if x is not a known symbol.
func (g *Grammar) First(x string) map[string]bool {
	switch {
	case x == Epsilon:
		return map[string]bool{Epsilon: true}
	case g.HasTerminal(x):
		return map[string]bool{x: true}
	case g.HasNonterminal(x):
		g.ensureFirstComputed()
		return copySet(g.recordOf(x).first)
	default:
		return nil
	}
}

// FirstSequence computes FIRST(Y1 Y2 ... Yn) for a right-hand side: the
// union of FIRST(Yi) minus epsilon up to and including the first Yi whose
// FIRST does not contain epsilon, plus epsilon itself if every Yi admits it.
func (g *Grammar) FirstSequence(seq []string) map[string]bool {
	result := map[string]bool{}
	allEpsilon := true
	for _, sym := range seq {
		fs := g.First(sym)
		for t := range fs {
			if t != Epsilon {
				result[t] = true
			}
		}
		if !fs[Epsilon] {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		result[Epsilon] = true
	}
	return result
}

// ensureFirstComputed (re)runs the fixed point for every nonterminal if the
// cached result predates the current epoch.
func (g *Grammar) ensureFirstComputed() {
	if g.firstValid && g.firstEpoch == g.epoch {
		return
	}

	partial := map[string]map[string]bool{}
	for _, nt := range g.nonterminals {
		partial[nt] = map[string]bool{}
	}

	for changed := true; changed; {
		changed = false
		for _, nt := range g.nonterminals {
			acc := partial[nt]
			for _, p := range g.ProductionsOf(nt) {
				// Direct left recursion on the leftmost symbol contributes
				// nothing beyond its suffix and would never converge if
				// followed; skip it (see §4.C termination rule).
				if len(p.RHS) > 0 && p.RHS[0] == nt {
					continue
				}
				for t := range g.partialFirstOfSequence(partial, p.RHS) {
					if !acc[t] {
						acc[t] = true
						changed = true
					}
				}
			}
		}
	}

	for nt, set := range partial {
		rec := g.recordOf(nt)
		rec.first = set
		rec.firstVer = g.epoch
	}
	g.firstValid = true
	g.firstEpoch = g.epoch
}

// partialFirstOfSequence is FirstSequence evaluated against an in-progress
// worklist table instead of the (possibly stale) cached records.
func (g *Grammar) partialFirstOfSequence(partial map[string]map[string]bool, seq []string) map[string]bool {
	result := map[string]bool{}
	allEpsilon := true
	for _, sym := range seq {
		var fs map[string]bool
		switch {
		case sym == Epsilon:
			fs = map[string]bool{Epsilon: true}
		case g.HasTerminal(sym):
			fs = map[string]bool{sym: true}
		default:
			fs = partial[sym]
		}
		for t := range fs {
			if t != Epsilon {
				result[t] = true
			}
		}
		if !fs[Epsilon] {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		result[Epsilon] = true
	}
	return result
}

// Follow returns FOLLOW(name) for a nonterminal. It returns nil if name is
// not a nonterminal.
func (g *Grammar) Follow(name string) map[string]bool {
	rec := g.recordOf(name)
	if rec == nil {
		return nil
	}
	if rec.followVer == g.epoch && rec.follow != nil {
		return copySet(rec.follow)
	}

	g.followGuard = map[string]bool{}
	raw := g.followRec(name)
	delete(raw, Epsilon)

	rec.follow = raw
	rec.followVer = g.epoch
	return copySet(raw)
}

// followRec implements the recursive FOLLOW definition of §4.C, guarded
// against re-entering a nonterminal already under computation in this
// invocation.
func (g *Grammar) followRec(x string) map[string]bool {
	if g.followGuard[x] {
		return map[string]bool{}
	}
	g.followGuard[x] = true
	defer delete(g.followGuard, x)

	result := map[string]bool{}
	if x == g.start {
		result[EndMarker] = true
	}

	for _, a := range g.nonterminals {
		for _, prod := range g.ProductionsOf(a) {
			rhs := prod.RHS
			for i, sym := range rhs {
				if sym != x {
					continue
				}
				beta := rhs[i+1:]
				if len(beta) > 0 {
					betaFirst := g.FirstSequence(beta)
					for t := range betaFirst {
						if t != Epsilon {
							result[t] = true
						}
					}
					if betaFirst[Epsilon] && a != x {
						for t := range g.followRec(a) {
							result[t] = true
						}
					}
				} else if a != x {
					for t := range g.followRec(a) {
						result[t] = true
					}
				}
			}
		}
	}

	return result
}

// copySet returns a shallow duplicate of a string set, so callers cannot
// mutate the grammar's cached copy.
func copySet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SortedElements returns the members of s in ascending lexical order, for
// deterministic diffing and display.
func SortedElements(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
