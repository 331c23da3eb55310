package grammar

// This file implements component D, the LL(1) analyzer and table builder,
// and the update orchestrator that ties components C and D together after
// every structural change.

// IsLL1 decides whether the grammar is LL(1), using the cached verdict when
// it is current.
func (g *Grammar) IsLL1() bool {
	if ll1, current := g.IsLL1Cached(); current {
		return ll1
	}
	g.Update()
	ll1, _ := g.IsLL1Cached()
	return ll1
}

// conflict names a pair of productions of the same nonterminal that violate
// one of the three LL(1) disjointness conditions.
type conflict struct {
	nonterminal string
	first       Production
	second      Production
}

// checkLL1 runs the pairwise disjointness test of §4.D against the
// grammar's current FIRST/FOLLOW sets and returns the first conflict found,
// or nil if none exists.
func (g *Grammar) checkLL1() *conflict {
	for _, a := range g.nonterminals {
		prods := g.ProductionsOf(a)
		if len(prods) < 2 {
			continue
		}
		followA := g.Follow(a)

		for i := 0; i < len(prods); i++ {
			for j := i + 1; j < len(prods); j++ {
				firstI := g.FirstSequence(prods[i].RHS)
				firstJ := g.FirstSequence(prods[j].RHS)

				// Conditions 1 and 2: FIRST(pi) and FIRST(pj) must be
				// disjoint. Because FirstSequence includes epsilon as a
				// member when a sequence derives it, "both derive epsilon"
				// is automatically a disjointness failure here too.
				if !disjoint(firstI, firstJ) {
					return &conflict{a, prods[i], prods[j]}
				}

				// Condition 3: whichever one derives epsilon must not share
				// a lookahead with FOLLOW(A).
				if firstJ[Epsilon] && !disjoint(firstI, followA) {
					return &conflict{a, prods[i], prods[j]}
				}
				if firstI[Epsilon] && !disjoint(firstJ, followA) {
					return &conflict{a, prods[i], prods[j]}
				}
			}
		}
	}
	return nil
}

// buildRows constructs the LL(1) parsing row for every nonterminal,
// assuming the grammar has already been found LL(1). Where insertion order
// could otherwise leave two productions contending for the same cell, the
// earliest-inserted production wins.
func (g *Grammar) buildRows() {
	for _, a := range g.nonterminals {
		row := map[string]Production{}
		for _, p := range g.ProductionsOf(a) {
			first := g.FirstSequence(p.RHS)
			for t := range first {
				if t == Epsilon {
					continue
				}
				if _, taken := row[t]; !taken {
					row[t] = p
				}
			}
			if first[Epsilon] {
				for t := range g.Follow(a) {
					if _, taken := row[t]; !taken {
						row[t] = p
					}
				}
			}
		}
		g.recordOf(a).row = row
	}
}

// ProductionFor returns the production M[nonterminal, terminal] and whether
// the cell is populated. It never triggers an update pass; callers must
// ensure the grammar is current and LL(1) first.
func (g *Grammar) ProductionFor(nonterminal, terminal string) (Production, bool) {
	rec := g.recordOf(nonterminal)
	if rec == nil || rec.row == nil {
		return Production{}, false
	}
	p, ok := rec.row[terminal]
	return p, ok
}

// Update is the orchestrator: after a structural change it refreshes
// FIRST/FOLLOW for every nonterminal, re-runs the LL(1) test, and, when the
// grammar is LL(1), rebuilds every parsing row. It is idempotent when called
// again before the next structural change.
func (g *Grammar) Update() {
	g.ensureFirstComputed()
	for _, nt := range g.nonterminals {
		g.Follow(nt)
	}

	ll1 := g.checkLL1() == nil
	g.setLL1(ll1)

	if ll1 {
		g.buildRows()
	} else {
		for _, nt := range g.nonterminals {
			g.recordOf(nt).row = nil
		}
	}
}

// LastConflict re-runs the disjointness test and reports the nonterminal
// responsible for the first conflict found, for diagnostics. It returns
// ("", true) when the grammar is LL(1).
func (g *Grammar) LastConflict() (nonterminal string, ok bool) {
	c := g.checkLL1()
	if c == nil {
		return "", true
	}
	return c.nonterminal, false
}

// disjoint reports whether a and b share no elements.
func disjoint(a, b map[string]bool) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if big[k] {
			return false
		}
	}
	return true
}
