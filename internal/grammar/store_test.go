package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_TerminalsAndNonterminalsDisjoint(t *testing.T) {
	assert := assert.New(t)
	var g Grammar
	g.ParseRules([]string{
		"E -> T EPrime",
		"EPrime -> + T EPrime",
		"EPrime -> ''",
		"T -> id",
	})

	for _, nt := range g.Nonterminals() {
		assert.False(g.HasTerminal(nt), "nonterminal %q also registered as terminal", nt)
	}
	for _, term := range g.Terminals() {
		assert.False(g.HasNonterminal(term), "terminal %q also registered as nonterminal", term)
	}
}

func Test_Grammar_EpsilonNeverATerminal(t *testing.T) {
	assert := assert.New(t)
	var g Grammar
	g.ParseRule("E -> ''")
	assert.False(g.HasTerminal(Epsilon))
	assert.Empty(g.Terminals())
}

func Test_Grammar_VariablesOrderMatchesInsertionOrder(t *testing.T) {
	assert := assert.New(t)
	var g Grammar
	g.ParseRule("E -> T EPrime")
	g.ParseRule("EPrime -> ''")
	g.ParseRule("T -> F TPrime")
	g.ParseRule("TPrime -> ''")

	assert.Equal([]string{"E", "EPrime", "T", "TPrime"}, g.Nonterminals())
}

func Test_Grammar_Clear(t *testing.T) {
	assert := assert.New(t)
	var g Grammar
	g.ParseRule("E -> T")
	before := g.Epoch()

	g.Clear()

	assert.Empty(g.Nonterminals())
	assert.Empty(g.Terminals())
	assert.Empty(g.Productions())
	assert.Equal("", g.StartSymbol())
	assert.Greater(g.Epoch(), before)
}

func Test_Grammar_ProductionsOfUnknownNonterminalIsNil(t *testing.T) {
	var g Grammar
	assert.Nil(t, g.ProductionsOf("Nope"))
}

func Test_Grammar_Fingerprint_StableAcrossEquivalentBuilds(t *testing.T) {
	assert := assert.New(t)
	var a, b Grammar
	a.ParseRules([]string{"E -> T", "T -> id"})
	b.ParseRule("E -> T")
	b.ParseRule("T -> id")

	fa, err := a.Fingerprint()
	assert.NoError(err)
	fb, err := b.Fingerprint()
	assert.NoError(err)
	assert.Equal(fa, fb)
}

func Test_Grammar_Fingerprint_ChangesWithContent(t *testing.T) {
	assert := assert.New(t)
	var a, b Grammar
	a.ParseRule("E -> T")
	b.ParseRule("E -> U")

	fa, _ := a.Fingerprint()
	fb, _ := b.Fingerprint()
	assert.NotEqual(fa, fb)
}
