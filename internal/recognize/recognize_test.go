package recognize

import (
	"testing"

	"github.com/kvarga/llgrammar/internal/grammar"
	"github.com/kvarga/llgrammar/internal/llerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run_BalancedParens(t *testing.T) {
	var g grammar.Grammar
	g.ParseRules([]string{
		"goal -> A",
		"A -> ( A )",
		"A -> two",
		"two -> a",
		"two -> b",
	})
	g.Update()
	require.True(t, g.IsLL1())

	testCases := []struct {
		input  string
		accept bool
	}{
		{"( ( a ) )", true},
		{"( a ) )", false},
		{"( ( ( ( ( b ) ) ) ) )", true},
		{"( ( ( ( ( a b ) ) ) ) )", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			accept, err := Run(&g, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.accept, accept)
		})
	}
}

func Test_Run_MixedFollowViaEpsilon(t *testing.T) {
	var g grammar.Grammar
	g.ParseRules([]string{
		"E -> T X",
		"X -> + E",
		"X -> ''",
		"T -> int Y",
		"T -> ( E )",
		"Y -> * T",
		"Y -> ''",
	})
	g.Update()
	require.True(t, g.IsLL1())

	accept, err := Run(&g, "int * ( int + int )")
	require.NoError(t, err)
	assert.True(t, accept)
}

func Test_Run_ArithmeticGrammar(t *testing.T) {
	var g grammar.Grammar
	g.ParseRules([]string{
		"E -> T EPrime",
		"EPrime -> + T EPrime",
		"EPrime -> ''",
		"T -> F TPrime",
		"TPrime -> * F TPrime",
		"TPrime -> ''",
		"F -> ( E )",
		"F -> id",
	})
	g.Update()
	require.True(t, g.IsLL1())

	accept, err := Run(&g, "id + id * id")
	require.NoError(t, err)
	assert.True(t, accept)

	accept, err = Run(&g, "id + + id")
	require.NoError(t, err)
	assert.False(t, accept)
}

func Test_Run_NotLL1IsIllFormed(t *testing.T) {
	var g grammar.Grammar
	g.ParseRules([]string{
		"E -> E + T",
		"E -> T",
		"T -> id",
	})
	g.Update()

	_, err := Run(&g, "id")
	require.Error(t, err)
	assert.True(t, llerrors.IsIllFormed(err))
}

func Test_Run_NoProductionsIsIllFormed(t *testing.T) {
	var g grammar.Grammar
	_, err := Run(&g, "id")
	require.Error(t, err)
	assert.True(t, llerrors.IsIllFormed(err))
}
