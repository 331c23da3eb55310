package llgrammar

import (
	"testing"

	"github.com/kvarga/llgrammar/internal/llerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithmeticRules() []string {
	return []string{
		"E -> T EPrime",
		"EPrime -> + T EPrime",
		"EPrime -> ''",
		"T -> F TPrime",
		"TPrime -> * F TPrime",
		"TPrime -> ''",
		"F -> ( E )",
		"F -> id",
	}
}

func Test_Analyzer_ParseThenQuery(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll(arithmeticRules()))
	require.True(t, a.IsLL1())

	first, err := a.First("F")
	require.NoError(t, err)
	assert.True(t, first["("])
	assert.True(t, first["id"])
	assert.False(t, first[Epsilon])

	follow, err := a.Follow("EPrime")
	require.NoError(t, err)
	assert.True(t, follow[")"])
	assert.True(t, follow[EndMarker])

	prod, err := a.ProductionFor("E", "id")
	require.NoError(t, err)
	assert.Equal(t, "E -> T EPrime", prod)

	prod, err = a.ProductionFor("EPrime", "id")
	require.NoError(t, err)
	assert.Equal(t, "", prod)
}

func Test_Analyzer_ParseRejectsBadLine(t *testing.T) {
	a := New()
	assert.False(t, a.Parse("not a rule"))
	assert.Empty(t, a.Variables())
}

func Test_Analyzer_ParseAllKeepsValidLinesDespiteOneBadLine(t *testing.T) {
	a := New()
	ok := a.ParseAll([]string{
		"S -> a S",
		"garbage line",
		"S -> ''",
	})
	assert.False(t, ok)
	assert.Contains(t, a.Variables(), "S")
	assert.True(t, a.IsLL1())
}

func Test_Analyzer_UnknownSymbolErrors(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll(arithmeticRules()))

	_, err := a.First("nope")
	require.Error(t, err)
	assert.True(t, llerrors.IsUnknownSymbol(err))

	_, err = a.Follow("id")
	require.Error(t, err)
	assert.True(t, llerrors.IsUnknownSymbol(err))

	_, err = a.ProductionFor("id", "id")
	require.Error(t, err)
	assert.True(t, llerrors.IsUnknownSymbol(err))
}

func Test_Analyzer_ProductionForOnNonLL1IsIllFormed(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll([]string{
		"E -> E + T",
		"E -> T",
		"T -> id",
	}))
	require.False(t, a.IsLL1())

	_, err := a.ProductionFor("E", "id")
	require.Error(t, err)
	assert.True(t, llerrors.IsIllFormed(err))
}

func Test_Analyzer_ProductionForOnEmptyAnalyzerIsUnknownSymbol(t *testing.T) {
	a := New()

	_, err := a.ProductionFor("S", "a")
	require.Error(t, err)
	assert.True(t, llerrors.IsUnknownSymbol(err))
}

func Test_Analyzer_RecognizeArithmetic(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll(arithmeticRules()))
	require.True(t, a.IsLL1())

	accept, err := a.Recognize("id + id * id")
	require.NoError(t, err)
	assert.True(t, accept)

	accept, err = a.Recognize("id + + id")
	require.NoError(t, err)
	assert.False(t, accept)
}

func Test_Analyzer_RecognizeBalancedParens(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll([]string{
		"goal -> A",
		"A -> ( A )",
		"A -> two",
		"two -> a",
		"two -> b",
	}))
	require.True(t, a.IsLL1())

	accept, err := a.Recognize("( ( a ) )")
	require.NoError(t, err)
	assert.True(t, accept)

	accept, err = a.Recognize("( a ) )")
	require.NoError(t, err)
	assert.False(t, accept)
}

func Test_Analyzer_RecognizeOnNotLL1IsIllFormed(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll([]string{
		"E -> E + T",
		"E -> T",
		"T -> id",
	}))

	_, err := a.Recognize("id")
	require.Error(t, err)
	assert.True(t, llerrors.IsIllFormed(err))
}

func Test_Analyzer_IndirectConflictNamesOffendingNonterminal(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll([]string{
		"A -> a A",
		"A -> b A",
		"A -> a B",
		"B -> b C",
		"C -> b D",
		"D -> ''",
	}))
	assert.False(t, a.IsLL1())
}

func Test_Analyzer_MutuallyRecursiveFollowTerminates(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll([]string{
		"S -> A",
		"A -> B",
		"B -> A",
		"B -> x",
	}))

	follow, err := a.Follow("A")
	require.NoError(t, err)
	assert.True(t, follow[EndMarker])
}

func Test_Analyzer_ClearResetsState(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll(arithmeticRules()))
	epochBefore := a.Epoch()
	a.Clear()

	assert.Empty(t, a.Variables())
	assert.Empty(t, a.Terminals())
	assert.Equal(t, "", a.StartSymbol())
	assert.Greater(t, a.Epoch(), epochBefore)
}

func Test_Analyzer_StartSymbolIsFirstLHSEverParsed(t *testing.T) {
	a := New()
	a.Parse("Goal -> E")
	a.Parse("E -> id")
	assert.Equal(t, "Goal", a.StartSymbol())
}

func Test_Analyzer_FingerprintStableAcrossRebuilds(t *testing.T) {
	a := New()
	require.True(t, a.ParseAll(arithmeticRules()))
	f1, err := a.Fingerprint()
	require.NoError(t, err)

	b := New()
	require.True(t, b.ParseAll(arithmeticRules()))
	f2, err := b.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, f1, f2)

	require.True(t, b.Parse("F -> x"))
	f3, err := b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, f1, f3)
}

func Test_Analyzer_DiagnosticsSinkReceivesMessages(t *testing.T) {
	a := New()
	var infos, errs []string
	a.SetDiagnostics(recordingSink{infos: &infos, errs: &errs})

	a.Parse("S -> a")
	a.Parse("not a rule")

	assert.Len(t, infos, 1)
	assert.Len(t, errs, 1)
}

type recordingSink struct {
	infos *[]string
	errs  *[]string
}

func (s recordingSink) Infof(format string, args ...interface{}) {
	*s.infos = append(*s.infos, format)
}

func (s recordingSink) Errorf(format string, args ...interface{}) {
	*s.errs = append(*s.errs, format)
}
