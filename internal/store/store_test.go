package store

import (
	"context"
	"testing"

	"github.com/kvarga/llgrammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithmeticAnalyzer(t *testing.T) *llgrammar.Analyzer {
	t.Helper()
	a := llgrammar.New()
	require.True(t, a.ParseAll([]string{
		"E -> T EPrime",
		"EPrime -> + T EPrime",
		"EPrime -> ''",
		"T -> F TPrime",
		"TPrime -> * F TPrime",
		"TPrime -> ''",
		"F -> ( E )",
		"F -> id",
	}))
	return a
}

func Test_Store_SaveThenLoadRoundTrips(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	a := arithmeticAnalyzer(t)
	rules := []string{"E -> T EPrime"}

	saved, err := st.Save(context.Background(), "arith", rules, a)
	require.NoError(t, err)
	assert.Equal(t, "arith", saved.Name)
	assert.True(t, saved.Snapshot.LL1)

	loaded, err := st.Load(context.Background(), "arith")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, saved.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, rules, loaded.Rules)
	assert.ElementsMatch(t, a.Variables(), loaded.Snapshot.Variables)
	assert.ElementsMatch(t, a.Terminals(), loaded.Snapshot.Terminals)
}

func Test_Store_SaveTwiceOverwritesSameName(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	a := arithmeticAnalyzer(t)
	first, err := st.Save(context.Background(), "arith", nil, a)
	require.NoError(t, err)

	a.Parse("G -> x")
	second, err := st.Save(context.Background(), "arith", nil, a)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
}

func Test_Store_LoadUnknownNameIsNotFound(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_Store_LockReturnsSameMutexForSameID(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	a := arithmeticAnalyzer(t)
	saved, err := st.Save(context.Background(), "arith", nil, a)
	require.NoError(t, err)

	l1 := st.Lock(saved.ID)
	l2 := st.Lock(saved.ID)
	assert.Same(t, l1, l2)
}

func Test_BuildSnapshot_NonLL1HasNilTable(t *testing.T) {
	a := llgrammar.New()
	a.ParseAll([]string{
		"E -> E + T",
		"E -> T",
		"T -> id",
	})

	snap, err := BuildSnapshot(a)
	require.NoError(t, err)
	assert.False(t, snap.LL1)
	assert.Nil(t, snap.Table)
}
