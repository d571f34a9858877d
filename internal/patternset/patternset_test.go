package patternset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensemill/logweave/internal/template"
)

// entriesFor compiles templates the way the registry does and hands the
// results to a pattern set.
func entriesFor(t *testing.T, templates map[int]string) []Entry {
	t.Helper()
	c, err := template.NewCompiler("")
	require.NoError(t, err)

	ids := make([]int, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		compiled, err := c.Compile(templates[id])
		require.NoError(t, err)
		entries = append(entries, Entry{
			ID:       id,
			Expr:     compiled.Pattern.String(),
			Literals: compiled.Literals,
		})
	}
	return entries
}

func scan(ps PatternSet, text string) []int {
	var ids []int
	ps.Scan(text, func(id int) { ids = append(ids, id) })
	sort.Ints(ids)
	return ids
}

func kinds(t *testing.T) map[string]PatternSet {
	t.Helper()
	lit, err := New(KindLiteral)
	require.NoError(t, err)
	reg, err := New(KindRegex)
	require.NoError(t, err)
	return map[string]PatternSet{KindLiteral: lit, KindRegex: reg}
}

func TestScanReportsAllCandidates(t *testing.T) {
	entries := entriesFor(t, map[int]string{
		1: "Starting job {job}",
		2: "Starting {what} {which}",
		3: "Stopping job {job}",
	})
	for kind, ps := range kinds(t) {
		t.Run(kind, func(t *testing.T) {
			require.NoError(t, ps.Compile(entries))
			got := scan(ps, "Starting job 7")
			// Both 1 and 2 must be reported; scanning never stops at
			// the first hit.
			assert.Contains(t, got, 1)
			assert.Contains(t, got, 2)
			assert.NotContains(t, got, 3)
		})
	}
}

func TestScanNoMatch(t *testing.T) {
	entries := entriesFor(t, map[int]string{
		1: "Starting job {job}",
		2: "Stopping job {job}",
	})
	for kind, ps := range kinds(t) {
		t.Run(kind, func(t *testing.T) {
			require.NoError(t, ps.Compile(entries))
			assert.Empty(t, scan(ps, "totally unrelated line"))
		})
	}
}

func TestCompileEmptyFails(t *testing.T) {
	for kind, ps := range kinds(t) {
		t.Run(kind, func(t *testing.T) {
			err := ps.Compile(nil)
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestCompileMalformedPatternFails(t *testing.T) {
	bad := []Entry{{ID: 1, Expr: `\A(?s:unclosed(\z`, Literals: []string{"unclosed"}}}
	for kind, ps := range kinds(t) {
		t.Run(kind, func(t *testing.T) {
			assert.Error(t, ps.Compile(bad))
		})
	}
}

func TestLiteralSetPlaceholderOnlyAlwaysCandidate(t *testing.T) {
	// A template with no literal text gives the prefilter nothing to
	// reject on; its id must come back for every input.
	entries := entriesFor(t, map[int]string{
		1: "{anything}",
		2: "Starting job {job}",
	})
	ps := &LiteralSet{}
	require.NoError(t, ps.Compile(entries))

	assert.Equal(t, []int{1}, scan(ps, "no template matches this"))
	assert.Equal(t, []int{1, 2}, scan(ps, "Starting job 7"))
}

func TestLiteralSetIsAdvisory(t *testing.T) {
	// Fragments present but in the wrong order: the prefilter may
	// report the id, and downstream re-validation is what rejects it.
	// This pins the contract that prefilter output is a superset.
	entries := entriesFor(t, map[int]string{1: "alpha {x} omega"})
	ps := &LiteralSet{}
	require.NoError(t, ps.Compile(entries))

	assert.Equal(t, []int{1}, scan(ps, "omega then alpha"))
}

func TestLiteralSetRepeatedFragment(t *testing.T) {
	// The same literal run appearing twice in one template must not
	// double-count: one occurrence in the input satisfies it.
	entries := entriesFor(t, map[int]string{1: "sep {a} sep {b} end"})
	ps := &LiteralSet{}
	require.NoError(t, ps.Compile(entries))

	assert.Equal(t, []int{1}, scan(ps, "sep one sep two end"))
	assert.Equal(t, []int{1}, scan(ps, "sep end"))
}

func TestLiteralSetMissingFragmentRejects(t *testing.T) {
	entries := entriesFor(t, map[int]string{1: "alpha {x} omega"})
	ps := &LiteralSet{}
	require.NoError(t, ps.Compile(entries))

	assert.Empty(t, scan(ps, "alpha only"))
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New("hyperscan")
	assert.Error(t, err)
}

func TestNewDefaultKind(t *testing.T) {
	ps, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &LiteralSet{}, ps)
}
