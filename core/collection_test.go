package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	rules []Rule
	err   error
}

func (f *stubFetcher) FetchRules(ctx context.Context) ([]Rule, error) {
	return f.rules, f.err
}

func strptr(s string) *string { return &s }

func TestCollectionFilteredRules(t *testing.T) {
	a := Rule{ID: "a", Name: "A", Categories: []string{"X", "Y"}}
	b := Rule{ID: "b", Name: "B", Categories: []string{"Y"}}

	c := NewCollection()
	require.NoError(t, c.Refresh(context.Background(), &stubFetcher{rules: []Rule{a, b}}))

	// No selection: full list in original order.
	assert.Equal(t, []Rule{a, b}, c.FilteredRules())

	c.SetSelectedCategory(strptr("X"))
	assert.Equal(t, []Rule{a}, c.FilteredRules())

	c.SetSelectedCategory(strptr("Y"))
	assert.Equal(t, []Rule{a, b}, c.FilteredRules())

	// Unknown category filters everything out.
	c.SetSelectedCategory(strptr("Z"))
	assert.Empty(t, c.FilteredRules())

	// Clearing the selection restores the full list.
	c.SetSelectedCategory(nil)
	assert.Equal(t, []Rule{a, b}, c.FilteredRules())
}

func TestCollectionRefresh_ReplacesWholesale(t *testing.T) {
	c := NewCollection()

	first := []Rule{{ID: "1"}, {ID: "2"}}
	require.NoError(t, c.Refresh(context.Background(), &stubFetcher{rules: first}))
	assert.Equal(t, 2, c.Len())

	second := []Rule{{ID: "3"}}
	require.NoError(t, c.Refresh(context.Background(), &stubFetcher{rules: second}))
	assert.Equal(t, second, c.Rules())
}

func TestCollectionRefresh_LastResponseWins(t *testing.T) {
	c := NewCollection()

	// Two refreshes resolve out of order: the later completion overwrites
	// the earlier one with no request-id guarding.
	require.NoError(t, c.Refresh(context.Background(), &stubFetcher{rules: []Rule{{ID: "new"}}}))
	require.NoError(t, c.Refresh(context.Background(), &stubFetcher{rules: []Rule{{ID: "stale"}}}))

	rules := c.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "stale", rules[0].ID)
}

func TestCollectionRefresh_ErrorKeepsExistingRules(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Refresh(context.Background(), &stubFetcher{rules: []Rule{{ID: "keep"}}}))

	err := c.Refresh(context.Background(), &stubFetcher{err: errors.New("network down")})
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestCollectionSelectedCategory_CopiesValue(t *testing.T) {
	c := NewCollection()

	name := "Go"
	c.SetSelectedCategory(&name)
	name = "mutated"

	sel := c.SelectedCategory()
	require.NotNil(t, sel)
	assert.Equal(t, "Go", *sel)
}
