package core

import (
	"context"
	"sync"
)

// RuleFetcher is the boundary through which a Collection repopulates itself.
// Implemented by catalog.Client over the HTTP API and by storage-backed
// adapters in tests.
type RuleFetcher interface {
	FetchRules(ctx context.Context) ([]Rule, error)
}

// Collection holds the most recently fetched rule list together with a
// single selected category filter, and derives the filtered view from the
// two.
//
// Refresh replaces the rule list wholesale. Overlapping refreshes are not
// coordinated: whichever response lands last wins. That matches the observed
// behavior of the catalog UI and is acceptable at this scale, but callers
// that need ordering must serialize their own Refresh calls.
type Collection struct {
	mu               sync.RWMutex
	allRules         []Rule
	selectedCategory *string
}

// NewCollection returns an empty collection with no category selected.
func NewCollection() *Collection {
	return &Collection{}
}

// SetSelectedCategory replaces the current filter selection. A nil name
// clears the filter. Pure state transition, no I/O.
func (c *Collection) SetSelectedCategory(name *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == nil {
		c.selectedCategory = nil
		return
	}
	n := *name
	c.selectedCategory = &n
}

// SelectedCategory returns the current filter selection, or nil when no
// category is selected.
func (c *Collection) SelectedCategory() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedCategory == nil {
		return nil
	}
	n := *c.selectedCategory
	return &n
}

// Rules returns the full unfiltered rule list in fetch order.
func (c *Collection) Rules() []Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Rule, len(c.allRules))
	copy(out, c.allRules)
	return out
}

// FilteredRules returns the rules matching the selected category, or the
// full list in original order when no category is selected. Category
// matching is an exact string comparison.
func (c *Collection) FilteredRules() []Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selectedCategory == nil {
		out := make([]Rule, len(c.allRules))
		copy(out, c.allRules)
		return out
	}

	out := make([]Rule, 0, len(c.allRules))
	for _, r := range c.allRules {
		if r.HasCategory(*c.selectedCategory) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of rules currently held, ignoring the filter.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.allRules)
}

// Refresh repopulates the collection through the fetcher. The fetched list
// replaces the previous one entirely; there is no incremental merge. On
// error the existing list is left untouched.
func (c *Collection) Refresh(ctx context.Context, fetcher RuleFetcher) error {
	rules, err := fetcher.FetchRules(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.allRules = rules
	c.mu.Unlock()
	return nil
}
