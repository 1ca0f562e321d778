package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ruleboard/catalog"
	"ruleboard/core"

	"github.com/stretchr/testify/assert"
)

// TestNewBrowseCmd tests the creation of the browse command
func TestNewBrowseCmd(t *testing.T) {
	cmd := NewBrowseCmd()
	assert.NotNil(t, cmd)
	assert.Equal(t, "browse", cmd.Use)
	assert.True(t, len(cmd.Commands()) > 0, "Should have subcommands")
}

// TestBrowseCommandStructure tests the command hierarchy
func TestBrowseCommandStructure(t *testing.T) {
	cmd := NewBrowseCmd()

	expectedCommands := []string{"rules", "show", "categories", "submit"}

	actualCommands := make(map[string]bool)
	for _, subCmd := range cmd.Commands() {
		actualCommands[subCmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		assert.True(t, actualCommands[expected], "Missing command: %s", expected)
	}
}

// TestBrowseCommandFlags tests persistent flags
func TestBrowseCommandFlags(t *testing.T) {
	cmd := NewBrowseCmd()

	assert.NotNil(t, cmd.PersistentFlags().Lookup("json"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("server"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("quiet"))
}

// TestSubmitCommandFlags tests the submit subcommand flags
func TestSubmitCommandFlags(t *testing.T) {
	cmd := newSubmitCmd()

	for _, flag := range []string{"name", "content", "file", "author", "contact", "avatar", "category"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "Missing flag: %s", flag)
	}
}

// TestShowCommandRequiresArg tests that show rejects a missing identifier
func TestShowCommandRequiresArg(t *testing.T) {
	cmd := newShowCmd()
	err := cmd.Args(cmd, []string{})
	assert.Error(t, err)

	err = cmd.Args(cmd, []string{"abc123"})
	assert.NoError(t, err)
}

// TestNewCategories tests detection of categories the server does not know
func TestNewCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"Go"})
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)
	missing := newCategories(context.Background(), client, []string{"Go", "Rust"})
	assert.Equal(t, []string{"Rust"}, missing)

	missing = newCategories(context.Background(), client, []string{"Go"})
	assert.Empty(t, missing)
}

// TestNewCategoriesLookupFailure tests that a failed lookup reports nothing
func TestNewCategoriesLookupFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close()

	client := catalog.NewClient(server.URL)
	assert.Nil(t, newCategories(context.Background(), client, []string{"Go"}))
}

// TestFormatTimeSince tests relative timestamp formatting
func TestFormatTimeSince(t *testing.T) {
	assert.Equal(t, "Unknown", formatTimeSince(time.Time{}))
	assert.Equal(t, "1 day ago", formatTimeSince(time.Now().Add(-25*time.Hour)))
	assert.Contains(t, formatTimeSince(time.Now().Add(-5*time.Minute)), "m ago")
	assert.Contains(t, formatTimeSince(time.Now().Add(-3*time.Hour)), "h ago")
}

// TestRenderRulesTableEmpty ensures empty lists do not panic
func TestRenderRulesTableEmpty(t *testing.T) {
	assert.NotPanics(t, func() {
		renderRulesTable(nil, nil)
		selected := "Go"
		renderRulesTable(nil, &selected)
	})
}

// TestRenderRuleDetails ensures a fully populated rule renders
func TestRenderRuleDetails(t *testing.T) {
	rule := &core.Rule{
		ID:      "11111111-2222-3333-4444-555555555555",
		Name:    "Sample",
		Content: "line one\nline two\n",
		Author: core.Author{
			Name:       "Alex",
			ContactURL: "https://example.com/alex",
		},
		Categories: []string{"Go", "CLI"},
		CreatedAt:  time.Now(),
		IsActive:   true,
	}

	assert.NotPanics(t, func() {
		renderRuleDetails(rule)
	})
}
