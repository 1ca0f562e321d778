package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ruleboard/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchRules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/rules", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]core.Rule{
			{ID: "1", Name: "R1", Categories: []string{"Go"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rules, err := client.FetchRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "R1", rules[0].Name)
}

func TestClientFetchRules_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch rules"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchRules(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch rules")
}

func TestClientFetchCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/categories", r.URL.Path)
		json.NewEncoder(w).Encode(CategorySummary{
			Categories: []core.CategoryCount{{Name: "Go", Count: 2}},
			TotalRules: 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	summary, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalRules)
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, core.CategoryCount{Name: "Go", Count: 2}, summary.Categories[0])
}

func TestClientFetchCategoryNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/categories/names", r.URL.Path)
		json.NewEncoder(w).Encode([]string{"CLI", "Go"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	names, err := client.FetchCategoryNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CLI", "Go"}, names)
}

func TestClientImplementsRuleFetcher(t *testing.T) {
	var _ core.RuleFetcher = NewClient("http://localhost:8081")
}
