package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ruleboard/core"
)

// Client talks to a running ruleboard server. It implements core.RuleFetcher
// so a core.Collection can refresh through it.
//
// No timeout is set on the underlying HTTP client; pass a context with a
// deadline to bound individual calls.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the server at baseURL
// (e.g. "http://localhost:8081").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// FetchRules retrieves the active rule list, newest first.
func (c *Client) FetchRules(ctx context.Context) ([]core.Rule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/rules", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch rules: %s", c.errorMessage(resp))
	}

	var rules []core.Rule
	if err := json.NewDecoder(resp.Body).Decode(&rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	return rules, nil
}

// FetchRule retrieves a single rule by its identifier. The server reports an
// unknown identifier as an error payload, which surfaces here as a non-nil
// error carrying the server's message.
func (c *Client) FetchRule(ctx context.Context, id string) (*core.Rule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/rules/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch rule: %s", c.errorMessage(resp))
	}

	var rule core.Rule
	if err := json.NewDecoder(resp.Body).Decode(&rule); err != nil {
		return nil, fmt.Errorf("failed to decode rule: %w", err)
	}
	return &rule, nil
}

// CategorySummary is the sidebar aggregate returned by the server.
type CategorySummary struct {
	Categories []core.CategoryCount `json:"categories"`
	TotalRules int64                `json:"totalRules"`
}

// FetchCategories retrieves per-category active rule counts plus the total
// active rule count.
func (c *Client) FetchCategories(ctx context.Context) (*CategorySummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch categories: %s", c.errorMessage(resp))
	}

	var summary CategorySummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return &summary, nil
}

// FetchCategoryNames retrieves the alphabetical list of existing category
// names, independent of rule counts.
func (c *Client) FetchCategoryNames(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/categories/names", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category names: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch category names: %s", c.errorMessage(resp))
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, fmt.Errorf("failed to decode category names: %w", err)
	}
	return names, nil
}

// SubmitRule posts a submission and returns the created flattened rule.
func (c *Client) SubmitRule(ctx context.Context, sub core.RuleSubmission) (*core.Rule, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/rules", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit rule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to submit rule: %s", c.errorMessage(resp))
	}

	var rule core.Rule
	if err := json.NewDecoder(resp.Body).Decode(&rule); err != nil {
		return nil, fmt.Errorf("failed to decode created rule: %w", err)
	}
	return &rule, nil
}

// errorMessage extracts the server's {"error": ...} payload, falling back to
// the HTTP status.
func (c *Client) errorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
