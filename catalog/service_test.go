package catalog

import (
	"context"
	"errors"
	"testing"

	"ruleboard/core"
	"ruleboard/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupCatalog builds a service over a real in-memory SQLite database.
func setupCatalog(t *testing.T) (*Service, *storage.SQLiteRuleStorage, *storage.SQLiteCategoryStorage, *storage.SQLite) {
	t.Helper()

	sqlite, err := storage.NewSQLite(":memory:", zap.NewNop().Sugar())
	require.NoError(t, err)

	rules := storage.NewSQLiteRuleStorage(sqlite, zap.NewNop().Sugar())
	categories := storage.NewSQLiteCategoryStorage(sqlite, zap.NewNop().Sugar())
	svc := NewService(rules, categories, zap.NewNop().Sugar())
	return svc, rules, categories, sqlite
}

// failingCategoryStorage wraps a real CategoryStorer and fails resolution of
// one category name, simulating a mid-sequence storage failure.
type failingCategoryStorage struct {
	storage.CategoryStorer
	failName string
}

func (f *failingCategoryStorage) GetOrCreateCategory(name string) (*storage.Category, error) {
	if name == f.failName {
		return nil, errors.New("storage unavailable")
	}
	return f.CategoryStorer.GetOrCreateCategory(name)
}

func submission(categories ...string) core.RuleSubmission {
	return core.RuleSubmission{
		Name:       "R1",
		Content:    "body",
		AuthorName: "Al",
		ContactURL: "https://x.com/al",
		Categories: categories,
	}
}

func TestSubmit_Success(t *testing.T) {
	svc, rules, _, sqlite := setupCatalog(t)
	defer sqlite.Close()

	created, err := svc.Submit(context.Background(), submission("Go", "CLI"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "R1", created.Name)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())
	assert.ElementsMatch(t, []string{"Go", "CLI"}, created.Categories)

	listed, err := rules.ListRules(true)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.ElementsMatch(t, []string{"Go", "CLI"}, listed[0].Categories)
}

func TestSubmit_TrimsFields(t *testing.T) {
	svc, _, _, sqlite := setupCatalog(t)
	defer sqlite.Close()

	sub := core.RuleSubmission{
		Name:       "  R1  ",
		Content:    " body ",
		AuthorName: " Al ",
		ContactURL: " https://x.com/al ",
		Categories: []string{" Go "},
	}

	created, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "R1", created.Name)
	assert.Equal(t, "body", created.Content)
	assert.Equal(t, "Al", created.Author.Name)
	assert.Equal(t, "https://x.com/al", created.Author.ContactURL)
	assert.Equal(t, []string{"Go"}, created.Categories)
}

func TestSubmit_ValidationFailureHasNoSideEffects(t *testing.T) {
	svc, rules, categories, sqlite := setupCatalog(t)
	defer sqlite.Close()

	sub := submission("Go")
	sub.Name = "   "

	_, err := svc.Submit(context.Background(), sub)
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))

	listed, err := rules.ListRules(false)
	require.NoError(t, err)
	assert.Empty(t, listed, "no rule row may be created")

	names, err := categories.ListCategoryNames()
	require.NoError(t, err)
	assert.Empty(t, names, "no category may be created as a side effect")
}

func TestSubmit_LinkFailureCompensates(t *testing.T) {
	svc, rules, categories, sqlite := setupCatalog(t)
	defer sqlite.Close()

	svc.categories = &failingCategoryStorage{CategoryStorer: categories, failName: "Bad"}

	_, err := svc.Submit(context.Background(), submission("Go", "Bad"))
	require.Error(t, err)

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.True(t, werr.Compensated)

	// The rule row was rolled back.
	listed, err := rules.ListRules(false)
	require.NoError(t, err)
	assert.Empty(t, listed, "compensating delete must remove the rule")

	var links int
	require.NoError(t, sqlite.DB.QueryRow("SELECT COUNT(*) FROM rule_categories").Scan(&links))
	assert.Equal(t, 0, links)
}

func TestSubmit_LinkFailureKeepsCreatedCategories(t *testing.T) {
	svc, _, categories, sqlite := setupCatalog(t)
	defer sqlite.Close()

	// "Good" resolves before "Bad" fails; the created category stays.
	svc.categories = &failingCategoryStorage{CategoryStorer: categories, failName: "Bad"}

	_, err := svc.Submit(context.Background(), submission("Good", "Bad"))
	require.Error(t, err)

	names, err := categories.ListCategoryNames()
	require.NoError(t, err)
	// The category namespace is shared and append-only: no rollback. "Good"
	// may or may not have been created depending on goroutine timing, but
	// "Bad" never was.
	assert.NotContains(t, names, "Bad")
}

func TestSubmit_DeduplicatesCategories(t *testing.T) {
	svc, _, categories, sqlite := setupCatalog(t)
	defer sqlite.Close()

	created, err := svc.Submit(context.Background(), submission("Go", "Go", " Go "))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, created.Categories)

	names, err := categories.ListCategoryNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, names)
}

func TestSubmit_CancelledContext(t *testing.T) {
	svc, rules, _, sqlite := setupCatalog(t)
	defer sqlite.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, submission("Go"))
	require.ErrorIs(t, err, context.Canceled)

	listed, err := rules.ListRules(false)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestWriteError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &WriteError{Op: "failed to link categories", Compensated: true, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "rule rolled back")
}
