package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"ruleboard/core"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SQLiteCategoryStorage manages the shared category namespace and the
// rule/category join table.
type SQLiteCategoryStorage struct {
	sqlite *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteCategoryStorage creates a new SQLite category storage handler.
func NewSQLiteCategoryStorage(sqlite *SQLite, logger *zap.SugaredLogger) *SQLiteCategoryStorage {
	return &SQLiteCategoryStorage{
		sqlite: sqlite,
		logger: logger,
	}
}

// GetOrCreateCategory resolves a category by exact name, creating it if
// absent. The insert relies on the unique constraint on the name column
// rather than an application-level check-then-insert, so concurrent
// submissions racing on the same new name converge on a single row: losers
// of the race hit ON CONFLICT DO NOTHING and pick up the winner's row in the
// follow-up fetch.
func (scs *SQLiteCategoryStorage) GetOrCreateCategory(name string) (*Category, error) {
	id := uuid.New().String()

	_, err := scs.sqlite.WriteDB.Exec(
		"INSERT INTO categories (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		id, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category %q: %w", name, err)
	}

	var category Category
	err = scs.sqlite.WriteDB.QueryRow(
		"SELECT id, name FROM categories WHERE name = ?", name,
	).Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %q: %w", name, err)
	}

	return &category, nil
}

// LinkRuleCategory records the (rule, category) association. The pair
// appears at most once; re-linking is a no-op.
func (scs *SQLiteCategoryStorage) LinkRuleCategory(ruleID, categoryID string) error {
	_, err := scs.sqlite.WriteDB.Exec(
		"INSERT OR IGNORE INTO rule_categories (rule_id, category_id) VALUES (?, ?)",
		ruleID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to link rule %s to category %s: %w", ruleID, categoryID, err)
	}
	return nil
}

// ListCategoryNames returns all category names ordered alphabetically.
func (scs *SQLiteCategoryStorage) ListCategoryNames() ([]string, error) {
	rows, err := scs.sqlite.ReadDB.Query("SELECT name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return names, nil
}

// GetCategoryCounts returns every category with its count of distinct active
// rules, ordered by name. Categories whose rules are all inactive (or that
// have no rules at all) are still listed with a count of zero. COUNT
// DISTINCT guards against duplicate join rows; the schema forbids them, but
// the count should not be wrong if data quality slips.
func (scs *SQLiteCategoryStorage) GetCategoryCounts() ([]core.CategoryCount, error) {
	query := `
		SELECT c.name, COUNT(DISTINCT CASE WHEN r.is_active = 1 THEN r.id END)
		FROM categories c
		LEFT JOIN rule_categories rc ON rc.category_id = c.id
		LEFT JOIN rules r ON r.id = rc.rule_id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`

	rows, err := scs.sqlite.ReadDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	counts := []core.CategoryCount{}
	for rows.Next() {
		var cc core.CategoryCount
		if err := rows.Scan(&cc.Name, &cc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category counts: %w", err)
	}

	return counts, nil
}

// GetActiveRuleCount returns the total number of active rules.
func (scs *SQLiteCategoryStorage) GetActiveRuleCount() (int64, error) {
	var count int64
	err := scs.sqlite.ReadDB.QueryRow("SELECT COUNT(*) FROM rules WHERE is_active = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active rules: %w", err)
	}
	return count, nil
}
