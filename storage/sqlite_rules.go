package storage

import (
	"database/sql"
	"fmt"
	"time"

	"ruleboard/core"

	"go.uber.org/zap"
)

// createdAtLayout is a fixed-width RFC 3339 layout. The rule listing orders
// on the stored text, so the fraction must be zero-padded: RFC3339Nano trims
// trailing zeros, which makes same-second timestamps compare out of order
// ("...00.5Z" sorts after "...00.55Z").
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRuleStorage handles rule persistence in SQLite. It is the read
// boundary where normalized rows are denormalized into the flat core.Rule
// shape: each rule's category names are joined in at query time.
type SQLiteRuleStorage struct {
	sqlite *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteRuleStorage creates a new SQLite rule storage handler.
func NewSQLiteRuleStorage(sqlite *SQLite, logger *zap.SugaredLogger) *SQLiteRuleStorage {
	return &SQLiteRuleStorage{
		sqlite: sqlite,
		logger: logger,
	}
}

// ListRules retrieves rules with their joined category names, newest first.
// When activeOnly is set, inactive rules are excluded.
func (srs *SQLiteRuleStorage) ListRules(activeOnly bool) ([]core.Rule, error) {
	query := `
		SELECT r.id, r.name, r.content, r.author_name, r.author_contact_url,
		       r.author_avatar_url, r.created_at, r.is_active, c.name
		FROM rules r
		LEFT JOIN rule_categories rc ON rc.rule_id = r.id
		LEFT JOIN categories c ON c.id = rc.category_id
	`
	if activeOnly {
		query += ` WHERE r.is_active = 1`
	}
	query += ` ORDER BY r.created_at DESC, r.id, c.name`

	rows, err := srs.sqlite.ReadDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	return scanJoinedRules(rows)
}

// GetRule retrieves a single flattened rule by ID. Returns ErrRuleNotFound
// when no row matches, which callers must distinguish from a transport
// failure.
func (srs *SQLiteRuleStorage) GetRule(id string) (*core.Rule, error) {
	query := `
		SELECT r.id, r.name, r.content, r.author_name, r.author_contact_url,
		       r.author_avatar_url, r.created_at, r.is_active, c.name
		FROM rules r
		LEFT JOIN rule_categories rc ON rc.rule_id = r.id
		LEFT JOIN categories c ON c.id = rc.category_id
		WHERE r.id = ?
		ORDER BY c.name
	`

	rows, err := srs.sqlite.ReadDB.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rule: %w", err)
	}
	defer rows.Close()

	rules, err := scanJoinedRules(rows)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrRuleNotFound
	}
	return &rules[0], nil
}

// InsertRule inserts a bare rule row. Category links are managed separately
// through CategoryStorer; the rule's Categories field is ignored here.
// CreatedAt is assigned by this method and never mutated afterwards.
func (srs *SQLiteRuleStorage) InsertRule(rule *core.Rule) error {
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO rules (id, name, content, author_name, author_contact_url,
		                   author_avatar_url, created_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := srs.sqlite.WriteDB.Exec(query,
		rule.ID,
		rule.Name,
		rule.Content,
		rule.Author.Name,
		rule.Author.ContactURL,
		nullIfEmpty(rule.Author.AvatarURL),
		rule.CreatedAt.Format(createdAtLayout),
		rule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	srs.logger.Infof("Created rule %s (%s)", rule.ID, rule.Name)
	return nil
}

// DeleteRule hard-deletes a rule row. Join rows are removed by the cascade.
// Used as the compensation step when category linking fails after a rule
// insert; soft removal goes through SetRuleActive instead.
func (srs *SQLiteRuleStorage) DeleteRule(id string) error {
	result, err := srs.sqlite.WriteDB.Exec("DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrRuleNotFound
	}

	srs.logger.Infof("Deleted rule %s", id)
	return nil
}

// SetRuleActive toggles the active flag. Inactive rules keep their category
// links but drop out of active listings and aggregate counts.
func (srs *SQLiteRuleStorage) SetRuleActive(id string, active bool) error {
	result, err := srs.sqlite.WriteDB.Exec("UPDATE rules SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update rule active flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// scanJoinedRules collapses a rule×category join result into flattened
// rules, preserving row order. Rules without categories come back with an
// empty (non-nil) Categories slice.
func scanJoinedRules(rows *sql.Rows) ([]core.Rule, error) {
	var (
		rules []core.Rule
		index = make(map[string]int)
	)

	for rows.Next() {
		var (
			rule         core.Rule
			avatarURL    sql.NullString
			createdAt    string
			categoryName sql.NullString
		)

		err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Content,
			&rule.Author.Name,
			&rule.Author.ContactURL,
			&avatarURL,
			&createdAt,
			&rule.IsActive,
			&categoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}

		i, seen := index[rule.ID]
		if !seen {
			if avatarURL.Valid {
				rule.Author.AvatarURL = avatarURL.String
			}
			rule.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at for rule %s: %w", rule.ID, err)
			}
			rule.Categories = []string{}
			rules = append(rules, rule)
			i = len(rules) - 1
			index[rule.ID] = i
		}

		if categoryName.Valid {
			rules[i].Categories = append(rules[i].Categories, categoryName.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rule rows: %w", err)
	}

	if rules == nil {
		rules = []core.Rule{}
	}
	return rules, nil
}

// nullIfEmpty converts empty strings to NULL for optional columns.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
