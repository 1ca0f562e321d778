package storage

// createTables creates the catalog schema.
//
// The schema stays normalized: the flattened categories list on a rule is
// derived by a join at read time, never stored in the rule row. The unique
// constraint on categories.name is what makes get-or-create safe under
// concurrent submissions, and ON DELETE CASCADE on the join table is what
// makes the compensating delete in the submission path remove the link rows.
func (s *SQLite) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		content TEXT NOT NULL,
		author_name TEXT NOT NULL,
		author_contact_url TEXT NOT NULL,
		author_avatar_url TEXT,
		created_at TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_rules_created_at ON rules(created_at);
	CREATE INDEX IF NOT EXISTS idx_rules_is_active ON rules(is_active);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS rule_categories (
		rule_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		PRIMARY KEY (rule_id, category_id),
		FOREIGN KEY (rule_id) REFERENCES rules(id) ON DELETE CASCADE,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_rule_categories_category ON rule_categories(category_id);
	`

	if _, err := s.WriteDB.Exec(schema); err != nil {
		return err
	}

	s.Logger.Debug("Catalog schema ensured")
	return nil
}
