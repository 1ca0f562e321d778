package storage

import "ruleboard/core"

// RuleStorer is the repository boundary for rule rows. ListRules and GetRule
// return the flattened core.Rule shape with category names joined in;
// consumers never see join rows.
type RuleStorer interface {
	ListRules(activeOnly bool) ([]core.Rule, error)
	GetRule(id string) (*core.Rule, error)
	InsertRule(rule *core.Rule) error
	DeleteRule(id string) error
	SetRuleActive(id string, active bool) error
}

// CategoryStorer manages the shared category namespace and the rule/category
// join table.
type CategoryStorer interface {
	GetOrCreateCategory(name string) (*Category, error)
	LinkRuleCategory(ruleID, categoryID string) error
	ListCategoryNames() ([]string, error)
	GetCategoryCounts() ([]core.CategoryCount, error)
	GetActiveRuleCount() (int64, error)
}

// Category is a row in the categories table. Categories are created lazily
// by name and never deleted by this system.
type Category struct {
	ID   string
	Name string
}
