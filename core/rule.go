package core

import "time"

// Author identifies who submitted a rule.
type Author struct {
	Name       string `json:"name"`
	ContactURL string `json:"contactUrl"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
}

// Rule is the flattened, client-facing shape of a catalog entry.
//
// Categories holds the category names joined at read time. Order carries no
// meaning; consumers filter by membership. A fully submitted rule always has
// at least one category, but storage does not enforce that.
type Rule struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Author     Author    `json:"author"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
	IsActive   bool      `json:"isActive"`
}

// HasCategory reports whether the rule is tagged with the given category
// name. Matching is exact and case-sensitive.
func (r *Rule) HasCategory(name string) bool {
	for _, c := range r.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryCount is a sidebar aggregate: one category and the number of
// distinct active rules tagged with it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
