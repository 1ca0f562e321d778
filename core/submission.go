package core

import "strings"

// ValidationError reports a rejected submission field. The message is
// user-facing and shown inline next to the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RuleSubmission is the payload accepted by the submission write path.
type RuleSubmission struct {
	Name       string   `json:"name" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	AuthorName string   `json:"authorName" validate:"required"`
	ContactURL string   `json:"contactUrl" validate:"required"`
	AvatarURL  string   `json:"avatarUrl"`
	Categories []string `json:"categories" validate:"required,min=1"`
}

// Validate checks the submission fields in a fixed order and fails on the
// first violation: name, content, author name, contact URL, then categories.
// Fields are judged after trimming surrounding whitespace.
func (s *RuleSubmission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "Rule name is required"}
	}
	if strings.TrimSpace(s.Content) == "" {
		return &ValidationError{Field: "content", Message: "Rule content is required"}
	}
	if strings.TrimSpace(s.AuthorName) == "" {
		return &ValidationError{Field: "authorName", Message: "Author name is required"}
	}
	if strings.TrimSpace(s.ContactURL) == "" {
		return &ValidationError{Field: "contactUrl", Message: "Contact URL is required"}
	}
	if len(s.NormalizedCategories()) == 0 {
		return &ValidationError{Field: "categories", Message: "At least one category is required"}
	}
	return nil
}

// NormalizedCategories returns the submitted category names trimmed and
// deduplicated, preserving first-seen order. Blank entries are dropped.
func (s *RuleSubmission) NormalizedCategories() []string {
	seen := make(map[string]bool, len(s.Categories))
	out := make([]string, 0, len(s.Categories))
	for _, raw := range s.Categories {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
