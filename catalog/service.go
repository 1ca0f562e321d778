// Package catalog implements the canonical write path for rule submissions
// and the client-side fetch boundary of the catalog API.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ruleboard/core"
	"ruleboard/metrics"
	"ruleboard/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WriteError reports a failed submission write. Compensated indicates that
// the partially created rule was rolled back by a compensating delete.
type WriteError struct {
	Op          string
	Compensated bool
	Err         error
}

func (e *WriteError) Error() string {
	if e.Compensated {
		return fmt.Sprintf("%s: %v (rule rolled back)", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Service is the single validated write path to the catalog. Every producer
// of new rules, the HTTP API included, funnels through Submit so that
// validation and the category upsert strategy are applied uniformly.
type Service struct {
	rules      storage.RuleStorer
	categories storage.CategoryStorer
	logger     *zap.SugaredLogger
}

// NewService creates a submission service over the given storage.
func NewService(rules storage.RuleStorer, categories storage.CategoryStorer, logger *zap.SugaredLogger) *Service {
	return &Service{
		rules:      rules,
		categories: categories,
		logger:     logger,
	}
}

// Submit validates a submission and durably creates the rule together with
// its category links, returning the complete denormalized rule.
//
// The write is a best-effort saga, not a transaction:
//
//  1. The rule row is inserted. A failure here aborts with nothing created.
//  2. Each submitted category is resolved by get-or-create and linked to the
//     rule. The categories are processed concurrently with no ordering
//     between them; the first observed failure fails the whole submission,
//     and in-flight siblings are left to finish on their own.
//  3. On any resolution or link failure the rule row is deleted, cascading
//     away whatever links were already made. Categories created along the
//     way are NOT rolled back: the category namespace is shared and
//     append-only.
//
// A crash between the insert and the compensating delete leaves an orphan
// rule with partial links. That window is accepted at this scale.
func (s *Service) Submit(ctx context.Context, sub core.RuleSubmission) (*core.Rule, error) {
	if err := sub.Validate(); err != nil {
		if verr, ok := err.(*core.ValidationError); ok {
			metrics.SubmissionsRejected.WithLabelValues(verr.Field).Inc()
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rule := &core.Rule{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(sub.Name),
		Content: strings.TrimSpace(sub.Content),
		Author: core.Author{
			Name:       strings.TrimSpace(sub.AuthorName),
			ContactURL: strings.TrimSpace(sub.ContactURL),
			AvatarURL:  strings.TrimSpace(sub.AvatarURL),
		},
		IsActive: true,
	}

	if err := s.rules.InsertRule(rule); err != nil {
		return nil, &WriteError{Op: "failed to create rule", Err: err}
	}

	if err := s.linkCategories(rule.ID, sub.NormalizedCategories()); err != nil {
		s.compensate(rule.ID)
		return nil, &WriteError{Op: "failed to link categories", Compensated: true, Err: err}
	}

	created, err := s.rules.GetRule(rule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created rule: %w", err)
	}

	metrics.SubmissionsAccepted.Inc()
	s.logger.Infow("Rule submitted",
		"rule_id", created.ID,
		"name", created.Name,
		"categories", created.Categories)
	return created, nil
}

// linkCategories resolves and links every category concurrently, returning
// the first failure observed. Remaining goroutines are not cancelled; their
// results land in the buffered channel and are dropped.
func (s *Service) linkCategories(ruleID string, names []string) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			category, err := s.categories.GetOrCreateCategory(name)
			if err != nil {
				errCh <- fmt.Errorf("category %q: %w", name, err)
				return
			}
			if err := s.categories.LinkRuleCategory(ruleID, category.ID); err != nil {
				errCh <- fmt.Errorf("category %q: %w", name, err)
			}
		}(name)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
		// All finished; pick up an error that raced with completion.
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
}

// compensate removes the just-created rule after a linking failure. The
// cascade takes the link rows with it. If the delete itself fails, the rule
// is orphaned; all we can do is log it.
func (s *Service) compensate(ruleID string) {
	if err := s.rules.DeleteRule(ruleID); err != nil {
		s.logger.Errorw("Compensating delete failed, rule orphaned",
			"rule_id", ruleID,
			"error", err)
		return
	}
	metrics.CompensatingDeletes.Inc()
	s.logger.Warnw("Rolled back rule after category linking failure", "rule_id", ruleID)
}
