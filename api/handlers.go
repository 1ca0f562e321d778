package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ruleboard/catalog"
	"ruleboard/core"
	"ruleboard/metrics"
	"ruleboard/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// respondJSON writes a JSON response with proper error handling
func (a *API) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Errorw("Failed to encode JSON response",
			"error", err,
			"data_type", fmt.Sprintf("%T", data))
		// Response already started, can't send error to client.
	}
}

// respondError writes the {"error": message} payload the frontend expects.
func (a *API) respondError(w http.ResponseWriter, message string, statusCode int) {
	a.respondJSON(w, map[string]string{"error": message}, statusCode)
}

// getRules returns the active rules, newest first, with category names
// flattened in. Storage failures surface as a generic message; the detail
// is logged, not leaked.
func (a *API) getRules(w http.ResponseWriter, r *http.Request) {
	rules, err := a.ruleStorage.ListRules(true)
	if err != nil {
		a.logger.Errorw("Failed to list rules", "error", err)
		metrics.RuleListFetches.WithLabelValues("error").Inc()
		a.respondError(w, "Failed to fetch rules", http.StatusInternalServerError)
		return
	}

	metrics.RuleListFetches.WithLabelValues("ok").Inc()
	a.respondJSON(w, rules, http.StatusOK)
}

// getRule returns a single flattened rule. A missing id is a 404, distinct
// from storage failures.
func (a *API) getRule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		a.respondError(w, "Rule ID is required", http.StatusBadRequest)
		return
	}

	rule, err := a.ruleStorage.GetRule(id)
	if err != nil {
		if errors.Is(err, storage.ErrRuleNotFound) {
			a.respondError(w, "Rule not found", http.StatusNotFound)
		} else {
			a.logger.Errorw("Failed to get rule", "rule_id", id, "error", err)
			a.respondError(w, "Failed to fetch rule", http.StatusInternalServerError)
		}
		return
	}

	a.respondJSON(w, rule, http.StatusOK)
}

// createRule accepts a rule submission. All writes funnel through the
// catalog service so the ordered field validation and the category upsert
// strategy apply to this path exactly as to any other.
func (a *API) createRule(w http.ResponseWriter, r *http.Request) {
	var sub core.RuleSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		a.respondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Structural check before the domain validation runs; the latter owns
	// the user-facing messages.
	validate := validator.New()
	if err := validate.Struct(sub); err != nil {
		if verr := sub.Validate(); verr != nil {
			a.respondError(w, verr.Error(), http.StatusBadRequest)
			return
		}
		a.respondError(w, "Invalid submission", http.StatusBadRequest)
		return
	}

	rule, err := a.submitter.Submit(r.Context(), sub)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			a.respondError(w, verr.Message, http.StatusBadRequest)
			return
		}

		var werr *catalog.WriteError
		if errors.As(err, &werr) {
			a.logger.Errorw("Rule submission failed",
				"compensated", werr.Compensated,
				"error", err)
		} else {
			a.logger.Errorw("Rule submission failed", "error", err)
		}
		a.respondError(w, "Failed to create rule", http.StatusInternalServerError)
		return
	}

	a.respondJSON(w, rule, http.StatusOK)
}

// getCategories returns every category with its active-rule count plus the
// total number of active rules, for the sidebar.
func (a *API) getCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := a.categories.GetCategoryCounts()
	if err != nil {
		a.logger.Errorw("Failed to get category counts", "error", err)
		a.respondError(w, "Failed to fetch categories", http.StatusInternalServerError)
		return
	}

	total, err := a.categories.GetActiveRuleCount()
	if err != nil {
		a.logger.Errorw("Failed to count active rules", "error", err)
		a.respondError(w, "Failed to fetch categories", http.StatusInternalServerError)
		return
	}

	a.respondJSON(w, catalog.CategorySummary{
		Categories: counts,
		TotalRules: total,
	}, http.StatusOK)
}

// getCategoryNames returns the bare alphabetical category name list, for
// submission clients that want to show which categories already exist.
func (a *API) getCategoryNames(w http.ResponseWriter, r *http.Request) {
	names, err := a.categories.ListCategoryNames()
	if err != nil {
		a.logger.Errorw("Failed to list category names", "error", err)
		a.respondError(w, "Failed to fetch categories", http.StatusInternalServerError)
		return
	}

	a.respondJSON(w, names, http.StatusOK)
}

// healthCheck reports liveness.
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
