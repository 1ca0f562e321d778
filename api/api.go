// Package api exposes the ruleboard catalog over HTTP: the rule list and
// detail reads, the validated submission write path, and the category
// sidebar aggregate.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ruleboard/config"
	"ruleboard/core"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterEntry holds a rate limiter with last seen time
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RuleStorer is the read side of rule storage consumed by the API.
type RuleStorer interface {
	ListRules(activeOnly bool) ([]core.Rule, error)
	GetRule(id string) (*core.Rule, error)
}

// CategoryAggregator provides the sidebar counts and the bare name list
// shown on the submission form.
type CategoryAggregator interface {
	GetCategoryCounts() ([]core.CategoryCount, error)
	GetActiveRuleCount() (int64, error)
	ListCategoryNames() ([]string, error)
}

// RuleSubmitter is the single validated write path for new rules.
type RuleSubmitter interface {
	Submit(ctx context.Context, sub core.RuleSubmission) (*core.Rule, error)
}

// API holds the API server
type API struct {
	router         *mux.Router
	server         *http.Server
	ruleStorage    RuleStorer
	categories     CategoryAggregator
	submitter      RuleSubmitter
	config         *config.Config
	logger         *zap.SugaredLogger
	rateLimiters   map[string]*rateLimiterEntry
	rateLimitersMu sync.Mutex
	stopCh         chan struct{}
	stopOnce       sync.Once
}

// NewAPI creates a new API server
func NewAPI(ruleStorage RuleStorer, categories CategoryAggregator, submitter RuleSubmitter, config *config.Config, logger *zap.SugaredLogger) *API {
	api := &API{
		router:       mux.NewRouter(),
		ruleStorage:  ruleStorage,
		categories:   categories,
		submitter:    submitter,
		config:       config,
		logger:       logger,
		rateLimiters: make(map[string]*rateLimiterEntry),
		stopCh:       make(chan struct{}),
	}
	api.setupRoutes()
	go api.cleanupRateLimiters()
	return api
}

// setupRoutes sets up the API routes
func (a *API) setupRoutes() {
	a.router.Use(a.corsMiddleware)
	a.router.Use(a.rateLimitMiddleware)
	a.router.Use(a.metricsMiddleware)
	a.router.HandleFunc("/api/rules", a.getRules).Methods("GET")
	a.router.HandleFunc("/api/rules", a.createRule).Methods("POST")
	a.router.HandleFunc("/api/rules/{id}", a.getRule).Methods("GET")
	a.router.HandleFunc("/api/categories", a.getCategories).Methods("GET")
	a.router.HandleFunc("/api/categories/names", a.getCategoryNames).Methods("GET")
	a.router.HandleFunc("/health", a.healthCheck).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the API server
func (a *API) Start(port string) error {
	a.server = &http.Server{
		Addr:    port,
		Handler: a.router,
	}
	return a.server.ListenAndServe()
}

// StartTLS starts the API server with TLS
func (a *API) StartTLS(port, certFile, keyFile string) error {
	a.server = &http.Server{
		Addr:    port,
		Handler: a.router,
	}
	return a.server.ListenAndServeTLS(certFile, keyFile)
}

// Stop stops the API server. Safe to call more than once; shutdown paths
// that already stopped a failed server may stop it again.
func (a *API) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})
	if a.server != nil {
		return a.server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the router, for tests that drive the API in-process.
func (a *API) Handler() http.Handler {
	return a.router
}
