// Package http exposes the JSON API: authentication, the dashboard
// snapshot, and CRUD over expenses, revenue, budgets, goals, categories
// and the profile. Every data route requires a session.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"smartspend/internal/cache"
	"smartspend/internal/dashboard"
	"smartspend/internal/identity"
	"smartspend/internal/middleware/trace"
	"smartspend/internal/services"
)

const handlerTimeout = 7 * time.Second

// Services bundles the application services the server fronts.
type Services struct {
	Expenses   *services.TransactionService
	Revenue    *services.TransactionService
	Budgets    *services.BudgetService
	Goals      *services.GoalService
	Categories *services.CategoryService
	Profiles   *services.ProfileService
}

// Options carries the server's tunables.
type Options struct {
	SnapshotTTL         time.Duration
	RecoveryRedirectURL string
}

type Server struct {
	http.Server

	identity    identity.Service
	dashboard   *dashboard.Service
	svc         Services
	recoveryURL string

	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Dashboard snapshots cached per user, invalidated on every write.
	snapshots *cache.LRU[dashboard.Snapshot]
	janitor   *cache.Janitor

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ids identity.Service, dash *dashboard.Service, svc Services, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = 30 * time.Second
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
		},
		identity:    ids,
		dashboard:   dash,
		svc:         svc,
		recoveryURL: opts.RecoveryRedirectURL,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		snapshots:   cache.NewLRU[dashboard.Snapshot](1000, opts.SnapshotTTL),
	}
	s.janitor = cache.NewJanitor(s.snapshots)
	s.janitor.Start(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/logout", s.withSession(s.handleLogout))
	mux.HandleFunc("/api/auth/recovery", s.handleRecovery)

	mux.HandleFunc("/api/dashboard", s.withSession(s.handleDashboard))

	mux.HandleFunc("/api/expenses", s.withSession(s.transactionCollection(svc.Expenses)))
	mux.HandleFunc("/api/expenses/", s.withSession(s.transactionItem(svc.Expenses)))
	mux.HandleFunc("/api/revenue", s.withSession(s.transactionCollection(svc.Revenue)))
	mux.HandleFunc("/api/revenue/", s.withSession(s.transactionItem(svc.Revenue)))

	mux.HandleFunc("/api/budgets", s.withSession(s.handleBudgets))
	mux.HandleFunc("/api/budgets/", s.withSession(s.handleBudgetItem))
	mux.HandleFunc("/api/goals", s.withSession(s.handleGoals))
	mux.HandleFunc("/api/goals/", s.withSession(s.handleGoalItem))
	mux.HandleFunc("/api/categories", s.withSession(s.handleCategories))
	mux.HandleFunc("/api/categories/", s.withSession(s.handleCategoryItem))
	mux.HandleFunc("/api/profile", s.withSession(s.handleProfile))

	traced := trace.NewMiddleware(extractClientIP)
	s.Handler = traced.Middleware(s.withSecurity(mux))

	return s
}

// Shutdown stops the HTTP listener and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateSnapshot drops the user's cached dashboard after a write.
func (s *Server) invalidateSnapshot(userID string) {
	s.snapshots.Delete(userID)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
