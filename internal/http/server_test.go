package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartspend/internal/dashboard"
	"smartspend/internal/identity"
	"smartspend/internal/rowstore/memory"
	"smartspend/internal/services"
)

type testEnv struct {
	server *Server
	store  *memory.Store
	ids    *identity.MemoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	ids := identity.NewMemoryService()

	budgets := services.NewBudgetService(store)
	svc := Services{
		Expenses:   services.NewExpenseService(store, budgets, nil),
		Revenue:    services.NewRevenueService(store, budgets, nil),
		Budgets:    budgets,
		Goals:      services.NewGoalService(store),
		Categories: services.NewCategoryService(store),
		Profiles:   services.NewProfileService(store),
	}
	dash := dashboard.New(store, time.UTC)

	s := NewServer(":0", ids, dash, svc, Options{SnapshotTTL: time.Minute})
	t.Cleanup(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
	})
	return &testEnv{server: s, store: store, ids: ids}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.10:4444"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return resp.Token
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := env.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Fatalf("%s = %d", path, rec.Code)
		}
	}
}

func TestDataRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/dashboard", "/api/expenses", "/api/budgets", "/api/profile"} {
		if rec := env.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without session = %d, want 401", path, rec.Code)
		}
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	// Registration seeds the profile row.
	rec := env.do(t, http.MethodGet, "/api/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/profile", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile after logout = %d, want 401", rec.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with bad password = %d, want 401", rec.Code)
	}
}

func TestExpenseLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount": "12.50",
		"date":   "2025-01-15",
		"notes":  "groceries",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d: %s", rec.Code, rec.Body.String())
	}
	var created transactionView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode expense: %v", err)
	}
	if created.Amount != 12.5 {
		t.Fatalf("amount = %v, want 12.5", created.Amount)
	}

	rec = env.do(t, http.MethodGet, "/api/expenses", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expenses = %d", rec.Code)
	}
	var page transactionPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Total)
	}

	rec = env.do(t, http.MethodDelete, "/api/expenses/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete expense = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/expenses/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted expense = %d, want 404", rec.Code)
	}
}

func TestExpenseCreateRejectsBadAmount(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	for _, amount := range []any{"abc", "", "-5", 0} {
		rec := env.do(t, http.MethodPost, "/api/expenses", token, map[string]any{
			"amount": amount,
			"date":   "2025-01-15",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("amount %v = %d, want 400", amount, rec.Code)
		}
	}
}

func TestDashboardReflectsWrites(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount": "100.00", "date": "2025-01-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/revenue", token, map[string]any{
		"amount": "500.00", "date": "2025-01-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create revenue = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d: %s", rec.Code, rec.Body.String())
	}
	var view dashboardView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if view.Expenses != 100 || view.Revenue != 500 || view.Balance != 400 {
		t.Fatalf("totals = %v/%v/%v, want 100/500/400", view.Expenses, view.Revenue, view.Balance)
	}
	if view.MonthlyExpenses["2025-01"] != 100 {
		t.Fatalf("monthly expenses = %v", view.MonthlyExpenses)
	}
	if view.Status != string(dashboard.SnapshotOK) {
		t.Fatalf("status = %s", view.Status)
	}

	// A new write invalidates the cached snapshot.
	rec = env.do(t, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount": "50.00", "date": "2025-01-20",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("second expense = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if view.Expenses != 150 {
		t.Fatalf("expenses after write = %v, want 150", view.Expenses)
	}
}

func TestBudgetProgressOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/api/budgets", token, map[string]any{
		"name":      "Groceries",
		"amount":    "500.00",
		"startDate": "2025-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget = %d: %s", rec.Code, rec.Body.String())
	}
	var b budgetView
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode budget: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount":   "700.00",
		"date":     "2025-01-10",
		"budgetId": b.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create linked expense = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/budgets/%s", b.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode budget: %v", err)
	}
	if b.Percentage != 100 {
		t.Fatalf("percentage = %v, want clamped 100", b.Percentage)
	}
	if b.Remaining != -200 {
		t.Fatalf("remaining = %v, want -200", b.Remaining)
	}
	if b.ChartRemaining != 0 {
		t.Fatalf("chartRemaining = %v, want 0", b.ChartRemaining)
	}
}

func TestGoalContributionOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/api/goals", token, map[string]any{
		"name":         "Trip",
		"targetAmount": "1000.00",
		"priority":     "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d: %s", rec.Code, rec.Body.String())
	}
	var g goalView
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode goal: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/goals/"+g.ID+"/contribute", token, map[string]any{
		"amount": "250.00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("contribute = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if g.AmountContributed != 250 {
		t.Fatalf("amountContributed = %v, want 250", g.AmountContributed)
	}
	if g.Percentage != 25 {
		t.Fatalf("percentage = %v, want 25", g.Percentage)
	}
}

func TestUsersCannotSeeEachOther(t *testing.T) {
	env := newTestEnv(t)
	adaToken := env.registerAndLogin(t, "ada@example.com")
	bobToken := env.registerAndLogin(t, "bob@example.com")

	rec := env.do(t, http.MethodPost, "/api/expenses", adaToken, map[string]any{
		"amount": "42.00", "date": "2025-01-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d", rec.Code)
	}
	var created transactionView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode expense: %v", err)
	}

	if rec := env.do(t, http.MethodGet, "/api/expenses/"+created.ID, bobToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user get = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/expenses", bobToken, nil)
	var page transactionPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("bob sees %d rows, want 0", page.Total)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")

	rec := env.do(t, http.MethodPut, "/api/dashboard", token, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT dashboard = %d, want 405", rec.Code)
	}
}
