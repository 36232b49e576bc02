package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/testutil"
)

type gateErrorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newGateForTest(t *testing.T) (*EntitlementGate, *testutil.MockUserRepository, *testutil.MockSubscriptionRepository) {
	t.Helper()
	users := testutil.NewMockUserRepository()
	subs := testutil.NewMockSubscriptionRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewEntitlementGate(users, subs, log), users, subs
}

func gateRequest(method, path string, userID int64) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	if userID > 0 {
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		r = r.WithContext(ctx)
	}
	return r
}

func seedGateUser(t *testing.T, users *testutil.MockUserRepository, projects, requests int) *user.User {
	t.Helper()
	now := time.Now()
	u := &user.User{
		Email:           "gate@example.com",
		PasswordHash:    "x",
		EmailVerified:   true,
		ProjectsCreated: projects,
		TotalRequests:   requests,
		LastRequestAt:   &now,
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func activateSub(t *testing.T, subs *testutil.MockSubscriptionRepository, userID int64, planID string) {
	t.Helper()
	err := subs.Create(context.Background(), &subscription.Subscription{
		UserID:    userID,
		Plan:      planID,
		Status:    subscription.StatusActive,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}

func TestEntitlementGate_ExemptPaths(t *testing.T) {
	gate, _, _ := newGateForTest(t)

	for _, path := range []string{"/api/auth/login", "/api/subscription/activate", "/api/payment/test"} {
		t.Run(path, func(t *testing.T) {
			called := false
			h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			// No authenticated user at all: exempt paths must still pass
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, gateRequest(http.MethodPost, path, 0))

			if !called {
				t.Errorf("exempt path %s was gated", path)
			}
		})
	}
}

func TestEntitlementGate_Unauthenticated(t *testing.T) {
	gate, _, _ := newGateForTest(t)
	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called for unauthenticated request")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/projects", 0))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestEntitlementGate_InvalidSubscriptionBlocks(t *testing.T) {
	gate, users, subs := newGateForTest(t)
	u := seedGateUser(t, users, 0, 0)

	// Row exists but lapsed: access denied until resubscribed
	err := subs.Create(context.Background(), &subscription.Subscription{
		UserID:    u.ID,
		Plan:      plan.Pro,
		Status:    subscription.StatusActive,
		StartDate: time.Now().Add(-60 * 24 * time.Hour),
		EndDate:   time.Now().Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called despite lapsed subscription")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/projects", u.ID))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	var body gateErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Details["requiresSubscription"] != true {
		t.Error("response should flag requiresSubscription")
	}
}

func TestEntitlementGate_NoRowFallsBackToFree(t *testing.T) {
	gate, users, _ := newGateForTest(t)
	u := seedGateUser(t, users, 0, 0)

	var limits PlanLimits
	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits, _ = GetPlanLimits(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/projects", u.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if limits.Plan != plan.Free {
		t.Errorf("plan = %q, want free", limits.Plan)
	}
	if limits.MaxProjects != 1 {
		t.Errorf("MaxProjects = %d, want 1", limits.MaxProjects)
	}
}

func TestEntitlementGate_ProjectCeiling(t *testing.T) {
	gate, users, subs := newGateForTest(t)
	u := seedGateUser(t, users, 1, 0) // free allows exactly 1 project
	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	t.Run("POST over ceiling rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, gateRequest(http.MethodPost, "/api/projects", u.ID))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		var body gateErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error.Details["requiresUpgrade"] != true {
			t.Error("response should flag requiresUpgrade")
		}
	})

	t.Run("GET is not counted against the project ceiling", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/projects", u.ID))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("upgrade raises the ceiling", func(t *testing.T) {
		activateSub(t, subs, u.ID, plan.Pro)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, gateRequest(http.MethodPost, "/api/projects", u.ID))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestEntitlementGate_MonthlyRequestCeiling(t *testing.T) {
	gate, users, _ := newGateForTest(t)
	u := seedGateUser(t, users, 0, 1000) // at the free monthly ceiling

	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/messages", u.ID))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	var body gateErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Details["requiresUpgrade"] != true {
		t.Error("response should flag requiresUpgrade")
	}
}

func TestEntitlementGate_MonthlyCounterResets(t *testing.T) {
	gate, users, _ := newGateForTest(t)
	u := seedGateUser(t, users, 0, 1000)

	// Last request was in a previous month: the window restarts
	lastMonth := time.Now().AddDate(0, -1, 0)
	u.LastRequestAt = &lastMonth

	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/messages", u.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if u.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1 after monthly reset", u.TotalRequests)
	}
}

func TestEntitlementGate_CountsUsage(t *testing.T) {
	gate, users, _ := newGateForTest(t)
	u := seedGateUser(t, users, 0, 5)

	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, gateRequest(http.MethodGet, "/api/messages", u.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if u.TotalRequests != 6 {
		t.Errorf("TotalRequests = %d, want 6", u.TotalRequests)
	}
	if u.LastRequestAt == nil {
		t.Error("LastRequestAt should be stamped")
	}
}
