package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/metrics"
	"github.com/devforge/codelab/internal/pkg/utils"
)

// PlanLimitsKey is the context key for the resolved plan limits
const PlanLimitsKey ContextKey = "planLimits"

// PlanLimits carries the caller's resolved plan ceilings downstream so
// handlers never re-derive them.
type PlanLimits struct {
	Plan                string `json:"plan"`
	MaxProjects         int64  `json:"max_projects"`
	MaxRequestsPerMonth int64  `json:"max_requests_per_month"`
}

// Paths never gated: authentication and the purchase path itself must stay
// reachable for users who are exactly the ones the gate would reject.
var gateExemptPrefixes = []string{
	"/api/auth",
	"/api/payment",
	"/api/subscription",
}

// EntitlementGate enforces per-plan feature ceilings in front of the
// product CRUD surface. It runs after AuthMiddleware.
type EntitlementGate struct {
	users  user.Repository
	subs   subscription.Repository
	logger *logger.Logger
}

// NewEntitlementGate creates a new entitlement gate
func NewEntitlementGate(users user.Repository, subs subscription.Repository, log *logger.Logger) *EntitlementGate {
	return &EntitlementGate{
		users:  users,
		subs:   subs,
		logger: log,
	}
}

// Middleware applies the gate's ordered checks: exemption, authentication,
// subscription validity, per-feature ceilings, then usage accounting.
func (g *EntitlementGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range gateExemptPrefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		userID, ok := GetUserID(r)
		if !ok {
			metrics.RecordGateRejection("unauthenticated")
			utils.WriteError(w, errors.Unauthorized("Authentication required"))
			return
		}

		u, err := g.users.GetByID(r.Context(), userID)
		if err != nil {
			utils.WriteError(w, errors.Unauthorized("Authentication required"))
			return
		}

		planID := plan.Free
		sub, err := g.subs.GetByUserID(r.Context(), userID)
		if err == nil {
			// A row that exists but does not grant access blocks the
			// product surface until the user (re)subscribes. Accounts
			// without any row stay on the free default.
			if !sub.IsValid() {
				metrics.RecordGateRejection("subscription")
				utils.WriteError(w, errors.SubscriptionRequired())
				return
			}
			planID = sub.Plan
		}

		// The request counter is a monthly window: first request of a new
		// month resets it.
		now := time.Now()
		totalRequests := u.TotalRequests
		if u.LastRequestAt != nil {
			last := *u.LastRequestAt
			if last.Month() != now.Month() || last.Year() != now.Year() {
				totalRequests = 0
			}
		}

		if r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/projects") {
			if !plan.Allows(planID, plan.FeatureMaxProjects, int64(u.ProjectsCreated)) {
				metrics.RecordGateRejection("project_limit")
				utils.WriteError(w, errors.PlanLimitReached("projects", plan.Limit(planID, plan.FeatureMaxProjects)))
				return
			}
		}

		if !plan.Allows(planID, plan.FeatureMaxRequestsPerMonth, int64(totalRequests)) {
			metrics.RecordGateRejection("monthly_limit")
			utils.WriteError(w, errors.RateLimited("Monthly request limit reached").
				WithDetails(map[string]interface{}{"requiresUpgrade": true}))
			return
		}

		totalRequests++
		ts := now.Unix()
		if err := g.users.UpdateUsage(r.Context(), userID, u.ProjectsCreated, totalRequests, &ts); err != nil {
			// Usage accounting must not take the product down
			g.logger.ErrorWithErr(err, "Failed to persist usage counters")
		}

		limits := PlanLimits{
			Plan:                planID,
			MaxProjects:         plan.Limit(planID, plan.FeatureMaxProjects),
			MaxRequestsPerMonth: plan.Limit(planID, plan.FeatureMaxRequestsPerMonth),
		}
		ctx := context.WithValue(r.Context(), PlanLimitsKey, limits)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPlanLimits extracts the resolved plan limits from the request context
func GetPlanLimits(r *http.Request) (PlanLimits, bool) {
	limits, ok := r.Context().Value(PlanLimitsKey).(PlanLimits)
	return limits, ok
}
