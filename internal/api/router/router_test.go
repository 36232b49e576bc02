package router

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/devforge/codelab/internal/api/handlers"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/validator"
)

func newRouterForTest(t *testing.T) chi.Router {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL:    "http://localhost:5173",
			Environment:    "development",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		Auth: config.AuthConfig{JWTSecret: "test-secret"},
	}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	val := validator.New()
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })

	gate := middleware.NewEntitlementGate(nil, nil, log)
	h := &Handlers{
		Health:       handlers.NewHealthHandler(nil, log),
		Auth:         handlers.NewAuthHandler(nil, cfg, log, val),
		User:         handlers.NewUserHandler(nil, nil, log, val),
		Subscription: handlers.NewSubscriptionHandler(nil, log, val),
		Project:      handlers.NewProjectHandler(nil, log, val),
		Message:      handlers.NewMessageHandler(nil, log, val),
		AI:           handlers.NewAIHandler(nil, log, val),
	}

	mux, ok := New(cfg, log, store, gate, h).(chi.Router)
	if !ok {
		t.Fatal("New() did not return a chi router")
	}
	return mux
}

func TestSubscriptionRoutes(t *testing.T) {
	mux := newRouterForTest(t)

	registered := map[string]bool{}
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{
		"POST /api/subscription/create",
		"POST /api/subscription/activate",
		"GET /api/subscription/details",
		"GET /api/subscription/status",
		"POST /api/subscription/cancel",
		"POST /api/subscription/payment",
		"POST /api/payment/test",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %q is not mounted", route)
		}
	}
}
