package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func guardServer(t *testing.T, status int, session *Session) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "UNAUTHORIZED", "message": "Authentication required"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    session,
		})
	}))
}

func TestGuard_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		session *Session
		want    GuardState
	}{
		{
			name:   "no session",
			status: http.StatusUnauthorized,
			want:   StateUnauthenticated,
		},
		{
			name:   "unverified email",
			status: http.StatusOK,
			session: &Session{
				User: &User{ID: 1, Email: "a@b.c", EmailVerified: false},
			},
			want: StateUnverified,
		},
		{
			name:   "verified without subscription",
			status: http.StatusOK,
			session: &Session{
				User: &User{ID: 1, Email: "a@b.c", EmailVerified: true},
			},
			want: StateUnsubscribed,
		},
		{
			name:   "verified with inactive subscription",
			status: http.StatusOK,
			session: &Session{
				User:         &User{ID: 1, Email: "a@b.c", EmailVerified: true},
				Subscription: &Subscription{Plan: "pro", Status: "inactive", Active: false},
			},
			want: StateUnsubscribed,
		},
		{
			name:   "fully active",
			status: http.StatusOK,
			session: &Session{
				User:         &User{ID: 1, Email: "a@b.c", EmailVerified: true},
				Subscription: &Subscription{Plan: "pro", Status: "active", Active: true},
			},
			want: StateActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := guardServer(t, tt.status, tt.session)
			defer srv.Close()

			g := NewGuard(NewClient(Config{BaseURL: srv.URL, Token: "tok"}))
			state, err := g.Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if state != tt.want {
				t.Errorf("Resolve() = %v, want %v", state, tt.want)
			}
		})
	}
}

func TestGuard_Resolve_TransportErrorStaysLoading(t *testing.T) {
	srv := guardServer(t, http.StatusOK, nil)
	srv.Close() // connection refused from here on

	g := NewGuard(NewClient(Config{BaseURL: srv.URL}))
	state, err := g.Resolve(context.Background())
	if err == nil {
		t.Fatal("Resolve() should surface the transport error")
	}
	if state != StateLoading {
		t.Errorf("state = %v, want loading so the caller can retry", state)
	}
}

func TestGuard_Authorize(t *testing.T) {
	session := &Session{
		User: &User{ID: 1, Email: "a@b.c", EmailVerified: true},
	}

	g := NewGuard(nil)

	t.Run("loading holds navigation", func(t *testing.T) {
		d := g.Authorize(StateActive)
		if d.Allow {
			t.Error("loading guard allowed navigation")
		}
		if d.RedirectTo != "" {
			t.Errorf("loading guard redirected to %q, want no redirect", d.RedirectTo)
		}
	})

	g.OnLogin(session) // verified, unsubscribed

	t.Run("sufficient state allowed", func(t *testing.T) {
		if d := g.Authorize(StateUnverified); !d.Allow {
			t.Error("unsubscribed user denied an unverified-level route")
		}
	})

	t.Run("insufficient state redirected to own landing route", func(t *testing.T) {
		d := g.Authorize(StateActive)
		if d.Allow {
			t.Error("unsubscribed user allowed an active-level route")
		}
		if d.RedirectTo != RouteSubscription {
			t.Errorf("redirect = %q, want %q", d.RedirectTo, RouteSubscription)
		}
	})

	t.Run("subscription upgrade unlocks", func(t *testing.T) {
		g.OnSubscribed(&Subscription{Plan: "pro", Status: "active", Active: true})
		if d := g.Authorize(StateActive); !d.Allow {
			t.Error("active user denied an active-level route")
		}
	})

	t.Run("logout drops to unauthenticated", func(t *testing.T) {
		g.OnLogout()
		d := g.Authorize(StateUnverified)
		if d.Allow {
			t.Error("logged-out user allowed a guarded route")
		}
		if d.RedirectTo != RouteLogin {
			t.Errorf("redirect = %q, want %q", d.RedirectTo, RouteLogin)
		}
	})
}

func TestGuard_OnVerified(t *testing.T) {
	g := NewGuard(nil)
	g.OnLogin(&Session{User: &User{ID: 1, Email: "a@b.c", EmailVerified: false}})

	if g.State() != StateUnverified {
		t.Fatalf("state = %v, want unverified", g.State())
	}

	g.OnVerified()
	if g.State() != StateUnsubscribed {
		t.Errorf("state = %v, want unsubscribed after verification", g.State())
	}
}

func TestGuardState_LandingRoute(t *testing.T) {
	tests := []struct {
		state GuardState
		want  string
	}{
		{StateUnauthenticated, RouteLogin},
		{StateUnverified, RouteVerifyEmail},
		{StateUnsubscribed, RouteSubscription},
		{StateActive, RouteHome},
	}

	for _, tt := range tests {
		if got := tt.state.LandingRoute(); got != tt.want {
			t.Errorf("%v.LandingRoute() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
