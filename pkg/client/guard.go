package client

import (
	"context"
	"sync"
)

// GuardState is the route guard's view of the session
type GuardState int

const (
	// StateLoading means the session has not been resolved yet. Guarded
	// routes must not render or redirect until resolution finishes.
	StateLoading GuardState = iota

	// StateUnauthenticated means there is no valid session
	StateUnauthenticated

	// StateUnverified means the account exists but the email is not verified
	StateUnverified

	// StateUnsubscribed means the account is verified but has no access-granting
	// subscription
	StateUnsubscribed

	// StateActive means the session is fully usable
	StateActive
)

// String returns the state name
func (s GuardState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUnverified:
		return "unverified"
	case StateUnsubscribed:
		return "unsubscribed"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// Landing routes per state
const (
	RouteLogin        = "/login"
	RouteVerifyEmail  = "/verify-email"
	RouteSubscription = "/subscription"
	RouteHome         = "/"
)

// LandingRoute returns where a user in this state belongs
func (s GuardState) LandingRoute() string {
	switch s {
	case StateUnauthenticated:
		return RouteLogin
	case StateUnverified:
		return RouteVerifyEmail
	case StateUnsubscribed:
		return RouteSubscription
	default:
		return RouteHome
	}
}

// Decision is the guard's answer for a navigation attempt
type Decision struct {
	Allow      bool
	RedirectTo string // set when Allow is false
}

// Guard is a client-side route guard. It resolves the session once via
// the API and then answers navigation checks synchronously. Auth events
// (login, verification, subscription, logout) update it without a refetch.
type Guard struct {
	client *Client

	mu      sync.RWMutex
	state   GuardState
	session *Session
}

// NewGuard creates a guard in StateLoading
func NewGuard(c *Client) *Guard {
	return &Guard{
		client: c,
		state:  StateLoading,
	}
}

// State returns the current guard state
func (g *Guard) State() GuardState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Session returns the resolved session, if any
func (g *Guard) Session() *Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// Resolve fetches the session and computes the state. A 401 resolves to
// StateUnauthenticated; transport errors leave the guard in StateLoading
// so callers can retry instead of bouncing the user to login.
func (g *Guard) Resolve(ctx context.Context) (GuardState, error) {
	session, err := g.client.Me(ctx)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.IsUnauthorized() {
			g.set(StateUnauthenticated, nil)
			return StateUnauthenticated, nil
		}
		return g.State(), err
	}

	state := classify(session)
	g.set(state, session)
	return state, nil
}

// classify maps a session to a guard state
func classify(session *Session) GuardState {
	if session == nil || session.User == nil {
		return StateUnauthenticated
	}
	if !session.User.EmailVerified {
		return StateUnverified
	}
	if session.Subscription == nil || !session.Subscription.Active {
		return StateUnsubscribed
	}
	return StateActive
}

// Authorize decides a navigation attempt. minimum is the weakest state
// allowed onto the route; a user below it is redirected to their own
// landing route, never to a page they also cannot use.
func (g *Guard) Authorize(minimum GuardState) Decision {
	state := g.State()

	if state == StateLoading {
		// Undecided: hold navigation rather than guess
		return Decision{Allow: false, RedirectTo: ""}
	}

	if state >= minimum {
		return Decision{Allow: true}
	}
	return Decision{Allow: false, RedirectTo: state.LandingRoute()}
}

// OnLogin records a successful login. The new session may still be
// unverified or unsubscribed; classification decides.
func (g *Guard) OnLogin(session *Session) {
	g.set(classify(session), session)
}

// OnVerified records a successful email verification
func (g *Guard) OnVerified() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil && g.session.User != nil {
		g.session.User.EmailVerified = true
		g.state = classify(g.session)
	}
}

// OnSubscribed records a successful subscription activation
func (g *Guard) OnSubscribed(sub *Subscription) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		g.session.Subscription = sub
		g.state = classify(g.session)
	}
}

// OnLogout drops the session
func (g *Guard) OnLogout() {
	g.set(StateUnauthenticated, nil)
}

func (g *Guard) set(state GuardState, session *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.session = session
}
