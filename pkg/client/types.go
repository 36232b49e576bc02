package client

import "time"

// User represents an account
type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name,omitempty"`
	EmailVerified   bool       `json:"email_verified"`
	ProjectsCreated int        `json:"projects_created"`
	TotalRequests   int        `json:"total_requests"`
	LastRequestAt   *time.Time `json:"last_request_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Subscription represents a plan membership
type Subscription struct {
	ID        int64      `json:"id,omitempty"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Plan describes one tier of the catalog
type Plan struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Currency string            `json:"currency"`
	Features map[string]string `json:"features"`
}

// SubscriptionDetails is the subscription view with resolved limits
type SubscriptionDetails struct {
	Subscription *Subscription `json:"subscription,omitempty"`
	Plan         Plan          `json:"plan"`
	Active       bool          `json:"active"`
	Payments     []Payment     `json:"payments,omitempty"`
}

// SubscriptionStatus is the lightweight validity probe
type SubscriptionStatus struct {
	Status string `json:"status"`
	Plan   string `json:"plan"`
	Active bool   `json:"active"`
}

// Payment records a charge
type Payment struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id"`
	PaidAt        time.Time `json:"paid_at"`
}

// Project is an owner-scoped coding workspace
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is one entry in a project's chat history
type Message struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Page wraps a paginated list response
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
