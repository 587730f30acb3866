package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Register creates an account with an active free subscription and
	// returns the generated API key. The key is shown exactly once.
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	// ResolveByAPIKey returns the account and its subscription for a raw
	// presented key, or ErrInvalidAPIKey.
	ResolveByAPIKey(ctx context.Context, rawKey string) (*Resolved, error)
	// ChangePlan moves the account's subscription to another tier.
	ChangePlan(ctx context.Context, req ChangePlanRequest) error
	// ActiveSubscription returns the account's active or trialing
	// subscription, or nil when none exists.
	ActiveSubscription(ctx context.Context, accountID string) (*Subscription, error)
}

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RegisterResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	APIKey    string `json:"api_key"`
}

type ChangePlanRequest struct {
	AccountID string `json:"account_id"`
	Plan      string `json:"plan"`
}

// Resolved pairs an account with its subscription, as needed by the request
// pipeline.
type Resolved struct {
	Account      Account
	Subscription *Subscription
}

var (
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPlan    = errors.New("invalid_plan")
	ErrEmailExists    = errors.New("email_exists")
	ErrInvalidAPIKey  = errors.New("invalid_api_key")
	ErrNotFound       = errors.New("not_found")
	ErrNoSubscription = errors.New("no_active_subscription")
)
