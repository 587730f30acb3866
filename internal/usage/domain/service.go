package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Track appends units ledger rows for the account. Callers treat it as
	// fire-and-forget; failures are logged, never surfaced to the request.
	Track(ctx context.Context, req TrackRequest)
	// Count returns billable units consumed in [from, to). Nil bounds are
	// open.
	Count(ctx context.Context, accountID snowflake.ID, from, to *time.Time) (int64, error)
	// MonthlyStats groups the account's whole ledger per calendar month,
	// oldest first.
	MonthlyStats(ctx context.Context, accountID snowflake.ID) ([]MonthlyBucket, error)
	// DailyStats groups the current calendar month per day, oldest first.
	DailyStats(ctx context.Context, accountID snowflake.ID) ([]DailyBucket, error)
}

// TrackRequest describes one metered request. Units > 1 writes multiple rows,
// one per billable unit.
type TrackRequest struct {
	AccountID  snowflake.ID
	Endpoint   string
	Method     string
	StatusCode int
	Units      int
	Timestamp  time.Time
}

// MonthlyBucket is one month of aggregated usage.
type MonthlyBucket struct {
	Year          int   `json:"year"`
	Month         int   `json:"month"`
	TotalRequests int64 `json:"total_requests"`
}

// DailyBucket is one day of aggregated usage, Date formatted YYYY-MM-DD.
type DailyBucket struct {
	Date          string `json:"date"`
	TotalRequests int64  `json:"total_requests"`
}
