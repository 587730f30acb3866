package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// Insert appends records to the ledger in one statement.
	Insert(ctx context.Context, records []*UsageRecord) error
	// Count returns the number of ledger rows for the account with
	// Timestamp in [from, to). A nil bound is open.
	Count(ctx context.Context, accountID snowflake.ID, from, to *time.Time) (int64, error)
	// ListSince returns the account's rows with Timestamp >= from, oldest
	// first.
	ListSince(ctx context.Context, accountID snowflake.ID, from time.Time) ([]UsageRecord, error)
}
