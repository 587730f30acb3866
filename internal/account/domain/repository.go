package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	InsertAccount(ctx context.Context, account *Account) error
	FindAccountByID(ctx context.Context, id snowflake.ID) (*Account, error)
	FindAccountByKeyHash(ctx context.Context, keyHash string) (*Account, error)
	InsertSubscription(ctx context.Context, sub *Subscription) error
	FindActiveSubscription(ctx context.Context, accountID snowflake.ID) (*Subscription, error)
	UpdateSubscriptionPlan(ctx context.Context, accountID snowflake.ID, plan string) error
}
