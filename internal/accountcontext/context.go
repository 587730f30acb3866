// Package accountcontext threads the resolved caller identity through the
// request pipeline: key resolution sets it, the quota gate and usage tracking
// read it.
package accountcontext

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type principalKey struct{}

// Principal is the caller resolved from an API key, together with the
// subscription facts the quota gate needs.
type Principal struct {
	AccountID          snowflake.ID
	Plan               string
	SubscriptionStatus string
	PeriodStart        *time.Time
	PeriodEnd          *time.Time
}

// WithPrincipal stores the resolved caller in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the resolved caller, if set.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
