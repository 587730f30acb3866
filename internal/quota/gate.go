// Package quota enforces per-plan request ceilings against the usage ledger.
package quota

import (
	"context"
	"errors"
	"time"

	"github.com/simplegeohq/simplegeoapi/internal/accountcontext"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	"github.com/simplegeohq/simplegeoapi/internal/observability/metrics"
	"github.com/simplegeohq/simplegeoapi/internal/plan"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrQuotaExceeded      = errors.New("monthly_quota_exceeded")
	ErrDailyQuotaExceeded = errors.New("daily_quota_exceeded")
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Usage   usagedomain.Service
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

// Gate admits or rejects a request before any billable work happens. The
// ceiling is inclusive: a caller standing at the limit is rejected.
type Gate struct {
	log     *zap.Logger
	usage   usagedomain.Service
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) *Gate {
	return &Gate{
		log:     p.Log.Named("quota.gate"),
		usage:   p.Usage,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Check counts the caller's ledger rows in the monthly and daily windows and
// compares them against the plan ceilings. The check and the later usage
// write are not atomic; concurrent requests at the boundary may briefly
// overshoot, which is accepted over serializing all requests per account.
func (g *Gate) Check(ctx context.Context, principal accountcontext.Principal) error {
	limits := plan.LimitsFor(principal.Plan, principal.SubscriptionStatus)

	from, to := g.monthlyWindow(principal)
	monthly, err := g.usage.Count(ctx, principal.AccountID, &from, to)
	if err != nil {
		return err
	}
	if monthly >= limits.Monthly {
		g.metrics.RecordQuotaRejection("monthly")
		g.log.Info("monthly quota exceeded",
			zap.String("account_id", principal.AccountID.String()),
			zap.String("plan", principal.Plan),
			zap.Int64("used", monthly),
			zap.Int64("limit", limits.Monthly),
		)
		return ErrQuotaExceeded
	}

	if limits.Daily > 0 {
		midnight := g.utcMidnight()
		daily, err := g.usage.Count(ctx, principal.AccountID, &midnight, nil)
		if err != nil {
			return err
		}
		if daily >= limits.Daily {
			g.metrics.RecordQuotaRejection("daily")
			g.log.Info("daily quota exceeded",
				zap.String("account_id", principal.AccountID.String()),
				zap.String("plan", principal.Plan),
				zap.Int64("used", daily),
				zap.Int64("limit", limits.Daily),
			)
			return ErrDailyQuotaExceeded
		}
	}

	return nil
}

// monthlyWindow prefers the subscription's current billing period; accounts
// without period bounds fall back to the UTC calendar month.
func (g *Gate) monthlyWindow(principal accountcontext.Principal) (time.Time, *time.Time) {
	if principal.PeriodStart != nil {
		return *principal.PeriodStart, principal.PeriodEnd
	}
	now := g.clock.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, &end
}

func (g *Gate) utcMidnight() time.Time {
	now := g.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
