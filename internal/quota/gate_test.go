package quota

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/simplegeohq/simplegeoapi/internal/accountcontext"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	"github.com/simplegeohq/simplegeoapi/internal/plan"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUsage returns a fixed count per window and records the bounds it was
// asked about. The first Count call is the monthly window, the second daily.
type stubUsage struct {
	counts []int64
	calls  int
	froms  []time.Time
	tos    []*time.Time
}

func (s *stubUsage) Track(ctx context.Context, req usagedomain.TrackRequest) {}

func (s *stubUsage) Count(ctx context.Context, accountID snowflake.ID, from, to *time.Time) (int64, error) {
	idx := s.calls
	s.calls++
	if from != nil {
		s.froms = append(s.froms, *from)
	}
	s.tos = append(s.tos, to)
	if idx < len(s.counts) {
		return s.counts[idx], nil
	}
	return 0, nil
}

func (s *stubUsage) MonthlyStats(ctx context.Context, accountID snowflake.ID) ([]usagedomain.MonthlyBucket, error) {
	return nil, nil
}

func (s *stubUsage) DailyStats(ctx context.Context, accountID snowflake.ID) ([]usagedomain.DailyBucket, error) {
	return nil, nil
}

func newGate(usage usagedomain.Service, clk clock.Clock) *Gate {
	return New(Params{
		Log:   zap.NewNop(),
		Usage: usage,
		Clock: clk,
	})
}

func principalOn(planName string) accountcontext.Principal {
	node, _ := snowflake.NewNode(1)
	return accountcontext.Principal{
		AccountID:          node.Generate(),
		Plan:               planName,
		SubscriptionStatus: "active",
	}
}

func TestCheckAdmitsBelowCeiling(t *testing.T) {
	usage := &stubUsage{counts: []int64{999, 5}}
	gate := newGate(usage, clock.NewSystemClock())

	err := gate.Check(context.Background(), principalOn(plan.Free))
	assert.NoError(t, err)
}

func TestCheckRejectsAtMonthlyCeiling(t *testing.T) {
	usage := &stubUsage{counts: []int64{1000}}
	gate := newGate(usage, clock.NewSystemClock())

	err := gate.Check(context.Background(), principalOn(plan.Free))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, usage.calls)
}

func TestCheckRejectsAtDailyCeiling(t *testing.T) {
	usage := &stubUsage{counts: []int64{5, 10}}
	gate := newGate(usage, clock.NewSystemClock())

	err := gate.Check(context.Background(), principalOn(plan.Free))
	assert.ErrorIs(t, err, ErrDailyQuotaExceeded)
}

func TestCheckPremiumHasNoDailyCap(t *testing.T) {
	usage := &stubUsage{counts: []int64{100000}}
	gate := newGate(usage, clock.NewSystemClock())

	err := gate.Check(context.Background(), principalOn(plan.Premium))
	assert.NoError(t, err)
	assert.Equal(t, 1, usage.calls)
}

func TestCheckTrialingUsesTrialCeiling(t *testing.T) {
	usage := &stubUsage{counts: []int64{1000}}
	gate := newGate(usage, clock.NewSystemClock())

	principal := principalOn(plan.Premium)
	principal.SubscriptionStatus = "trialing"

	err := gate.Check(context.Background(), principal)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestCheckUnknownPlanFallsBackToFree(t *testing.T) {
	usage := &stubUsage{counts: []int64{1000}}
	gate := newGate(usage, clock.NewSystemClock())

	err := gate.Check(context.Background(), principalOn("enterprise-legacy"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestCheckUsesSubscriptionPeriodBounds(t *testing.T) {
	usage := &stubUsage{counts: []int64{0, 0}}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	gate := newGate(usage, clock.NewFakeClock(now))

	periodStart := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	principal := principalOn(plan.Free)
	principal.PeriodStart = &periodStart
	principal.PeriodEnd = &periodEnd

	require.NoError(t, gate.Check(context.Background(), principal))
	require.NotEmpty(t, usage.froms)
	assert.Equal(t, periodStart, usage.froms[0])
	require.NotNil(t, usage.tos[0])
	assert.Equal(t, periodEnd, *usage.tos[0])
}

func TestCheckFallsBackToCalendarMonth(t *testing.T) {
	usage := &stubUsage{counts: []int64{0, 0}}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	gate := newGate(usage, clock.NewFakeClock(now))

	require.NoError(t, gate.Check(context.Background(), principalOn(plan.Free)))
	require.NotEmpty(t, usage.froms)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), usage.froms[0])

	// Daily window starts at UTC midnight of the current day.
	require.Len(t, usage.froms, 2)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), usage.froms[1])
}
