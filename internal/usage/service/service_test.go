package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	usagerepo "github.com/simplegeohq/simplegeoapi/internal/usage/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, clk clock.Clock) (usagedomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&usagedomain.UsageRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  usagerepo.New(conn),
		Clock: clk,
	})
	return svc, conn, node
}

func TestTrackWritesOneRowPerUnit(t *testing.T) {
	svc, conn, node := newTestService(t, clock.NewSystemClock())
	accountID := node.Generate()

	svc.Track(context.Background(), usagedomain.TrackRequest{
		AccountID:  accountID,
		Endpoint:   "/api/v1/batch-geocode-json",
		Method:     "POST",
		StatusCode: 200,
		Units:      5,
	})

	var count int64
	require.NoError(t, conn.Model(&usagedomain.UsageRecord{}).
		Where("account_id = ?", accountID).
		Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestTrackDefaultsToOneUnit(t *testing.T) {
	svc, conn, node := newTestService(t, clock.NewSystemClock())
	accountID := node.Generate()

	svc.Track(context.Background(), usagedomain.TrackRequest{
		AccountID:  accountID,
		Endpoint:   "/api/v1/geocode",
		Method:     "POST",
		StatusCode: 200,
	})

	var count int64
	require.NoError(t, conn.Model(&usagedomain.UsageRecord{}).
		Where("account_id = ?", accountID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCountWindowBounds(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _, node := newTestService(t, clock.NewFakeClock(now))
	accountID := node.Generate()
	ctx := context.Background()

	for _, ts := range []time.Time{
		now.AddDate(0, -1, 0), // previous month, outside window
		now.Add(-time.Hour),
		now.Add(-time.Minute),
	} {
		svc.Track(ctx, usagedomain.TrackRequest{
			AccountID:  accountID,
			Endpoint:   "/api/v1/geocode",
			Method:     "POST",
			StatusCode: 200,
			Timestamp:  ts,
		})
	}

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	count, err := svc.Count(ctx, accountID, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = svc.Count(ctx, accountID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMonthlyStatsGroupsByCalendarMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _, node := newTestService(t, clock.NewFakeClock(now))
	accountID := node.Generate()
	ctx := context.Background()

	track := func(ts time.Time, units int) {
		svc.Track(ctx, usagedomain.TrackRequest{
			AccountID:  accountID,
			Endpoint:   "/api/v1/geocode",
			Method:     "POST",
			StatusCode: 200,
			Units:      units,
			Timestamp:  ts,
		})
	}
	track(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), 2)
	track(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 1)
	track(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), 3)

	buckets, err := svc.MonthlyStats(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, usagedomain.MonthlyBucket{Year: 2025, Month: 5, TotalRequests: 2}, buckets[0])
	assert.Equal(t, usagedomain.MonthlyBucket{Year: 2025, Month: 6, TotalRequests: 4}, buckets[1])
}

func TestDailyStatsCoversCurrentMonthOnly(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _, node := newTestService(t, clock.NewFakeClock(now))
	accountID := node.Generate()
	ctx := context.Background()

	track := func(ts time.Time) {
		svc.Track(ctx, usagedomain.TrackRequest{
			AccountID:  accountID,
			Endpoint:   "/api/v1/geocode",
			Method:     "POST",
			StatusCode: 200,
			Timestamp:  ts,
		})
	}
	track(time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC))
	track(time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC))
	track(time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC))
	track(time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC))

	buckets, err := svc.DailyStats(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, usagedomain.DailyBucket{Date: "2025-06-14", TotalRequests: 2}, buckets[0])
	assert.Equal(t, usagedomain.DailyBucket{Date: "2025-06-15", TotalRequests: 1}, buckets[1])
}
