package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	"github.com/simplegeohq/simplegeoapi/internal/observability/metrics"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    usagedomain.Repository
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	repo    usagedomain.Repository
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) usagedomain.Service {
	return &Service{
		log:     p.Log.Named("usage.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Track writes the ledger rows for one metered request. A write failure means
// the request goes unbilled; that is preferred over failing a response the
// caller already earned.
func (s *Service) Track(ctx context.Context, req usagedomain.TrackRequest) {
	units := req.Units
	if units <= 0 {
		units = 1
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.clock.Now()
	}

	records := make([]*usagedomain.UsageRecord, 0, units)
	for i := 0; i < units; i++ {
		records = append(records, &usagedomain.UsageRecord{
			ID:         s.genID.Generate(),
			AccountID:  req.AccountID,
			Endpoint:   req.Endpoint,
			Method:     req.Method,
			StatusCode: req.StatusCode,
			Timestamp:  ts,
		})
	}

	if err := s.repo.Insert(ctx, records); err != nil {
		s.log.Error("usage ledger write failed",
			zap.String("account_id", req.AccountID.String()),
			zap.String("endpoint", req.Endpoint),
			zap.Int("units", units),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordUsageWritten(len(records))
}

func (s *Service) Count(ctx context.Context, accountID snowflake.ID, from, to *time.Time) (int64, error) {
	return s.repo.Count(ctx, accountID, from, to)
}

// MonthlyStats range-scans the account's ledger and groups it in memory. The
// grouping keys stay in Go rather than SQL so the query is identical across
// dialects.
func (s *Service) MonthlyStats(ctx context.Context, accountID snowflake.ID) ([]usagedomain.MonthlyBucket, error) {
	records, err := s.repo.ListSince(ctx, accountID, time.Time{})
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month int
	}
	totals := make(map[monthKey]int64)
	for _, record := range records {
		ts := record.Timestamp.UTC()
		totals[monthKey{ts.Year(), int(ts.Month())}]++
	}

	buckets := make([]usagedomain.MonthlyBucket, 0, len(totals))
	for key, total := range totals {
		buckets = append(buckets, usagedomain.MonthlyBucket{
			Year:          key.year,
			Month:         key.month,
			TotalRequests: total,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets, nil
}

func (s *Service) DailyStats(ctx context.Context, accountID snowflake.ID) ([]usagedomain.DailyBucket, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	records, err := s.repo.ListSince(ctx, accountID, monthStart)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, record := range records {
		totals[record.Timestamp.UTC().Format("2006-01-02")]++
	}

	buckets := make([]usagedomain.DailyBucket, 0, len(totals))
	for date, total := range totals {
		buckets = append(buckets, usagedomain.DailyBucket{
			Date:          date,
			TotalRequests: total,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets, nil
}
