package server

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	"github.com/simplegeohq/simplegeoapi/internal/accountcontext"
	obslogger "github.com/simplegeohq/simplegeoapi/internal/observability/logger"
	"github.com/simplegeohq/simplegeoapi/internal/plan"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"go.uber.org/zap"
)

const (
	apiKeyHeader     = "x-api-key"
	ctxKeyAPIKeyHash = "api_key_hash"
	ctxBillableUnits = "billable_units"
)

// APIKeyRequired resolves the caller from the x-api-key header and stores the
// principal in the request context for the quota gate and usage tracker.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if rawKey == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		resolved, err := s.accountSvc.ResolveByAPIKey(c.Request.Context(), rawKey)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		principal := accountcontext.Principal{
			AccountID:          resolved.Account.ID,
			Plan:               plan.Free,
			SubscriptionStatus: string(accountdomain.SubscriptionStatusActive),
		}
		if sub := resolved.Subscription; sub != nil {
			principal.Plan = sub.Plan
			principal.SubscriptionStatus = string(sub.Status)
			principal.PeriodStart = sub.CurrentPeriodStart
			principal.PeriodEnd = sub.CurrentPeriodEnd
		}

		ctx := accountcontext.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ctxKeyAPIKeyHash, accountdomain.HashAPIKey(rawKey))

		c.Next()
	}
}

// BurstLimit smooths spikes per API key. A limiter outage fails open; quota
// enforcement still stands behind it.
func (s *Server) BurstLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		keyHash := c.GetString(ctxKeyAPIKeyHash)
		allowed, err := s.limiter.Allow(c.Request.Context(), keyHash)
		if err != nil {
			obslogger.FromContext(c.Request.Context()).Warn("burst limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		s.metrics.RecordRateLimitDecision(allowed)
		if !allowed {
			c.Header("Retry-After", "1")
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}

// QuotaCheck rejects the request before any billable work when the caller
// stands at or above a plan ceiling.
func (s *Server) QuotaCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := accountcontext.PrincipalFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.quotaGate.Check(c.Request.Context(), principal); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

// RequireBatchPlan gates batch and POI endpoints to paid tiers.
func (s *Server) RequireBatchPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := accountcontext.PrincipalFromContext(c.Request.Context())
		if !ok || !plan.AllowsBatch(principal.Plan) {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Next()
	}
}

// TrackUsage writes ledger rows after the handler runs. Failed requests are
// not billed. The write happens off the request goroutine so a slow ledger
// never delays the response; context.Background keeps it alive after the
// client disconnects.
func (s *Server) TrackUsage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Handler errors are still unmapped at this point; the terminal
		// error writer runs outside this middleware. A pushed error decides
		// the outcome, not the writer's default status.
		status := c.Writer.Status()
		if lastErr := c.Errors.Last(); lastErr != nil {
			status, _ = mapError(lastErr.Err)
		}
		if status >= 400 {
			return
		}

		principal, ok := accountcontext.PrincipalFromContext(c.Request.Context())
		if !ok {
			return
		}

		units := c.GetInt(ctxBillableUnits)
		if units <= 0 {
			units = 1
		}

		req := usagedomain.TrackRequest{
			AccountID:  principal.AccountID,
			Endpoint:   c.FullPath(),
			Method:     c.Request.Method,
			StatusCode: status,
			Units:      units,
		}
		go s.usageSvc.Track(context.Background(), req)
	}
}
