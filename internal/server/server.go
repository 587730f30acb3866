// Package server wires the HTTP surface: routing, auth, quota enforcement
// and usage tracking around the geocoding services.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	"github.com/simplegeohq/simplegeoapi/internal/config"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	obslogger "github.com/simplegeohq/simplegeoapi/internal/observability/logger"
	obsmetrics "github.com/simplegeohq/simplegeoapi/internal/observability/metrics"
	"github.com/simplegeohq/simplegeoapi/internal/quota"
	"github.com/simplegeohq/simplegeoapi/internal/ratelimit"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, metrics *obsmetrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	accountSvc accountdomain.Service
	geocodeSvc geocodedomain.Service
	usageSvc   usagedomain.Service
	quotaGate  *quota.Gate
	limiter    *ratelimit.BurstLimiter
	metrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	AccountSvc accountdomain.Service
	GeocodeSvc geocodedomain.Service
	UsageSvc   usagedomain.Service
	QuotaGate  *quota.Gate
	Limiter    *ratelimit.BurstLimiter `optional:"true"`
	Metrics    *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		accountSvc: p.AccountSvc,
		geocodeSvc: p.GeocodeSvc,
		usageSvc:   p.UsageSvc,
		quotaGate:  p.QuotaGate,
		limiter:    p.Limiter,
		metrics:    p.Metrics,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.Use(s.APIKeyRequired())
	api.Use(s.BurstLimit())

	// Metered endpoints pass the quota gate before any provider work and
	// write usage ledger rows after the response.
	metered := api.Group("")
	metered.Use(s.QuotaCheck())
	metered.Use(s.TrackUsage())
	{
		metered.POST("/geocode", s.GeocodeAddress)
		metered.POST("/reverse-geocode", s.ReverseGeocode)
		metered.POST("/batch-geocode-json", s.RequireBatchPlan(), s.BatchGeocode)
		metered.POST("/poi", s.RequireBatchPlan(), s.NearbyPOI)
	}

	// Stats endpoints are authenticated but free.
	api.GET("/usage/monthly", s.MonthlyUsage)
	api.GET("/usage/daily", s.DailyUsage)
}
