package service

import (
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"github.com/simplegeohq/simplegeoapi/internal/observability/logger"
	"github.com/simplegeohq/simplegeoapi/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// batchWorkers bounds the concurrent provider fan-out for batch requests.
const batchWorkers = 8

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     geocodedomain.Repository
	Provider geocodedomain.Provider
	Clock    clock.Clock
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	repo     geocodedomain.Repository
	provider geocodedomain.Provider
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func New(p Params) geocodedomain.Service {
	return &Service{
		log:      p.Log.Named("geocode.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		provider: p.Provider,
		clock:    p.Clock,
		metrics:  p.Metrics,
	}
}

// Geocode resolves an address through the persistent cache, falling back to
// the upstream provider on a miss. The cache key is the fingerprint of the
// normalized address, so " 1600 Amphitheatre " and "1600 amphitheatre" share
// a row. The stored row keeps the provider's formatted address for display.
func (s *Service) Geocode(ctx context.Context, address string) (*geocodedomain.GeocodeResult, error) {
	normalized := geocodedomain.Normalize(address)
	if normalized == "" {
		return nil, geocodedomain.ErrAddressRequired
	}
	fingerprint := geocodedomain.Fingerprint(normalized)

	entry, err := s.repo.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCacheLookup("geocode", entry != nil)
	if entry != nil {
		return &geocodedomain.GeocodeResult{
			Address:   entry.Address,
			Latitude:  entry.Latitude,
			Longitude: entry.Longitude,
			Source:    geocodedomain.SourceCache,
		}, nil
	}

	resolved, err := s.provider.Resolve(ctx, address)
	if err != nil {
		s.metrics.RecordProviderCall("geocode", "error")
		return nil, err
	}
	s.metrics.RecordProviderCall("geocode", "ok")

	entry, err = s.repo.UpsertIfAbsent(ctx, &geocodedomain.GeocodeEntry{
		ID:          s.genID.Generate(),
		AddressHash: fingerprint,
		Address:     resolved.FormattedAddress,
		Latitude:    resolved.Latitude,
		Longitude:   resolved.Longitude,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		// The lookup already succeeded; a failed cache write costs a
		// future provider call, not this response.
		logger.FromContext(ctx).Warn("geocode cache write failed",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
		return &geocodedomain.GeocodeResult{
			Address:   resolved.FormattedAddress,
			Latitude:  resolved.Latitude,
			Longitude: resolved.Longitude,
			Source:    geocodedomain.SourceProvider,
		}, nil
	}

	return &geocodedomain.GeocodeResult{
		Address:   entry.Address,
		Latitude:  entry.Latitude,
		Longitude: entry.Longitude,
		Source:    geocodedomain.SourceProvider,
	}, nil
}

// ReverseGeocode resolves coordinates to an address. Cache hits require exact
// latitude/longitude equality with a previously stored row. On a provider
// resolution the returned address is normalized and fingerprinted so a later
// forward geocode of the same address also hits.
func (s *Service) ReverseGeocode(ctx context.Context, lat, lng float64) (*geocodedomain.ReverseResult, error) {
	entry, err := s.repo.FindByCoordinates(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCacheLookup("reverse_geocode", entry != nil)
	if entry != nil {
		return &geocodedomain.ReverseResult{
			Address: entry.Address,
			Source:  geocodedomain.SourceCache,
		}, nil
	}

	resolved, err := s.provider.ReverseResolve(ctx, lat, lng)
	if err != nil {
		s.metrics.RecordProviderCall("reverse_geocode", "error")
		return nil, err
	}
	s.metrics.RecordProviderCall("reverse_geocode", "ok")

	normalized := geocodedomain.Normalize(resolved.FormattedAddress)
	if _, err := s.repo.UpsertIfAbsent(ctx, &geocodedomain.GeocodeEntry{
		ID:          s.genID.Generate(),
		AddressHash: geocodedomain.Fingerprint(normalized),
		Address:     resolved.FormattedAddress,
		Latitude:    lat,
		Longitude:   lng,
		CreatedAt:   s.clock.Now(),
	}); err != nil {
		logger.FromContext(ctx).Warn("reverse geocode cache write failed", zap.Error(err))
	}

	return &geocodedomain.ReverseResult{
		Address: resolved.FormattedAddress,
		Source:  geocodedomain.SourceProvider,
	}, nil
}

// BatchGeocode resolves each address independently over a bounded worker
// pool. Per-address failures land in the item's Err; only an empty input is
// an error for the batch itself. Result order matches input order.
func (s *Service) BatchGeocode(ctx context.Context, addresses []string) ([]geocodedomain.BatchItem, error) {
	if len(addresses) == 0 {
		return nil, geocodedomain.ErrAddressRequired
	}

	items := make([]geocodedomain.BatchItem, len(addresses))
	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup

	for i, address := range addresses {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, address string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.Geocode(ctx, address)
			if err != nil {
				items[i] = geocodedomain.BatchItem{
					Address: strings.TrimSpace(address),
					Err:     err,
				}
				return
			}
			items[i] = geocodedomain.BatchItem{
				Address:   result.Address,
				Latitude:  result.Latitude,
				Longitude: result.Longitude,
				Source:    result.Source,
			}
		}(i, address)
	}
	wg.Wait()

	return items, nil
}

// NearbyPOI is a passthrough to the places provider; results are not cached.
func (s *Service) NearbyPOI(ctx context.Context, req geocodedomain.POIRequest) ([]geocodedomain.Place, error) {
	places, err := s.provider.NearbySearch(ctx, req)
	if err != nil {
		s.metrics.RecordProviderCall("poi", "error")
		return nil, err
	}
	s.metrics.RecordProviderCall("poi", "ok")
	return places, nil
}
