package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simplegeohq/simplegeoapi/internal/config"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (geocodedomain.Provider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		Geocoder: config.GeocoderConfig{
			APIKey:         "test-key",
			GeocodeURL:     srv.URL,
			PlacesURL:      srv.URL,
			RequestTimeout: 2 * time.Second,
		},
	}
	return New(cfg, zap.NewNop()), srv
}

func TestResolveOK(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1600 Amphitheatre Parkway", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
				"geometry": {"location": {"lat": 37.422, "lng": -122.084}}
			}]
		}`))
	})

	result, err := client.Resolve(context.Background(), "1600 Amphitheatre Parkway")
	require.NoError(t, err)
	assert.Equal(t, 37.422, result.Latitude)
	assert.Equal(t, -122.084, result.Longitude)
	assert.Contains(t, result.FormattedAddress, "Mountain View")
}

func TestResolveZeroResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := client.Resolve(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, geocodedomain.ErrNoResults)
}

func TestResolveProviderStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "OVER_QUERY_LIMIT",
			"results": [{"formatted_address": "x", "geometry": {"location": {"lat": 1, "lng": 2}}}]
		}`))
	})

	_, err := client.Resolve(context.Background(), "somewhere")
	var statusErr *geocodedomain.ProviderStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "OVER_QUERY_LIMIT", statusErr.Status)
}

func TestResolveTransportFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Resolve(context.Background(), "anywhere")
	assert.ErrorIs(t, err, geocodedomain.ErrProviderUnavailable)
}

func TestResolveMissingAPIKey(t *testing.T) {
	client := New(config.Config{
		Geocoder: config.GeocoderConfig{RequestTimeout: time.Second},
	}, zap.NewNop())

	_, err := client.Resolve(context.Background(), "anywhere")
	assert.ErrorIs(t, err, geocodedomain.ErrProviderUnavailable)
}

func TestReverseResolveSendsLatLng(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "37.422,-122.084", r.URL.Query().Get("latlng"))
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "1600 Amphitheatre Pkwy",
				"geometry": {"location": {"lat": 37.422, "lng": -122.084}}
			}]
		}`))
	})

	result, err := client.ReverseResolve(context.Background(), 37.422, -122.084)
	require.NoError(t, err)
	assert.Equal(t, "1600 Amphitheatre Pkwy", result.FormattedAddress)
}

func TestNearbySearchDefaults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "500", r.URL.Query().Get("radius"))
		assert.Equal(t, "restaurant", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"name": "Taqueria",
				"vicinity": "123 Castro St",
				"geometry": {"location": {"lat": 37.39, "lng": -122.08}},
				"types": ["restaurant", "food"],
				"rating": 4.5
			}]
		}`))
	})

	places, err := client.NearbySearch(context.Background(), geocodedomain.POIRequest{
		Latitude:  37.39,
		Longitude: -122.08,
	})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Taqueria", places[0].Name)
	assert.Equal(t, 4.5, places[0].Rating)
}

func TestNearbySearchZeroResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := client.NearbySearch(context.Background(), geocodedomain.POIRequest{Latitude: 1, Longitude: 2})
	assert.ErrorIs(t, err, geocodedomain.ErrNoResults)
}
