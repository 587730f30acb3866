// Package provider implements the Google Maps geocoding client.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/simplegeohq/simplegeoapi/internal/config"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"go.uber.org/zap"
)

const (
	defaultPOIRadius = 500
	defaultPOIType   = "restaurant"
)

type Client struct {
	http       *http.Client
	log        *zap.Logger
	apiKey     string
	geocodeURL string
	placesURL  string
}

func New(cfg config.Config, log *zap.Logger) geocodedomain.Provider {
	return &Client{
		http:       &http.Client{Timeout: cfg.Geocoder.RequestTimeout},
		log:        log.Named("geocode.provider"),
		apiKey:     cfg.Geocoder.APIKey,
		geocodeURL: cfg.Geocoder.GeocodeURL,
		placesURL:  cfg.Geocoder.PlacesURL,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Types  []string `json:"types"`
		Rating float64  `json:"rating"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// Resolve sends the raw (non-normalized) address to the upstream API. One
// attempt, no retries.
func (c *Client) Resolve(ctx context.Context, address string) (*geocodedomain.ProviderResult, error) {
	params := url.Values{}
	params.Set("address", address)
	return c.geocode(ctx, params)
}

// ReverseResolve resolves coordinates to the nearest formatted address.
func (c *Client) ReverseResolve(ctx context.Context, lat, lng float64) (*geocodedomain.ProviderResult, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%v,%v", lat, lng))
	return c.geocode(ctx, params)
}

func (c *Client) geocode(ctx context.Context, params url.Values) (*geocodedomain.ProviderResult, error) {
	var payload geocodeResponse
	if err := c.get(ctx, c.geocodeURL, params, &payload); err != nil {
		return nil, err
	}

	if len(payload.Results) == 0 {
		return nil, geocodedomain.ErrNoResults
	}
	if payload.Status != "OK" {
		return nil, &geocodedomain.ProviderStatusError{Status: payload.Status}
	}

	first := payload.Results[0]
	return &geocodedomain.ProviderResult{
		FormattedAddress: first.FormattedAddress,
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
	}, nil
}

// NearbySearch proxies the Places nearby search endpoint.
func (c *Client) NearbySearch(ctx context.Context, req geocodedomain.POIRequest) ([]geocodedomain.Place, error) {
	radius := req.Radius
	if radius <= 0 {
		radius = defaultPOIRadius
	}
	placeType := req.Type
	if placeType == "" {
		placeType = defaultPOIType
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%v,%v", req.Latitude, req.Longitude))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("type", placeType)

	var payload placesResponse
	if err := c.get(ctx, c.placesURL, params, &payload); err != nil {
		return nil, err
	}

	if payload.Status != "OK" {
		if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
			return nil, geocodedomain.ErrNoResults
		}
		return nil, &geocodedomain.ProviderStatusError{Status: payload.Status}
	}

	places := make([]geocodedomain.Place, 0, len(payload.Results))
	for _, item := range payload.Results {
		places = append(places, geocodedomain.Place{
			Name:      item.Name,
			Vicinity:  item.Vicinity,
			Latitude:  item.Geometry.Location.Lat,
			Longitude: item.Geometry.Location.Lng,
			Types:     item.Types,
			Rating:    item.Rating,
		})
	}
	return places, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: api key not configured", geocodedomain.ErrProviderUnavailable)
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", geocodedomain.ErrProviderUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", geocodedomain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", geocodedomain.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", geocodedomain.ErrProviderUnavailable, err)
	}
	return nil
}
