package domain

import (
	"context"
	"errors"
	"fmt"
)

// Source tells where a result came from, so handlers can phrase responses and
// batch items can carry a status.
type Source string

const (
	SourceCache    Source = "cached"
	SourceProvider Source = "new"
)

type Service interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseResult, error)
	BatchGeocode(ctx context.Context, addresses []string) ([]BatchItem, error)
	NearbyPOI(ctx context.Context, req POIRequest) ([]Place, error)
}

type GeocodeResult struct {
	Address   string
	Latitude  float64
	Longitude float64
	Source    Source
}

type ReverseResult struct {
	Address string
	Source  Source
}

// BatchItem is one outcome in a batch response. Err is set for per-address
// failures; the batch as a whole still succeeds.
type BatchItem struct {
	Address   string
	Latitude  float64
	Longitude float64
	Source    Source
	Err       error
}

type POIRequest struct {
	Latitude  float64
	Longitude float64
	Radius    int
	Type      string
}

// Place is a point of interest returned by the nearby search passthrough.
type Place struct {
	Name      string   `json:"name"`
	Vicinity  string   `json:"vicinity"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Types     []string `json:"types"`
	Rating    float64  `json:"rating,omitempty"`
}

var (
	ErrAddressRequired     = errors.New("address_required")
	ErrCoordinatesRequired = errors.New("coordinates_required")
	ErrNoResults           = errors.New("no_results")
	ErrProviderUnavailable = errors.New("provider_unavailable")
)

// ProviderStatusError reports a non-OK status string from the upstream
// geocoding API. Treated as a client error, not retried.
type ProviderStatusError struct {
	Status string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("geocoding failed: %s", e.Status)
}
