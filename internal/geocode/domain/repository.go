package domain

import "context"

// Repository is the persistent read-through cache for resolved addresses.
type Repository interface {
	// FindByFingerprint returns the cached entry or nil on miss.
	FindByFingerprint(ctx context.Context, fingerprint string) (*GeocodeEntry, error)
	// FindByCoordinates looks up an entry by exact latitude/longitude
	// equality.
	FindByCoordinates(ctx context.Context, lat, lng float64) (*GeocodeEntry, error)
	// UpsertIfAbsent inserts the entry unless a row with the same
	// fingerprint already exists, in which case the existing row is
	// returned. A unique-constraint conflict from a racing writer is a
	// success, never an error.
	UpsertIfAbsent(ctx context.Context, entry *GeocodeEntry) (*GeocodeEntry, error)
}

// Provider is the upstream geocoding API client.
type Provider interface {
	Resolve(ctx context.Context, address string) (*ProviderResult, error)
	ReverseResolve(ctx context.Context, lat, lng float64) (*ProviderResult, error)
	NearbySearch(ctx context.Context, req POIRequest) ([]Place, error)
}

// ProviderResult is one candidate returned by the upstream API.
type ProviderResult struct {
	FormattedAddress string
	Latitude         float64
	Longitude        float64
}
