package repository

import (
	"context"
	"errors"

	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) geocodedomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByFingerprint(ctx context.Context, fingerprint string) (*geocodedomain.GeocodeEntry, error) {
	var entry geocodedomain.GeocodeEntry
	err := r.db.WithContext(ctx).
		Where("address_hash = ?", fingerprint).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) FindByCoordinates(ctx context.Context, lat, lng float64) (*geocodedomain.GeocodeEntry, error) {
	var entry geocodedomain.GeocodeEntry
	err := r.db.WithContext(ctx).
		Where("latitude = ? AND longitude = ?", lat, lng).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// UpsertIfAbsent relies on the unique index on address_hash: the insert is a
// no-op on conflict, and the winner's row is fetched back. Two racing first
// writers for the same fingerprint converge on one row.
func (r *repo) UpsertIfAbsent(ctx context.Context, entry *geocodedomain.GeocodeEntry) (*geocodedomain.GeocodeEntry, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address_hash"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return entry, nil
	}

	existing, err := r.FindByFingerprint(ctx, entry.AddressHash)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Conflict row vanished between insert and fetch; surface the
		// caller's entry rather than failing the request.
		return entry, nil
	}
	return existing, nil
}
