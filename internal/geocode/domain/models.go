// Package domain contains the geocode cache model and the pure address
// normalization primitives.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// GeocodeEntry is one resolved address. Entries are written once on first
// resolution and never mutated; AddressHash uniquely determines the row.
// Address holds the provider's formatted display address, while AddressHash
// fingerprints the normalized form.
type GeocodeEntry struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	AddressHash string       `gorm:"column:address_hash;type:text;not null;uniqueIndex"`
	Address     string       `gorm:"type:text;not null"`
	Latitude    float64      `gorm:"not null;index"`
	Longitude   float64      `gorm:"not null;index"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (GeocodeEntry) TableName() string { return "geocode_entries" }
