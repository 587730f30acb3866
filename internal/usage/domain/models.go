// Package domain defines the usage ledger: one row per billable request.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UsageRecord is one billable unit consumed by an account. Batch requests
// write one record per address.
type UsageRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	AccountID  snowflake.ID `gorm:"not null;index:idx_usage_account_ts,priority:1"`
	Endpoint   string       `gorm:"type:text;not null"`
	Method     string       `gorm:"type:varchar(10);not null"`
	StatusCode int          `gorm:"not null"`
	Timestamp  time.Time    `gorm:"not null;index:idx_usage_account_ts,priority:2"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }
