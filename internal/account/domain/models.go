// Package domain contains persistence models for caller accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account identifies an API caller. The raw API key is never stored, only its
// SHA-256 hash.
type Account struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	Email      string       `gorm:"type:text;not null;uniqueIndex"`
	Name       string       `gorm:"type:text;not null"`
	Role       string       `gorm:"type:text;not null;default:user"`
	APIKeyHash string       `gorm:"column:api_key_hash;type:text;not null;uniqueIndex"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription captures an account's plan and current billing period. At most
// one row per account.
type Subscription struct {
	ID                 snowflake.ID       `gorm:"primaryKey"`
	AccountID          snowflake.ID       `gorm:"not null;uniqueIndex"`
	Plan               string             `gorm:"type:text;not null"`
	Status             SubscriptionStatus `gorm:"type:text;not null;index"`
	CurrentPeriodStart *time.Time         `gorm:""`
	CurrentPeriodEnd   *time.Time         `gorm:""`
	CreatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
