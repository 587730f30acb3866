// Package seed bootstraps a demo account for local development.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	"github.com/simplegeohq/simplegeoapi/internal/plan"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoEmail = "demo@simplegeo.local"
	demoName  = "Demo Account"
)

// EnsureDemoAccount creates the demo account if it does not exist. The raw
// API key is logged exactly once, at creation; re-runs are silent.
func EnsureDemoAccount(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing accountdomain.Account
		err := tx.Where("email = ?", demoEmail).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		rawKey := "sg_live_" + hex.EncodeToString(buf)

		now := time.Now().UTC()
		account := &accountdomain.Account{
			ID:         node.Generate(),
			Email:      demoEmail,
			Name:       demoName,
			Role:       "user",
			APIKeyHash: accountdomain.HashAPIKey(rawKey),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		periodStart := now
		periodEnd := now.AddDate(0, 1, 0)
		sub := &accountdomain.Subscription{
			ID:                 node.Generate(),
			AccountID:          account.ID,
			Plan:               plan.Free,
			Status:             accountdomain.SubscriptionStatusActive,
			CurrentPeriodStart: &periodStart,
			CurrentPeriodEnd:   &periodEnd,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		if log != nil {
			log.Info("seeded demo account",
				zap.String("email", demoEmail),
				zap.String("api_key", rawKey),
			)
		}
		return nil
	})
}
