package migration

import (
	"strings"

	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
	"github.com/simplegeohq/simplegeoapi/internal/config"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
	"github.com/simplegeohq/simplegeoapi/internal/seed"
	usagedomain "github.com/simplegeohq/simplegeoapi/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments get the gorm-derived schema;
			// versioned SQL is maintained for postgres only.
			if err := conn.AutoMigrate(
				&accountdomain.Account{},
				&accountdomain.Subscription{},
				&geocodedomain.GeocodeEntry{},
				&usagedomain.UsageRecord{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoAccount {
			return seed.EnsureDemoAccount(conn, log)
		}
		return nil
	}),
)
