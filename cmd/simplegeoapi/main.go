package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/simplegeohq/simplegeoapi/internal/account"
	"github.com/simplegeohq/simplegeoapi/internal/clock"
	"github.com/simplegeohq/simplegeoapi/internal/config"
	"github.com/simplegeohq/simplegeoapi/internal/geocode"
	"github.com/simplegeohq/simplegeoapi/internal/migration"
	"github.com/simplegeohq/simplegeoapi/internal/observability"
	"github.com/simplegeohq/simplegeoapi/internal/quota"
	"github.com/simplegeohq/simplegeoapi/internal/ratelimit"
	"github.com/simplegeohq/simplegeoapi/internal/server"
	"github.com/simplegeohq/simplegeoapi/internal/usage"
	"github.com/simplegeohq/simplegeoapi/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains
		account.Module,
		geocode.Module,
		usage.Module,
		quota.Module,
		ratelimit.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
