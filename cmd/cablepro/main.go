package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/internal/clock"
	"github.com/cablepro/cablepro/internal/config"
	"github.com/cablepro/cablepro/internal/migration"
	"github.com/cablepro/cablepro/internal/observability"
	"github.com/cablepro/cablepro/internal/seed"
	"github.com/cablepro/cablepro/internal/server"
	"github.com/cablepro/cablepro/pkg/db"
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

		// Domains and HTTP surface
		server.Module,

		// Startup tasks
		migration.Module,
		seed.Module,
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
