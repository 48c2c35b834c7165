package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sambatan/internal/clock"
	"github.com/smallbiznis/sambatan/internal/config"
	"github.com/smallbiznis/sambatan/internal/migration"
	"github.com/smallbiznis/sambatan/internal/server"
	"github.com/smallbiznis/sambatan/pkg/db"
	"github.com/smallbiznis/sambatan/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
