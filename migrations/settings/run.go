package main

import (
	"context"
	"embed"
	"os"

	"github.com/ghuser/workcosts/pkg/config"
	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	err = migrator.Run(context.Background(), cfg.DatabaseURL, log, migrator.Source{
		Name:         "settings",
		VersionTable: "settings_goose_db_version",
		FS:           MigrationsFS,
	})
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
