// @title MentorHub API
// @version 1.0
// @description Backend for the MentorHub mentoring and streaming platform.

// @contact.name API Support
// @contact.email suporte@mentorhub.com.br

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"mentorhub_backend/internal/app"
	"mentorhub_backend/internal/config"
	"mentorhub_backend/pkg/configwatcher"
	"mentorhub_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration finished, exiting")
		return
	}

	application.RegisterConfigCallback(func(updated *config.Config) {
		logger.Log.Info("Configuration reloaded", zap.String("mode", updated.Server.Mode))
	})
	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
