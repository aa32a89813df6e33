// @title PulseBeat Tech API
// @version 1.0
// @description Backend for the PulseBeat Tech audio store and its support chatbot.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"pulsebeat_backend/internal/app"
	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("database migration finished, exiting")
		return
	}

	application.Run()
}
