package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Priya-creates/weather-widget-api/internal/app"
	"github.com/Priya-creates/weather-widget-api/internal/config"
	"github.com/Priya-creates/weather-widget-api/pkg/logger"
)

// @title Weather Widget API
// @version 1.0
// @description Server-side weather widget: city resolution, forecast fetching and unit toggling
// @host localhost:8080
// @BasePath /api/
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogsPath, "weather-widget-api")

	application := app.New(*cfg, l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		log.Panic(err)
	}
}
