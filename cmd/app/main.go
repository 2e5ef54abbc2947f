package main

import (
	"context"
	"flag"
	"log"
	"os"

	"CardScout/internal/di"
	"CardScout/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d records=%s clickhouse=%t kafka=%t redis=%t",
		cfg.Environment, cfg.Server.Port, cfg.Database.Driver,
		cfg.ClickHouse.Enabled, cfg.Kafka.Enabled, cfg.Cache.Redis.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
