// Package main - Entry point for the recipe-cost API server
package main

import (
	"flag"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"recipe-cost/api"
	"recipe-cost/db"
	"recipe-cost/internal/config"
	"recipe-cost/internal/logging"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", "", "server address (overrides config)")
	cfgFile := flag.String("config", "", "config file path")
	dbPath := flag.String("db", "", "database path (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			logging.Fatal("load config", zap.Error(err))
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("init logging", zap.Error(err))
	}
	defer logging.Sync()

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Fatal("create database directory", zap.Error(err))
		}
	}

	store, err := db.Open(cfg.Database.Path)
	if err != nil {
		logging.Fatal("open store", zap.Error(err))
	}
	defer store.Close()

	server := api.NewServer(version, store)

	logging.Info("recipe-cost server starting",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("db", cfg.Database.Path))

	if err := server.ListenAndServe(cfg.Server.Addr); err != nil {
		logging.Fatal("server failed", zap.Error(err))
	}
}
