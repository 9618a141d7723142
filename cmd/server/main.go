// Package main - Entry point for the tollgrid price query server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tollgrid/api"
	"tollgrid/core/engine"
	"tollgrid/internal/config"
	"tollgrid/internal/logging"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Config file (.json, .yaml or .hcl)")
	addr := flag.String("addr", "", "Server address (default from config)")
	pricesDir := flag.String("prices-dir", "", "Root of the price lists")
	flag.Parse()

	if err := run(*configPath, *addr, *pricesDir); err != nil {
		fmt.Fprintf(os.Stderr, "tollgrid-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr, pricesDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if pricesDir != "" {
		cfg.SetPricesDir(pricesDir)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	logging.Info("tollgrid server starting", zap.String("version", version), zap.String("addr", cfg.Server.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	return api.NewServer(version, eng).ListenAndServe(ctx, cfg.Server.Addr, timeout)
}
