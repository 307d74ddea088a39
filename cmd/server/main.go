package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OFFIS-RIT/newsgraph/internal/bootstrap"
	"github.com/OFFIS-RIT/newsgraph/internal/config"
	"github.com/OFFIS-RIT/newsgraph/internal/server"
	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
)

func main() {
	util.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.InitLogger(config.LogConfig{}, "server")
		logger.Fatal("Invalid configuration", "err", err)
	}
	bootstrap.InitLogger(cfg.Log, "server")
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Init(ctx, cfg); err != nil {
		logger.Fatal("Server failed", "err", err)
	}
}
