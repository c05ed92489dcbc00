package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/euem/internal/buildinfo"
	"github.com/dmitrijs2005/euem/internal/client/cli"
	"github.com/dmitrijs2005/euem/internal/client/config"
	"github.com/dmitrijs2005/euem/internal/logging"
	"github.com/joho/godotenv"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// a missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.NewZap(logging.Options{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		_ = logger.Sync()
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
