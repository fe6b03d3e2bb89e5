package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/rosterctl/internal/buildinfo"
	"github.com/dmitrijs2005/rosterctl/internal/client/cli"
	"github.com/dmitrijs2005/rosterctl/internal/client/config"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
	"github.com/dmitrijs2005/rosterctl/internal/telemetry"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("%v", err)
	}

	shutdown := telemetry.Setup(ctx, "rosterctl-console", logger)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn(context.Background(), "telemetry shutdown", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "console stopped", "error", err)
	}
}
