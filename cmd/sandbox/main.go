package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dmitrijs2005/rosterctl/internal/buildinfo"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
	"github.com/dmitrijs2005/rosterctl/internal/server"
	"github.com/dmitrijs2005/rosterctl/internal/server/config"
	"github.com/dmitrijs2005/rosterctl/internal/telemetry"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()

	zl := logging.NewZap(cfg.LogLevel, cfg.LogEncoding, os.Stdout)
	defer func() { _ = zl.Sync() }()

	shutdown := telemetry.Setup(ctx, "rosterctl-sandbox", logging.NewZapLogger(zl))
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			zl.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	app, err := server.NewApp(ctx, cfg, zl)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}
}
