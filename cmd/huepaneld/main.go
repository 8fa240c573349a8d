package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/huepanel/internal/app"
	"github.com/wheelibin/huepanel/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {

	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename: cfg.LogFile,
			MaxSize:  10,
			MaxAge:   3,
		})
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
		TimeFormat:      "2006/01/02 15:04:05",
	})
	logger.Info("huepaneld starting", "bridge", cfg.BridgeIP, "port", cfg.Port, "db", cfg.DB.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.NewApp(logger, *cfg)
	if err := a.Initialise(ctx); err != nil {
		logger.Fatal("Couldn't start", "err", err)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("huepaneld stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("huepaneld is closing")
}
