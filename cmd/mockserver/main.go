package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/companyanalyzer/internal/buildinfo"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/mockapi"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := mockapi.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(h))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := mockapi.NewServer(cfg, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error(ctx, err.Error())
	}
}
