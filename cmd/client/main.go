package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/companyanalyzer/internal/buildinfo"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/cli"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/config"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closer := logging.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	app.Run(ctx)
}
