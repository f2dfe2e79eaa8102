package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/pacedog/pacedog/internal/buildinfo"
	"github.com/pacedog/pacedog/internal/cli"
	"github.com/pacedog/pacedog/internal/config"
	"github.com/pacedog/pacedog/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
