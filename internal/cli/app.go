package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	"github.com/pacedog/pacedog/internal/config"
	"github.com/pacedog/pacedog/internal/logging"
	"github.com/pacedog/pacedog/internal/repositories/stores"
	"github.com/pacedog/pacedog/internal/services"
	"github.com/pacedog/pacedog/internal/timer"

	_ "modernc.org/sqlite"
)

// App is the interactive front end. It owns the stopwatch engine and talks to
// the core through the tracker service; all rendering happens here.
type App struct {
	config  *config.Config
	tracker services.TrackerService
	engine  *timer.Engine
	repo    *stores.SQLiteRepository
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	repo, err := stores.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	tracker, err := services.NewTrackerService(ctx, repo, logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &App{
		config:  c,
		tracker: tracker,
		engine:  timer.New(),
		repo:    repo,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.repo.Close() }()
	a.Root(ctx)
}
