package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/gantt/internal/cli"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	observer := service.NewLogUseCaseObserver(logger)

	// One in-memory collection per process; each session reloads it from
	// the opened file or database.
	repo := repository.NewMemoryTaskRepo(nil)

	app := &cli.App{
		Layout:     service.NewLayoutService(repo, observer),
		Tasks:      service.NewTaskService(repo, observer),
		Config:     cfg,
		Logger:     logger,
		OpenSource: repository.OpenSource,
		Today:      domain.Today,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
