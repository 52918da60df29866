package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Makepad-fr/todos/internal/cli"
	"github.com/Makepad-fr/todos/internal/config"
	"github.com/Makepad-fr/todos/internal/logging"
	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/storage"
	"github.com/Makepad-fr/todos/internal/storage/filekv"
	"github.com/Makepad-fr/todos/internal/storage/sqlitekv"
	"github.com/Makepad-fr/todos/internal/store"
	"github.com/Makepad-fr/todos/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file (default $TODOS_CONFIG or <user config dir>/todos/config.toml)")
	driver := flag.String("storage", "", "storage driver: file, sqlite or memory")
	path := flag.String("path", "", "storage location (directory for file, database for sqlite)")
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	logLevel := flag.String("log-level", "", "diagnostic log level: debug, info, warn, error")
	groupPending := flag.Bool("group", false, "group output by pending/done")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stdout)
		os.Exit(cli.ExitUsage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(cli.ExitError)
	}
	if *driver != "" {
		cfg.Storage.Driver = strings.ToLower(*driver)
	}
	if *path != "" {
		cfg.Storage.Path = *path
	}
	if *theme != "" {
		cfg.UI.Theme = *theme
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(cli.ExitUsage)
	}
	ui.SetTheme(cfg.UI.Theme)

	logger := logging.New(os.Stderr, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Timestamps: cfg.Log.Timestamps,
		Prefix:     "todos",
	})

	kv, err := openStorage(cfg)
	if err != nil {
		ui.Fail(os.Stderr, "storage: "+err.Error())
		os.Exit(cli.ExitError)
	}

	s := store.Open(kv, store.WithKey(cfg.Storage.Key), store.WithLogger(logger))
	s.Subscribe(func(tasks []model.Task) {
		logger.Debug("tasks changed", "tasks", len(tasks))
	})

	code := cli.Run(args, cli.Options{
		Group:  *groupPending,
		Store:  s,
		Config: cfg,
	})
	if err := kv.Close(); err != nil {
		logger.Warn("close storage", "err", err)
	}
	os.Exit(code)
}

func openStorage(cfg config.Config) (storage.KV, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		return storage.NewMemory(), nil
	}
	p, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		return sqlitekv.Open(p)
	default:
		return filekv.Open(p)
	}
}
