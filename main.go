package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"erp/cmd"
	"erp/internal/analytics"
	"erp/internal/api"
	"erp/internal/config"
	"erp/internal/db"
	"erp/internal/kv"
	"erp/internal/logging"
	"erp/internal/model"
	"erp/internal/table"
	"erp/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmoiron/sqlx"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	opts, err := cmd.ParseFlags(version)
	if errors.Is(err, cmd.ErrVersion) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := opts.Config

	if err := logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
		JSON:       strings.EqualFold(cfg.Logging.Format, "json"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	logging.Log.WithField("version", version).Info("starting erp")

	// Open the local database when it holds the rows or the table state.
	var database *sqlx.DB
	if !cfg.Remote() || cfg.State.Backend == config.BackendSQLite {
		database, err = db.Open(cfg.Database.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()
	}

	sources, err := openSources(cfg, database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	backend, closeBackend, err := openStateBackend(cfg, database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open table state: %v\n", err)
		os.Exit(1)
	}
	defer closeBackend()
	store := table.NewStore(backend)

	app := ui.New(sources, store, ui.Options{
		PageSize:     cfg.Table.PageSize,
		Debounce:     cfg.Table.Debounce,
		FetchTimeout: cfg.Table.FetchTimeout,
		PrefsDir:     opts.Dir,
		KeepState:    cfg.State.PersistAcrossSessions,
		Embed: analytics.Embed{
			SiteURL:     cfg.Metabase.SiteURL,
			SecretKey:   cfg.Metabase.SecretKey,
			DashboardID: cfg.Metabase.DashboardID,
			TTL:         cfg.Metabase.TTL,
		},
	})

	// Create and run Bubble Tea app
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, runErr := p.Run()

	// Covers exits that bypass the quit key, such as a killed program.
	if !cfg.State.PersistAcrossSessions {
		store.ClearAll()
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		logging.Log.WithError(runErr).Error("app exited with error")
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", runErr)
		os.Exit(1)
	}
	logging.Log.Info("erp exited")
}

func openSources(cfg *config.Config, database *sqlx.DB) (model.Sources, error) {
	if cfg.Remote() {
		client := api.NewClient(cfg.API.BaseURL, cfg.API.Token,
			api.WithTimeout(cfg.API.Timeout),
			api.WithRateLimit(cfg.API.RatePerSecond, cfg.API.Burst),
		)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			return model.Sources{}, fmt.Errorf("erp-api at %s is not reachable: %w", cfg.API.BaseURL, err)
		}
		return client.Sources(), nil
	}

	if cfg.Database.Seed {
		if err := db.Seed(context.Background(), database, db.DefaultSeedUsers, db.DefaultSeedOrders); err != nil {
			return model.Sources{}, err
		}
	}
	return db.Sources(database), nil
}

// openStateBackend picks the table state persistence. The sqlite backend
// shares the database handle and has nothing of its own to close.
func openStateBackend(cfg *config.Config, database *sqlx.DB) (table.Persistence, func() error, error) {
	switch cfg.State.Backend {
	case config.BackendPudge:
		p, err := kv.OpenPudge(cfg.State.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case config.BackendMemory:
		m := kv.NewMemory()
		return m, m.Close, nil
	default:
		return db.NewStateKV(database), func() error { return nil }, nil
	}
}
