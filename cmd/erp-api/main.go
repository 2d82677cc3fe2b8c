// Command erp-api serves users, orders and categories from the local
// database over HTTP, for consoles started with -api.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"erp/internal/auth"
	"erp/internal/config"
	"erp/internal/db"
	"erp/internal/logging"
	"erp/internal/server"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	var (
		configPath = flag.String("config", "", "Path to YAML config file (default: ~/.erp/config.yaml)")
		addr       = flag.String("addr", "", "Listen address (overrides server.addr)")
		dbPath     = flag.String("db", "", "Path to SQLite database file")
		issueToken = flag.String("issue-token", "", "Print a bearer token for the given subject and exit")
		tokenTTL   = flag.Duration("token-ttl", 30*24*time.Hour, "Lifetime of tokens printed by -issue-token")
		debug      = flag.Bool("debug", false, "Enable gin debug mode and debug logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	if *issueToken != "" {
		if cfg.Server.Token == "" {
			fmt.Fprintln(os.Stderr, "Error: server.token must be set to issue tokens")
			os.Exit(1)
		}
		token, err := auth.NewVerifier([]byte(cfg.Server.Token)).Generate(*issueToken, *tokenTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logFile := cfg.Logging.File
	if logFile != "" {
		logFile = strings.TrimSuffix(logFile, filepath.Ext(logFile)) + "-api.log"
	}
	if err := logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		File:       logFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
		JSON:       strings.EqualFold(cfg.Logging.Format, "json"),
		Stderr:     true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	log := logging.Log

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer database.Close()

	if cfg.Database.Seed {
		if err := db.Seed(context.Background(), database, db.DefaultSeedUsers, db.DefaultSeedOrders); err != nil {
			log.WithError(err).Fatal("failed to seed database")
		}
	}

	if cfg.Server.Token == "" {
		log.Warn("server.token is empty; the API is served without authentication")
	}
	router := server.New(db.Sources(database), server.Options{Secret: cfg.Server.Token, Debug: *debug})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).WithField("version", version).Info("starting erp-api")
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("received interrupt signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	log.Info("erp-api exiting")
}

func loadConfig(path string) (*config.Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".erp")
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	} else {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	cfg, err := config.LoadOrDefault(path, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v := os.Getenv("ERP_SERVER_TOKEN"); v != "" && cfg.Server.Token == "" {
		cfg.Server.Token = v
	}
	return cfg, nil
}
