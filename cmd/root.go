package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"erp/internal/config"

	"github.com/joho/godotenv"
)

// ErrVersion is returned by ParseFlags after printing the version.
var ErrVersion = errors.New("version requested")

// Options holds the resolved CLI configuration.
type Options struct {
	// Dir holds the config file, onboarding settings, token and prefs.
	Dir    string
	Config *config.Config
}

type flagValues struct {
	configPath string
	dbPath     string
	apiURL     string
	apiToken   string
	state      string
	logLevel   string
	persist    bool
	version    bool
}

func parseArgs(args []string, out io.Writer) (flagValues, error) {
	var f flagValues
	fs := flag.NewFlagSet("erp", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config file (default: ~/.erp/config.yaml)")
	fs.StringVar(&f.dbPath, "db", "", "Path to SQLite database file (default: ~/.erp/erp.db)")
	fs.StringVar(&f.apiURL, "api", "", "Base URL of an erp-api server (or set ERP_API_URL)")
	fs.StringVar(&f.apiToken, "token", "", "Bearer token for the erp-api server (or set ERP_API_TOKEN)")
	fs.StringVar(&f.state, "state", "", "Table state backend: sqlite, pudge or memory")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.persist, "persist-state", false, "Keep table paging, sorting and filters after exit")
	fs.BoolVar(&f.version, "version", false, "Print version and exit")
	return f, fs.Parse(args)
}

// ParseFlags parses command-line flags and returns configuration.
//
// Precedence, lowest first: built-in defaults, config file, .env files and
// environment, onboarding answers, flags.
func ParseFlags(version string) (*Options, error) {
	// Existing environment wins over .env, and .env over .env.local.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	f, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		return nil, err
	}
	if f.version {
		fmt.Println("erp", version)
		return nil, ErrVersion
	}

	dir, err := configDir(f.configPath)
	if err != nil {
		return nil, err
	}
	configPath := f.configPath
	if configPath == "" {
		configPath = filepath.Join(dir, "config.yaml")
	}

	cfg, err := config.LoadOrDefault(configPath, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyEnv(cfg)

	settings, err := loadOnboardingSettings(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}
	if f.apiURL == "" && cfg.API.BaseURL == "" && shouldRunOnboarding(settings) {
		settings, err = runOnboarding(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}
	if err := applyOnboarding(cfg, dir, settings); err != nil {
		return nil, err
	}

	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Options{Dir: dir, Config: cfg}, nil
}

func configDir(configPath string) (string, error) {
	var dir string
	if configPath != "" {
		dir = filepath.Dir(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".erp")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

func applyEnv(cfg *config.Config) {
	if v := strings.TrimSpace(os.Getenv("ERP_API_URL")); v != "" && cfg.API.BaseURL == "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ERP_API_TOKEN")); v != "" && cfg.API.Token == "" {
		cfg.API.Token = v
	}
}

func applyOnboarding(cfg *config.Config, dir string, settings OnboardingSettings) error {
	if settings.Source == sourceRemote && cfg.API.BaseURL == "" {
		cfg.API.BaseURL = settings.APIURL
	}
	if cfg.Remote() && cfg.API.Token == "" {
		token, err := loadSecureAPIToken(dir)
		if err != nil {
			return fmt.Errorf("failed to load secure API token: %w", err)
		}
		cfg.API.Token = token
	}
	return nil
}

func applyFlags(cfg *config.Config, f flagValues) {
	if f.dbPath != "" {
		cfg.Database.Path = f.dbPath
	}
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}
	if f.apiToken != "" {
		cfg.API.Token = f.apiToken
	}
	if f.state != "" {
		cfg.State.Backend = f.state
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.persist {
		cfg.State.PersistAcrossSessions = true
	}
}
