package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/theme"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		UI
		Covers
		Tasks
		Session
		RateLimit
		Demo
		TUI
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		Source      CatalogSource
		Path        string // JSON dataset, used when Source is "json"
		PostgresDSN string
		SeedSample  bool // store the embedded sample when the SQLite catalog is empty
	}
	UI struct {
		BooksPerPage  int
		TemplatesPath string // empty means the templates compiled into the binary
		DefaultTheme  theme.Theme
	}
	Covers struct {
		Enabled      bool
		Dir          string
		WarmSchedule string // Cron format: "0 */6 * * *" = every 6 hours
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
		CSRFSecret    string
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}
	Demo struct {
		Enabled bool // Reject catalog-changing requests
	}
	TUI struct {
		LogPath string
	}
)

// loadEnvFile reads KEY=VALUE pairs into the process environment. Variables
// that are already set win; a missing file is not an error.
func loadEnvFile(v *viper.Viper) {
	path := v.GetString("BOOKSHELF_ENV_FILE")
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Failed to load env file %s: %v", path, err)
		}
		return
	}
	log.Printf("Loaded environment from %s", path)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("bookshelf_env_file", DefaultEnvFile)
	loadEnvFile(v)

	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("catalog_source", string(CatalogSourceSQLite))
	v.SetDefault("catalog_path", "")
	v.SetDefault("catalog_postgres_dsn", "")
	v.SetDefault("catalog_seed_sample", true)

	v.SetDefault("books_per_page", DefaultBooksPerPage)
	v.SetDefault("templates_path", "")
	v.SetDefault("default_theme", string(theme.Day))

	v.SetDefault("covers_enabled", false)
	v.SetDefault("covers_dir", "./covers")
	v.SetDefault("covers_warm_schedule", "0 */6 * * *") // Every 6 hours

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", false)
	v.SetDefault("csrf_secret", "") // CSRF protection is off when empty

	v.SetDefault("api_rate_limit_rps", 20)
	v.SetDefault("api_rate_limit_burst", 40)

	v.SetDefault("demo_mode", false)
	v.SetDefault("tui_log_path", "./bookshelf-tui.log")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			Source:      CatalogSource(v.GetString("CATALOG_SOURCE")),
			Path:        v.GetString("CATALOG_PATH"),
			PostgresDSN: v.GetString("CATALOG_POSTGRES_DSN"),
			SeedSample:  v.GetBool("CATALOG_SEED_SAMPLE"),
		},
		UI: UI{
			BooksPerPage:  v.GetInt("BOOKS_PER_PAGE"),
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			DefaultTheme:  theme.Theme(v.GetString("DEFAULT_THEME")),
		},
		Covers: Covers{
			Enabled:      v.GetBool("COVERS_ENABLED"),
			Dir:          v.GetString("COVERS_DIR"),
			WarmSchedule: v.GetString("COVERS_WARM_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		RateLimit: RateLimit{
			RPS:   v.GetFloat64("API_RATE_LIMIT_RPS"),
			Burst: v.GetInt("API_RATE_LIMIT_BURST"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
		TUI: TUI{
			LogPath: v.GetString("TUI_LOG_PATH"),
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogSourceSQLite:
	case CatalogSourceJSON:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_SOURCE is %q", c.Catalog.Source)
		}
	case CatalogSourcePostgres:
		if c.Catalog.PostgresDSN == "" {
			return fmt.Errorf("CATALOG_POSTGRES_DSN is required when CATALOG_SOURCE is %q", c.Catalog.Source)
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}

	if c.UI.BooksPerPage <= 0 {
		return fmt.Errorf("BOOKS_PER_PAGE must be positive, got %d", c.UI.BooksPerPage)
	}
	if _, err := theme.Parse(string(c.UI.DefaultTheme)); err != nil {
		return fmt.Errorf("DEFAULT_THEME: %w", err)
	}
	if c.Covers.Enabled {
		if c.Covers.Dir == "" {
			return fmt.Errorf("COVERS_DIR is required when covers are enabled")
		}
		if err := scheduler.ValidateCronSchedule(c.Covers.WarmSchedule); err != nil {
			return fmt.Errorf("COVERS_WARM_SCHEDULE: %w", err)
		}
	}
	if c.Session.CSRFSecret != "" && len(c.Session.CSRFSecret) != 32 {
		return fmt.Errorf("CSRF_SECRET must be exactly 32 bytes")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("API rate limit must not be negative")
	}
	return nil
}
