// Package config loads runtime settings from defaults, an optional TOML file,
// a .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/notion"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/tracker"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Notion    NotionConfig    `toml:"notion"`
	Resources ResourcesConfig `toml:"resources"`
	Window    WindowConfig    `toml:"window"`
	Auth      AuthConfig      `toml:"auth"`
	Worker    WorkerConfig    `toml:"worker"`
}

type ServerConfig struct {
	Port            string `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	RateLimit       int    `toml:"rate_limit"`
	RateWindow      string `toml:"rate_window"`
}

type DatabaseConfig struct {
	// Store is one of memory, postgres or sqlite.
	Store string `toml:"store"`
	// SQLDriver picks the Postgres driver: pgx or postgres (lib/pq).
	SQLDriver  string `toml:"sql_driver"`
	URL        string `toml:"url"`
	Host       string `toml:"host"`
	Port       string `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	Name       string `toml:"name"`
	SSLMode    string `toml:"sslmode"`
	SQLitePath string `toml:"sqlite_path"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
}

type NotionConfig struct {
	// BaseURL is the API root without the version segment.
	Token           string  `toml:"token"`
	HabitsDatabase  string  `toml:"habits_database"`
	TrackerDatabase string  `toml:"tracker_database"`
	BaseURL         string  `toml:"base_url"`
	Version         string  `toml:"version"`
	RateLimit       float64 `toml:"rate_limit"`
	Timeout         string  `toml:"timeout"`
	NameColumn      string  `toml:"name_column"`
	FrequencyColumn string  `toml:"frequency_column"`
	KindColumn      string  `toml:"kind_column"`
	DateColumn      string  `toml:"date_column"`
}

type ResourcesConfig struct {
	CalendarFile string `toml:"calendar_file"`
	HabitsFile   string `toml:"habits_file"`
	TrackerFile  string `toml:"tracker_file"`
	StreaksFile  string `toml:"streaks_file"`
}

type WindowConfig struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

type AuthConfig struct {
	JWTSecret         string `toml:"jwt_secret"`
	Issuer            string `toml:"issuer"`
	TokenTTL          string `toml:"token_ttl"`
	AdminPasswordHash string `toml:"admin_password_hash"`
}

type WorkerConfig struct {
	// Interval is empty or "0" for manual syncs only.
	Interval  string `toml:"interval"`
	QueueSize int    `toml:"queue_size"`
	OnStart   bool   `toml:"on_start"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     "10s",
			WriteTimeout:    "10s",
			ShutdownTimeout: "5s",
			RateLimit:       100,
			RateWindow:      "1m",
		},
		Database: DatabaseConfig{
			Store:      StoreMemory,
			SQLDriver:  "pgx",
			Host:       "localhost",
			Port:       "5432",
			User:       "kanso_user",
			Name:       "kanso_db",
			SSLMode:    "disable",
			SQLitePath: "data/streaks.db",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			PoolSize: 10,
		},
		Notion: NotionConfig{
			BaseURL:         notion.DefaultBaseURL,
			Version:         notion.DefaultVersion,
			RateLimit:       notion.DefaultRate,
			Timeout:         "30s",
			NameColumn:      "Short Name",
			FrequencyColumn: "Frequency",
			KindColumn:      "Check",
			DateColumn:      "Date",
		},
		Resources: ResourcesConfig{
			CalendarFile: "resources/calendar.csv",
			StreaksFile:  "resources/streaks.csv",
		},
		Window: WindowConfig{
			From: "2025-01-01",
		},
		Auth: AuthConfig{
			Issuer:   "kanso-streaks",
			TokenTTL: "24h",
		},
		Worker: WorkerConfig{
			Interval:  "1h",
			QueueSize: 8,
		},
	}
}

// Load builds the configuration. path may be empty; a missing .env file is not
// an error, a missing TOML file is.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			log.Printf("[CONFIG] Ignoring unknown key %q in %s", key.String(), path)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Database.Store, "STREAK_STORE")
	setString(&c.Database.SQLDriver, "DB_DRIVER")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Database.SQLitePath, "SQLITE_PATH")
	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Notion.Token, "NOTION_TOKEN")
	setString(&c.Notion.HabitsDatabase, "NOTION_HABITS_DB")
	setString(&c.Notion.TrackerDatabase, "NOTION_TRACKER_DB")
	setString(&c.Resources.CalendarFile, "CALENDAR_FILE")
	setString(&c.Resources.StreaksFile, "STREAKS_FILE")
	setString(&c.Window.From, "WINDOW_FROM")
	setString(&c.Window.To, "WINDOW_TO")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.AdminPasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&c.Worker.Interval, "SYNC_INTERVAL")

	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: REDIS_ENABLED: %v", ErrInvalidConfig, err)
		}
		c.Redis.Enabled = enabled
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: REDIS_DB: %v", ErrInvalidConfig, err)
		}
		c.Redis.DB = db
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Database.SQLDriver != "pgx" && c.Database.SQLDriver != "postgres" {
			problems = append(problems, fmt.Sprintf("database.sql_driver %q must be pgx or postgres", c.Database.SQLDriver))
		}
	default:
		problems = append(problems, fmt.Sprintf("database.store %q must be memory, postgres or sqlite", c.Database.Store))
	}

	durations := map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"server.rate_window":      c.Server.RateWindow,
		"notion.timeout":          c.Notion.Timeout,
		"auth.token_ttl":          c.Auth.TokenTTL,
		"worker.interval":         c.Worker.Interval,
	}
	keys := make([]string, 0, len(durations))
	for key := range durations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := parseDuration(durations[key]); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
	}

	if _, err := c.SyncWindow(); err != nil {
		problems = append(problems, err.Error())
	}

	if c.Worker.QueueSize < 1 {
		problems = append(problems, "worker.queue_size must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// parseDuration treats an empty value as zero.
func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

func mustDuration(raw string) time.Duration {
	d, _ := parseDuration(raw)
	return d
}

func (s ServerConfig) Timeouts() (read, write, shutdown time.Duration) {
	return mustDuration(s.ReadTimeout), mustDuration(s.WriteTimeout), mustDuration(s.ShutdownTimeout)
}

func (s ServerConfig) RateWindowDuration() time.Duration { return mustDuration(s.RateWindow) }
func (n NotionConfig) TimeoutDuration() time.Duration    { return mustDuration(n.Timeout) }
func (a AuthConfig) TTL() time.Duration                  { return mustDuration(a.TokenTTL) }
func (w WorkerConfig) IntervalDuration() time.Duration   { return mustDuration(w.Interval) }

// Validate checks the settings the API server needs to issue tokens. The CLI
// never signs tokens, so it is not part of Config.Validate.
func (a AuthConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(a.JWTSecret) == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	if ttl, err := parseDuration(a.TokenTTL); err == nil && ttl <= 0 {
		problems = append(problems, "auth.token_ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SyncWindow parses the inclusive date window. Empty bounds are open.
func (c *Config) SyncWindow() (tracker.Window, error) {
	var w tracker.Window
	var err error
	if c.Window.From != "" {
		if w.From, err = domain.ParseDate(c.Window.From); err != nil {
			return w, fmt.Errorf("window.from: %w", err)
		}
	}
	if c.Window.To != "" {
		if w.To, err = domain.ParseDate(c.Window.To); err != nil {
			return w, fmt.Errorf("window.to: %w", err)
		}
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return w, fmt.Errorf("window.to %s is before window.from %s", c.Window.To, c.Window.From)
	}
	return w, nil
}

// DSN returns the Postgres connection string or the SQLite file path,
// depending on the configured store.
func (d DatabaseConfig) DSN() string {
	if d.Store == StoreSQLite {
		return d.SQLitePath
	}
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Driver is the database/sql driver name for the configured store.
func (d DatabaseConfig) Driver() string {
	if d.Store == StoreSQLite {
		return "sqlite"
	}
	return d.SQLDriver
}

func (n NotionConfig) Configured() bool {
	return n.Token != "" && n.HabitsDatabase != "" && n.TrackerDatabase != ""
}
