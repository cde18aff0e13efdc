// Package config handles the XDG configuration directory, the config file,
// and environment overrides.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional TOML settings file in the config directory.
	ConfigFile = "config.toml"

	// EnvFile is the optional dotenv file in the config directory.
	EnvFile = ".env"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Blank edit policies.
const (
	// BlankKeep leaves a field unchanged when a blank value is submitted.
	BlankKeep = "keep"
	// BlankClear clears due date and category when a blank value is submitted.
	BlankClear = "clear"
)

// Due-date comparison modes.
const (
	// DatesCalendar compares parsed due dates chronologically.
	DatesCalendar = "calendar"
	// DatesLexical compares due dates as plain strings.
	DatesLexical = "lexical"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	Storage StorageConfig `toml:"storage"`
	Edit    EditConfig    `toml:"edit"`
	Sort    SortConfig    `toml:"sort"`
	Log     LogConfig     `toml:"log"`
	Remote  RemoteConfig  `toml:"remote"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	// Backend is one of file, sqlite, mysql, postgres, redis, memory.
	Backend string `toml:"backend"`

	// Path is the data directory (file) or database file (sqlite).
	// Relative paths resolve against the config directory.
	Path string `toml:"path"`

	// DSN is the data source name for mysql and postgres.
	DSN string `toml:"dsn"`

	// Redis connection settings.
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Key is the fixed key the task list is stored under.
	Key string `toml:"key"`
}

// EditConfig controls edit semantics.
type EditConfig struct {
	// Blank is BlankKeep or BlankClear.
	Blank string `toml:"blank"`
}

// SortConfig controls due-date comparison.
type SortConfig struct {
	// Dates is DatesCalendar or DatesLexical.
	Dates string `toml:"dates"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// RemoteConfig controls publishing to Google Tasks.
type RemoteConfig struct {
	// List is the Google Tasks list title tasks are pushed to.
	List string `toml:"list"`
}

// New creates a new Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := Default()
	cfg.Dir = dir
	return cfg, nil
}

// Default returns a Config with every setting at its default.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "data",
			Key:     "tasks",
		},
		Edit:   EditConfig{Blank: BlankKeep},
		Sort:   SortConfig{Dates: DatesCalendar},
		Log:    LogConfig{Level: "warn", Format: "text"},
		Remote: RemoteConfig{List: "todo"},
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the TOML config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnvPath returns the path to the dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// StoragePath resolves Storage.Path against the config directory.
func (c *Config) StoragePath() string {
	if c.Storage.Path == "" || filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(c.Dir, c.Storage.Path)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
