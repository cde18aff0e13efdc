package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load applies, in order, the config file, the dotenv file, and TODO_*
// environment variables on top of the current values, then validates.
// Missing files are not an error.
func (c *Config) Load() error {
	if err := c.loadFile(); err != nil {
		return err
	}

	// Variables already set in the environment take precedence over .env.
	if err := godotenv.Load(c.EnvPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", c.EnvPath(), err)
	}

	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.Storage.Backend, "TODO_STORAGE_BACKEND")
	setString(&c.Storage.Path, "TODO_STORAGE_PATH")
	setString(&c.Storage.DSN, "TODO_STORAGE_DSN")
	setString(&c.Storage.Key, "TODO_STORAGE_KEY")
	setString(&c.Storage.Addr, "TODO_REDIS_ADDR")
	setString(&c.Storage.Password, "TODO_REDIS_PASSWORD")
	setString(&c.Edit.Blank, "TODO_EDIT_BLANK")
	setString(&c.Sort.Dates, "TODO_SORT_DATES")
	setString(&c.Log.Level, "TODO_LOG_LEVEL")
	setString(&c.Log.Format, "TODO_LOG_FORMAT")
	setString(&c.Remote.List, "TODO_REMOTE_LIST")

	if v := os.Getenv("TODO_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid TODO_REDIS_DB: %s", v)
		}
		c.Storage.DB = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

// Validate checks enumerated settings and required connection parameters.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendMySQL, BackendPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s backend", c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.Addr == "" {
			return fmt.Errorf("storage.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage.key must not be empty")
	}

	switch c.Edit.Blank {
	case BlankKeep, BlankClear:
	default:
		return fmt.Errorf("invalid edit.blank: %s (want keep or clear)", c.Edit.Blank)
	}

	switch c.Sort.Dates {
	case DatesCalendar, DatesLexical:
	default:
		return fmt.Errorf("invalid sort.dates: %s (want calendar or lexical)", c.Sort.Dates)
	}
	return nil
}
