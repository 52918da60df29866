// Package config loads settings from defaults, a TOML file and TODOS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	envPrefix  = "TODOS"
	configEnv  = "TODOS_CONFIG"
	appDirName = "todos"
	dbFileName = "todos.db"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" toml:"driver"`
	Path   string `mapstructure:"path" toml:"path"` // empty: per-user data dir
	Key    string `mapstructure:"key" toml:"key"`
}

// LogConfig holds diagnostic logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level" toml:"level"`
	Format     string `mapstructure:"format" toml:"format"`
	Timestamps bool   `mapstructure:"timestamps" toml:"timestamps"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `mapstructure:"theme" toml:"theme"`
}

// Load reads configuration. An explicit path must exist; otherwise
// $TODOS_CONFIG is tried, then <user config dir>/todos/config.toml, and a
// missing default file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.key", "tasks")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.timestamps", false)
	v.SetDefault("ui.theme", "classic")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(configEnv)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appDirName))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	return c, nil
}

// Validate rejects settings no backend can serve.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("storage.driver: unknown driver %q (want file, sqlite or memory)", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key: must not be empty")
	}
	return nil
}

// StoragePath resolves where the configured backend keeps its data: a
// directory for the file driver, a database file for sqlite.
func (c Config) StoragePath() (string, error) {
	p := c.Storage.Path
	if p == "" {
		dir, err := DataDir()
		if err != nil {
			return "", err
		}
		p = dir
		if c.Storage.Driver == DriverSQLite {
			p = filepath.Join(dir, dbFileName)
		}
	}
	return expandHome(p), nil
}

// WriteTOML encodes the configuration as TOML.
func (c Config) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// DataDir returns $XDG_DATA_HOME/todos, falling back to ~/.local/share/todos.
func DataDir() (string, error) {
	if x := os.Getenv("XDG_DATA_HOME"); x != "" {
		return filepath.Join(x, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
