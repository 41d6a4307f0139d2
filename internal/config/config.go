package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when reading environment overrides,
// so db_path is read from TODOBREEZE_DB_PATH.
const EnvPrefix = "TODOBREEZE"

const (
	keyDBDriver      = "db_driver"
	keyDBPath        = "db_path"
	keyDBDSN         = "db_dsn"
	keyWebEnabled    = "web_enabled"
	keyWebPort       = "web_port"
	keyAuthSecret    = "auth_secret"
	keyDefaultView   = "default_view"
	keyDefaultStatus = "default_status"
)

type Config struct {
	DBDriver      string `json:"db_driver"`
	DBPath        string `json:"db_path"`
	DBDSN         string `json:"db_dsn,omitempty"`
	WebEnabled    bool   `json:"web_enabled"`
	WebPort       int    `json:"web_port"`
	AuthSecret    string `json:"auth_secret,omitempty"`
	DefaultView   string `json:"default_view"`
	DefaultStatus string `json:"default_status"`
}

func Default() Config {
	return Config{
		DBDriver:      "sqlite",
		WebPort:       8080,
		DefaultView:   "inbox",
		DefaultStatus: "all",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "todobreeze", "config.json"), nil
}

// DefaultDBPath places the sqlite file next to the config file.
func DefaultDBPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "todobreeze.db")
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// DSN is the connection string handed to the database driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DBDSN
	}
	return c.DBPath
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("db_dsn is required for the postgres driver")
	}
	if c.WebPort <= 0 || c.WebPort > 65535 {
		return fmt.Errorf("web_port must be between 1 and 65535, got %d", c.WebPort)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault(keyDBDriver, defaults.DBDriver)
	v.SetDefault(keyDBPath, defaults.DBPath)
	v.SetDefault(keyDBDSN, defaults.DBDSN)
	v.SetDefault(keyWebEnabled, defaults.WebEnabled)
	v.SetDefault(keyWebPort, defaults.WebPort)
	v.SetDefault(keyAuthSecret, defaults.AuthSecret)
	v.SetDefault(keyDefaultView, defaults.DefaultView)
	v.SetDefault(keyDefaultStatus, defaults.DefaultStatus)
	return v
}

// Load reads the config file at path, if it exists, and applies environment
// overrides on top of it.
func Load(path string) (Config, error) {
	v := newViper()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	cfg := Config{
		DBDriver:      strings.ToLower(strings.TrimSpace(v.GetString(keyDBDriver))),
		DBPath:        v.GetString(keyDBPath),
		DBDSN:         v.GetString(keyDBDSN),
		WebEnabled:    v.GetBool(keyWebEnabled),
		WebPort:       v.GetInt(keyWebPort),
		AuthSecret:    v.GetString(keyAuthSecret),
		DefaultView:   v.GetString(keyDefaultView),
		DefaultStatus: v.GetString(keyDefaultStatus),
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = Default().DBDriver
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set(keyDBDriver, cfg.DBDriver)
	v.Set(keyDBPath, cfg.DBPath)
	v.Set(keyWebEnabled, cfg.WebEnabled)
	v.Set(keyWebPort, cfg.WebPort)
	v.Set(keyDefaultView, cfg.DefaultView)
	v.Set(keyDefaultStatus, cfg.DefaultStatus)
	if cfg.DBDSN != "" {
		v.Set(keyDBDSN, cfg.DBDSN)
	}
	if cfg.AuthSecret != "" {
		v.Set(keyAuthSecret, cfg.AuthSecret)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	// The file may hold auth_secret or a dsn with a password.
	return os.Chmod(path, 0o600)
}
