package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Config{
		DBDriver:      "postgres",
		DBPath:        "/tmp/tasks.db",
		DBDSN:         "postgres://localhost/tasks",
		WebEnabled:    true,
		WebPort:       9090,
		AuthSecret:    "secret",
		DefaultView:   "today",
		DefaultStatus: "active",
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.DSN() != want.DBDSN {
		t.Fatalf("expected postgres dsn, got %q", got.DSN())
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := Save(path, Config{DBDriver: "sqlite", DBPath: "file.db", WebPort: 8080, DefaultView: "inbox", DefaultStatus: "all"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Setenv("TODOBREEZE_DB_PATH", "env.db")
	t.Setenv("TODOBREEZE_WEB_PORT", "7070")
	t.Setenv("TODOBREEZE_WEB_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.WebPort != 7070 || !cfg.WebEnabled {
		t.Fatalf("expected env web settings, got %+v", cfg)
	}
	if cfg.DSN() != "env.db" {
		t.Fatalf("expected sqlite dsn to be the db path, got %q", cfg.DSN())
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to be valid: %v", err)
	}

	cfg.DBDriver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported driver to be rejected")
	}

	cfg = Default()
	cfg.WebPort = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid port to be rejected")
	}

	cfg = Default()
	cfg.DBDriver = "postgres"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "db_dsn") {
		t.Fatalf("expected missing postgres dsn to name db_dsn, got %v", err)
	}
	cfg.DBDSN = "postgres://localhost/tasks"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected postgres with dsn to be valid: %v", err)
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}
