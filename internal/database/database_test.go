package database

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults_to_sqlite", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "")
		cfg, err := NewConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Driver != DriverSQLite {
			t.Errorf("expected sqlite driver, got %s", cfg.Driver)
		}
	})

	t.Run("rejects_unknown_driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		if _, err := NewConfig(); err == nil {
			t.Error("expected error for unknown driver")
		}
	})

	t.Run("postgres_urls", func(t *testing.T) {
		cfg := &Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "ledger", Password: "p@ss", DBName: "finflow", SSLMode: "disable"}
		if !strings.Contains(cfg.DSN(), "host=db port=5432 user=ledger") {
			t.Errorf("unexpected DSN: %s", cfg.DSN())
		}
		want := "postgres://ledger:p%40ss@db:5432/finflow?sslmode=disable"
		if got := cfg.MigrationURL(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}

func TestSQLiteManagerMigrate(t *testing.T) {
	cfg := &Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "ledger.db")}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	defer func() { _ = m.Close() }()

	if err := m.Migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var count int64
	for _, table := range []string{"transactions", "categories", "audit_logs"} {
		if err := m.DB().Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}
