package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrator_LoadMigrations(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"002_alerts.sql":   "CREATE TABLE alerts ();",
		"001_readings.sql": "CREATE TABLE readings ();",
		"notes.txt":        "not a migration",
		"seed.sql":         "no version prefix",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "readings" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "alerts" {
		t.Errorf("unexpected second migration: %+v", migrations[1])
	}
	if migrations[0].SQL != "CREATE TABLE readings ();" {
		t.Errorf("unexpected SQL: %q", migrations[0].SQL)
	}
}

func TestMigrator_LoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, filepath.Join(t.TempDir(), "nope"))
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
