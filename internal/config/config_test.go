package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Server.Port != 8470 {
		t.Errorf("server.port = %d, want 8470", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("database.driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Flash.Type != "memory" {
		t.Errorf("flash.type = %q, want memory", cfg.Flash.Type)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("MULTIVERSION_FLASH_TYPE", "valkey")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("flash:\n  type: memory\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Flash.Type != "valkey" {
		t.Errorf("flash.type = %q, want valkey", cfg.Flash.Type)
	}
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
