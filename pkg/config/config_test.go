package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != DefaultPort {
		t.Errorf("default port = %d", cfg.Port)
	}
	if cfg.Log == nil || cfg.Log.Level != "info" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("Overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		data := `{"port": 0, "portFile": "/tmp/swank.port", "log": {"level": "debug"}}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Port != 0 {
			t.Errorf("port = %d", cfg.Port)
		}
		if cfg.PortFile != "/tmp/swank.port" {
			t.Errorf("portFile = %q", cfg.PortFile)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("log level = %q", cfg.Log.Level)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		os.WriteFile(path, []byte("{port:"), 0644)
		if _, err := Load(path); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("BadPort", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "port.json")
		os.WriteFile(path, []byte(`{"port": 70000}`), 0644)
		if _, err := Load(path); err == nil {
			t.Error("expected an error")
		}
	})
}
