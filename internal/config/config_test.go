package config

import (
	"path/filepath"
	"testing"
)

func testConfigPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	if cfg.DB.GormEngine == "" {
		t.Error("DB.GormEngine should not be empty")
	}

	if cfg.Medusa.BaseURL == "" {
		t.Error("Medusa.BaseURL should not be empty")
	}
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Overridden","Medusa":{"BaseURL":"http://medusa:9000"}}`)

	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Overridden" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Overridden")
	}

	if cfg.Medusa.BaseURL != "http://medusa:9000" {
		t.Errorf("Medusa.BaseURL = %q, want %q", cfg.Medusa.BaseURL, "http://medusa:9000")
	}

	// untouched values survive the merge
	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should survive the env merge")
	}
}

func TestDumpConfig(t *testing.T) {
	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	out, err := DumpConfig(cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if out == "" {
		t.Error("DumpConfig() should not be empty")
	}
}
