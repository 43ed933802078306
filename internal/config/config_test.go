package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesinsight.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: csv
  directory: /srv/northwind
analysis:
  churn_window_days: 60
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Directory != "/srv/northwind" {
		t.Errorf("expected directory /srv/northwind, got %s", cfg.Source.Directory)
	}
	if cfg.Source.Delimiter != ";" {
		t.Errorf("expected default delimiter ;, got %q", cfg.Source.Delimiter)
	}
	if cfg.Analysis.ChurnWindowDays != 60 {
		t.Errorf("expected churn window 60, got %d", cfg.Analysis.ChurnWindowDays)
	}
	if cfg.Analysis.TopN != 10 {
		t.Errorf("expected default top_n 10, got %d", cfg.Analysis.TopN)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Source.Type != "csv" {
		t.Errorf("expected csv source, got %s", cfg.Source.Type)
	}
	if cfg.Source.Directory != "data" {
		t.Errorf("expected data directory, got %s", cfg.Source.Directory)
	}
	if cfg.Analysis.ChurnWindowDays != 90 {
		t.Errorf("expected churn window 90, got %d", cfg.Analysis.ChurnWindowDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingDefaultFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Type != "csv" {
		t.Errorf("expected default csv source, got %s", cfg.Source.Type)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadInvalidVersion(t *testing.T) {
	path := writeConfig(t, `version: 99
source:
  type: csv
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid version")
	}
}

func TestLoadInvalidSourceType(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: sqlite
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unsupported source type")
	}
	if !strings.Contains(err.Error(), "Type") {
		t.Errorf("expected error to name the Type field, got %v", err)
	}
}

func TestLoadOracleRequiresConnectionString(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: oracle
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for oracle without connection_string")
	}
	if !strings.Contains(err.Error(), "ConnectionString") {
		t.Errorf("expected error to name ConnectionString, got %v", err)
	}
}

func TestLoadKeepsExplicitZeroAnalysis(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: csv
analysis:
  churn_window_days: 0
  top_n: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.ChurnWindowDays != 0 {
		t.Errorf("expected explicit churn window 0 to be kept, got %d", cfg.Analysis.ChurnWindowDays)
	}
	if cfg.Analysis.TopN != 0 {
		t.Errorf("expected explicit top_n 0 to be kept, got %d", cfg.Analysis.TopN)
	}
}

func TestLoadAbsentAnalysisUsesDefaults(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: csv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.ChurnWindowDays != DefaultChurnWindow {
		t.Errorf("expected churn window %d, got %d", DefaultChurnWindow, cfg.Analysis.ChurnWindowDays)
	}
	if cfg.Analysis.TopN != DefaultTopN {
		t.Errorf("expected top_n %d, got %d", DefaultTopN, cfg.Analysis.TopN)
	}
}

func TestLoadPostgresRequiresConnectionString(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: postgresql
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for postgresql without connection_string")
	}
}

func TestLoadPostgresDefaultsSchema(t *testing.T) {
	t.Setenv("PG_URL", "postgres://localhost:5432/northwind")
	path := writeConfig(t, `version: 1
source:
  type: postgresql
  connection_string: "${ENV:PG_URL}"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Schema != "public" {
		t.Errorf("expected default schema public, got %s", cfg.Source.Schema)
	}
	if cfg.Source.ConnectionString != "postgres://localhost:5432/northwind" {
		t.Errorf("expected resolved connection string, got %s", cfg.Source.ConnectionString)
	}
}

func TestLoadInvalidDelimiter(t *testing.T) {
	path := writeConfig(t, `version: 1
source:
  type: csv
  delimiter: ";;"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for multi-character delimiter")
	}
}

func TestResolveEnvSecret(t *testing.T) {
	t.Setenv("TEST_SECRET", "mysecret")
	val, err := ResolveValue("${ENV:TEST_SECRET}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "mysecret" {
		t.Errorf("expected mysecret, got %s", val)
	}
}

func TestResolveEnvSecretUnset(t *testing.T) {
	t.Setenv("TEST_SECRET_UNSET", "")
	if _, err := ResolveValue("${ENV:TEST_SECRET_UNSET}"); err == nil {
		t.Error("expected error for unset variable")
	}
}

func TestResolvePlainValue(t *testing.T) {
	val, err := ResolveValue("plaintext")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "plaintext" {
		t.Errorf("expected plaintext, got %s", val)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "salesinsight.yaml")
	cfg := Default()
	cfg.Analysis.ChurnWindowDays = 120
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Analysis.ChurnWindowDays != 120 {
		t.Errorf("expected churn window 120, got %d", loaded.Analysis.ChurnWindowDays)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/logs"); got != filepath.Join(home, "logs") {
		t.Errorf("ExpandHome(~/logs) = %s", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute paths should be untouched, got %s", got)
	}
}
