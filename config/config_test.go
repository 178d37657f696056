// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

const minimalConfig = `
database:
  host: localhost
  user: etl
  dbname: sf311
socrata:
  base_url: https://data.sfgov.org
  dataset_id: vw6y-z8j6
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	AppConfig = Config{}
	path := writeConfig(t, minimalConfig)

	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if AppConfig.Socrata.PageSize != 1000 {
		t.Errorf("page_size default = %d, want 1000", AppConfig.Socrata.PageSize)
	}
	if AppConfig.Socrata.MaxRetries != 3 {
		t.Errorf("max_retries default = %d, want 3", AppConfig.Socrata.MaxRetries)
	}
	if AppConfig.Socrata.PageDelay != time.Second {
		t.Errorf("page_delay default = %v, want 1s", AppConfig.Socrata.PageDelay)
	}
	if AppConfig.Database.Port != "3306" {
		t.Errorf("database.port default = %q, want 3306", AppConfig.Database.Port)
	}
}

func TestLoadConfigParsesPageDelay(t *testing.T) {
	AppConfig = Config{}
	path := writeConfig(t, minimalConfig+`  page_delay: 250ms
`)

	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if AppConfig.Socrata.PageDelay != 250*time.Millisecond {
		t.Errorf("page_delay = %v, want 250ms", AppConfig.Socrata.PageDelay)
	}
}

func TestLoadConfigRejectsBadPageDelay(t *testing.T) {
	AppConfig = Config{}
	path := writeConfig(t, minimalConfig+`  page_delay: soon
`)

	if err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for an unparseable page_delay")
	}
}

func TestLoadConfigSecretsComeFromEnvironment(t *testing.T) {
	AppConfig = Config{}
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("SODA_APP_TOKEN", "token-abc")
	path := writeConfig(t, minimalConfig)

	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if AppConfig.Database.Password != "hunter2" {
		t.Errorf("password = %q, want the DB_PASSWORD value", AppConfig.Database.Password)
	}
	if AppConfig.Socrata.AppToken != "token-abc" {
		t.Errorf("app token = %q, want the SODA_APP_TOKEN value", AppConfig.Socrata.AppToken)
	}
}

func TestLoadConfigReportsMissingFields(t *testing.T) {
	AppConfig = Config{}
	path := writeConfig(t, `
database:
  host: localhost
socrata:
  base_url: https://data.sfgov.org
`)

	err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected an error for missing required fields")
	}
	for _, field := range []string{"database.user", "database.dbname", "socrata.dataset_id"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name %s", err, field)
		}
	}
}

func TestLoadConfigRequiresFreshnessURLWhenEnabled(t *testing.T) {
	AppConfig = Config{}
	path := writeConfig(t, minimalConfig+`
freshness:
  enabled: true
`)

	if err := LoadConfig(path); err == nil {
		t.Fatal("expected an error when freshness is enabled without a page URL")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	AppConfig = Config{}
	if err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
