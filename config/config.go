// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Host   string `yaml:"host"`
	Port   string `yaml:"port"`
	User   string `yaml:"user"`
	DBName string `yaml:"dbname"`

	// Password comes from the DB_PASSWORD environment variable (loaded
	// from .env by main), never from the YAML file.
	Password string `yaml:"-"`
}

type SocrataConfig struct {
	BaseURL      string `yaml:"base_url"`   // e.g. https://data.sfgov.org
	DatasetID    string `yaml:"dataset_id"` // e.g. vw6y-z8j6
	PageSize     int    `yaml:"page_size"`
	PageDelayStr string `yaml:"page_delay"` // e.g. "1s"; blocking wait between pages
	MaxRetries   int    `yaml:"max_retries"`

	PageDelay time.Duration `yaml:"-"` // parsed from PageDelayStr

	// AppToken raises the anonymous rate limit when set; read from the
	// SODA_APP_TOKEN environment variable.
	AppToken string `yaml:"-"`
}

type CSVExportConfig struct {
	URL       string `yaml:"url"`        // full-dataset CSV export endpoint
	LocalPath string `yaml:"local_path"` // temp file for the download
}

type FreshnessConfig struct {
	Enabled  bool   `yaml:"enabled"`
	PageURL  string `yaml:"page_url"` // dataset landing page
	Selector string `yaml:"selector"` // CSS selector of the "data last updated" element
}

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Socrata   SocrataConfig   `yaml:"socrata"`
	CSVExport CSVExportConfig `yaml:"csv_export"`
	Freshness FreshnessConfig `yaml:"freshness"`
}

var AppConfig Config

// LoadConfig reads the YAML configuration file, fills secrets from the
// environment, applies defaults and validates the fields the pipeline
// cannot run without.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	AppConfig.Database.Password = os.Getenv("DB_PASSWORD")
	AppConfig.Socrata.AppToken = os.Getenv("SODA_APP_TOKEN")

	if AppConfig.Socrata.PageSize <= 0 {
		AppConfig.Socrata.PageSize = 1000
	}
	if AppConfig.Socrata.MaxRetries <= 0 {
		AppConfig.Socrata.MaxRetries = 3
	}
	if AppConfig.Socrata.PageDelayStr != "" {
		AppConfig.Socrata.PageDelay, err = time.ParseDuration(AppConfig.Socrata.PageDelayStr)
		if err != nil {
			return fmt.Errorf("failed to parse socrata.page_delay: %w", err)
		}
	} else {
		AppConfig.Socrata.PageDelay = time.Second
	}

	if AppConfig.Database.Port == "" {
		AppConfig.Database.Port = "3306"
	}

	var missing []string
	if AppConfig.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if AppConfig.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if AppConfig.Database.DBName == "" {
		missing = append(missing, "database.dbname")
	}
	if AppConfig.Socrata.BaseURL == "" {
		missing = append(missing, "socrata.base_url")
	}
	if AppConfig.Socrata.DatasetID == "" {
		missing = append(missing, "socrata.dataset_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config is missing required fields: %v", missing)
	}

	if AppConfig.Freshness.Enabled && AppConfig.Freshness.PageURL == "" {
		return fmt.Errorf("freshness check is enabled but freshness.page_url is not set")
	}

	return nil
}
