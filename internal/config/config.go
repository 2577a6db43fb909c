// Package config provides configuration loading for the coordinator.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SheetsConfig names the spreadsheets and worksheets the reconciliation
// and export engines work against. MainSpreadsheetID carries the roster,
// pairs, surveys and schedule; AnswersSpreadsheetID receives exports.
type SheetsConfig struct {
	BaseURL              string `yaml:"base_url"`
	Token                string `yaml:"token"`
	MainSpreadsheetID    string `yaml:"main_spreadsheet_id"`
	AnswersSpreadsheetID string `yaml:"answers_spreadsheet_id"`
	WorkersSheet         string `yaml:"workers_sheet"`
	PairsSheet           string `yaml:"pairs_sheet"`
	SurveysSheet         string `yaml:"surveys_sheet"`
	ShiftsSheet          string `yaml:"shifts_sheet"`
	AnswersExportSheet   string `yaml:"answers_export_sheet"`
	ShiftReportSheet     string `yaml:"shift_report_sheet"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with the non-secret defaults filled in.
func Default() Config {
	return Config{
		Sheets: SheetsConfig{
			BaseURL:            "https://sheets.googleapis.com/v4",
			WorkersSheet:       "Workers",
			PairsSheet:         "Pairs",
			SurveysSheet:       "Surveys",
			ShiftsSheet:        "Schedule",
			AnswersExportSheet: "Answers",
			ShiftReportSheet:   "ShiftReport",
		},
		Server: ServerConfig{Listen: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (if non-empty), applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COORDINATOR_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("COORDINATOR_SHEETS_TOKEN"); v != "" {
		cfg.Sheets.Token = v
	}
	if v := os.Getenv("COORDINATOR_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
}

// Validate surfaces misconfiguration at startup instead of first use.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Sheets.MainSpreadsheetID == "" {
		return fmt.Errorf("sheets.main_spreadsheet_id is required")
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	return nil
}
