package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/guttosm/tradelens/internal/domain/models"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	GENERATOR_COUNT=100
//	GENERATOR_SEED=42
//	DATE_START=2024-01-01
//	DATE_END=2024-12-31
//	DATASET_PATH=data/financial_data.csv
//	REPORT_DIR=reports
//	TOP_N=5
//	RECENT_MONTHS=1
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Generator GeneratorConfig // synthetic dataset parameters
	Paths     PathsConfig     // dataset and report locations
	Analysis  AnalysisConfig  // view parameters
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// GeneratorConfig drives the transaction generator.
//
// Fields:
//   - Count: number of transactions to synthesize.
//   - Seed: RNG seed; nil draws a fresh one per run.
//   - Start, End: inclusive date range for transaction dates.
type GeneratorConfig struct {
	Count int
	Seed  *uint64
	Start time.Time
	End   time.Time
}

// PathsConfig locates the dataset artifact and the report directory.
type PathsConfig struct {
	Dataset   string
	ReportDir string
}

// AnalysisConfig parameterizes the views that take arguments.
type AnalysisConfig struct {
	TopN         int
	RecentMonths int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// now is replaced in tests to pin the default date range.
var now = time.Now

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Command-line flags are applied on top by the caller. Malformed values are
// reported as an InvalidConfiguration error.
func LoadConfig() error {
	v := viper.New()

	today := now().UTC().Truncate(24 * time.Hour)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GENERATOR_COUNT", 100)
	v.SetDefault("GENERATOR_SEED", "")
	v.SetDefault("DATE_START", today.AddDate(-1, 0, 0).Format(models.DateLayout))
	v.SetDefault("DATE_END", today.Format(models.DateLayout))
	v.SetDefault("DATASET_PATH", "data/financial_data.csv")
	v.SetDefault("REPORT_DIR", "reports")
	v.SetDefault("TOP_N", 5)
	v.SetDefault("RECENT_MONTHS", 1)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{Port: v.GetString("SERVER_PORT")},
		Generator: GeneratorConfig{
			Count: v.GetInt("GENERATOR_COUNT"),
		},
		Paths: PathsConfig{
			Dataset:   v.GetString("DATASET_PATH"),
			ReportDir: v.GetString("REPORT_DIR"),
		},
		Analysis: AnalysisConfig{
			TopN:         v.GetInt("TOP_N"),
			RecentMonths: v.GetInt("RECENT_MONTHS"),
		},
	}

	var errs []error
	if s := strings.TrimSpace(v.GetString("GENERATOR_SEED")); s != "" {
		seed, err := ParseSeed(s)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.Generator.Seed = seed
	}
	var err error
	if cfg.Generator.Start, err = parseDate("DATE_START", v.GetString("DATE_START")); err != nil {
		errs = append(errs, err)
	}
	if cfg.Generator.End, err = parseDate("DATE_END", v.GetString("DATE_END")); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	AppConfig = cfg
	return validateConfig(AppConfig)
}

// ParseSeed parses a decimal uint64 seed.
func ParseSeed(s string) (*uint64, error) {
	seed, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &models.ConfigError{Field: "GENERATOR_SEED", Reason: fmt.Sprintf("%q is not an unsigned integer", s)}
	}
	return &seed, nil
}

func parseDate(key, s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &models.ConfigError{Field: key, Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return t, nil
}

// validateConfig ensures required values are present and in range.
//
// Behavior:
//   - Checks each critical field of cfg.
//   - Collects the offending keys in a slice.
//   - Returns a single InvalidConfiguration error naming all of them.
func validateConfig(cfg Config) error {
	var invalid []string

	if cfg.Server.Port == "" {
		invalid = append(invalid, "SERVER_PORT")
	}
	if cfg.Generator.Count <= 0 {
		invalid = append(invalid, "GENERATOR_COUNT")
	}
	if cfg.Generator.End.Before(cfg.Generator.Start) {
		invalid = append(invalid, "DATE_END")
	}
	if cfg.Paths.Dataset == "" {
		invalid = append(invalid, "DATASET_PATH")
	}
	if cfg.Paths.ReportDir == "" {
		invalid = append(invalid, "REPORT_DIR")
	}
	if cfg.Analysis.TopN <= 0 {
		invalid = append(invalid, "TOP_N")
	}
	if cfg.Analysis.RecentMonths <= 0 {
		invalid = append(invalid, "RECENT_MONTHS")
	}

	if len(invalid) > 0 {
		return &models.ConfigError{Field: strings.Join(invalid, ","), Reason: "missing or out of range"}
	}
	return nil
}

// Validate re-checks AppConfig after flag overrides.
func Validate() error {
	return validateConfig(AppConfig)
}
