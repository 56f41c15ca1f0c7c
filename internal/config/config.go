package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	MigrationsDir   string
	StepSummaryPath string
	MaxListed       int
	LogLevel        string
	HTTPAddress     string
	Remote          RemoteConfig
	OIDC            OIDCConfig
}

// RemoteConfig points at the database whose applied migrations are compared.
type RemoteConfig struct {
	Provider string
	DSN      string
	Table    string
}

// OIDCConfig controls bearer-token authentication of CI callers.
type OIDCConfig struct {
	Issuer              string
	Audience            string
	AllowedRepositories []string
}

func (c OIDCConfig) Enabled() bool {
	return c.Issuer != ""
}

func Load() (Config, error) {
	cfg := Config{
		MigrationsDir:   getEnv("DRIFT_MIGRATIONS_DIR", "supabase/migrations"),
		StepSummaryPath: os.Getenv("GITHUB_STEP_SUMMARY"),
		LogLevel:        getEnv("DRIFT_LOG_LEVEL", "info"),
		HTTPAddress:     getEnv("DRIFT_HTTP_ADDR", ":8080"),
		Remote: RemoteConfig{
			Provider: strings.ToLower(getEnv("DRIFT_REMOTE_PROVIDER", "postgres")),
			DSN:      os.Getenv("DRIFT_REMOTE_DSN"),
			Table:    os.Getenv("DRIFT_REMOTE_TABLE"),
		},
		OIDC: OIDCConfig{
			Issuer:              os.Getenv("DRIFT_OIDC_ISSUER"),
			Audience:            os.Getenv("DRIFT_OIDC_AUDIENCE"),
			AllowedRepositories: splitAndTrim(os.Getenv("DRIFT_OIDC_ALLOWED_REPOSITORIES")),
		},
	}

	maxListed, err := strconv.Atoi(getEnv("DRIFT_MAX_LISTED", "20"))
	if err != nil {
		return Config{}, errors.New("DRIFT_MAX_LISTED must be an integer")
	}
	cfg.MaxListed = maxListed

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.MigrationsDir) == "" {
		return errors.New("DRIFT_MIGRATIONS_DIR must not be blank")
	}
	if c.MaxListed <= 0 {
		return errors.New("DRIFT_MAX_LISTED must be positive")
	}
	if c.Remote.DSN != "" && c.Remote.Provider != "postgres" && c.Remote.Provider != "mysql" {
		return errors.New("DRIFT_REMOTE_PROVIDER must be postgres or mysql")
	}
	if c.OIDC.Enabled() && c.OIDC.Audience == "" {
		return errors.New("DRIFT_OIDC_AUDIENCE is required when DRIFT_OIDC_ISSUER is set")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func splitAndTrim(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
