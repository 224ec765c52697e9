package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir = "VAGAS_DATA_DIR"
	EnvAPIURL  = "VAGAS_API_URL"
)

// LoadDotEnv loads dir/.env into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// DataDir is VAGAS_DATA_DIR, or "." when unset.
func DataDir() string {
	if d := strings.TrimSpace(os.Getenv(EnvDataDir)); d != "" {
		return d
	}
	return "."
}

// OverlayEnv applies environment overrides on top of the file values.
func OverlayEnv(cfg *Config) {
	if u := strings.TrimSpace(os.Getenv(EnvAPIURL)); u != "" {
		cfg.API.BaseURL = u
	}
	if d := strings.TrimSpace(os.Getenv(EnvDataDir)); d != "" {
		cfg.App.DataDir = d
	}
}
