// ABOUTME: Configuration loader for the secuone console
// ABOUTME: Loads settings from environment variables and an optional .env file

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend
	APIURL   string // backend origin, e.g. https://manager.secuone.io
	BasePath string // sub-path prefix for deployments under a sub-path, e.g. /manager

	// Local state
	Home string // directory for session.json / cookies.json

	// Timeouts (seconds)
	RequestTimeout int // production requests (default 30)
	ProbeTimeout   int // endpoint resolution probes (default 3)

	// UTM link builder
	PlayPackage string // Android package id used by `secuone link`
}

const DefaultPlayPackage = "com.polarisoffice.vguardsecuone"

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("SECUONE_API_URL", "http://localhost:8080")),
		BasePath:       normalizeBasePath(os.Getenv("SECUONE_BASE_PATH")),
		Home:           getEnv("SECUONE_HOME", defaultHome()),
		RequestTimeout: getEnvInt("SECUONE_REQUEST_TIMEOUT", 30),
		ProbeTimeout:   getEnvInt("SECUONE_PROBE_TIMEOUT", 3),
		PlayPackage:    getEnv("SECUONE_PLAY_PACKAGE", DefaultPlayPackage),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 300 {
		return nil, fmt.Errorf("SECUONE_REQUEST_TIMEOUT must be between 1 and 300, got %d", cfg.RequestTimeout)
	}
	if cfg.ProbeTimeout < 1 || cfg.ProbeTimeout > 60 {
		return nil, fmt.Errorf("SECUONE_PROBE_TIMEOUT must be between 1 and 60, got %d", cfg.ProbeTimeout)
	}

	return cfg, nil
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".secuone"
	}
	return filepath.Join(home, ".secuone")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}

// normalizeBasePath forces a single leading slash and no trailing slash
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
