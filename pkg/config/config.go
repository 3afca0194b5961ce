package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	DataDir  string
	Addr     string
	Orgs     []string
	RedisURL string
	CacheTTL time.Duration
	LogLevel zapcore.Level
}

// Load reads .env files (missing files are fine) and then the environment.
// With no arguments ".env" is tried.
func Load(envFiles ...string) (*Config, error) {

	if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("No .env found, using local environment")
	}

	cfg := &Config{
		DataDir:  getenv("KEGG_MAP_WIZARD_DATA", "./data"),
		Addr:     getenv("KEGGMAP_ADDR", "0.0.0.0:8080"),
		Orgs:     ParseOrgs(getenv("KEGGMAP_ORGS", "ko")),
		RedisURL: os.Getenv("KEGGMAP_REDIS_URL"),
		LogLevel: logger.ParseLevel(getenv("KEGGMAP_LOG_LEVEL", "info")),
	}

	ttl, err := time.ParseDuration(getenv("KEGGMAP_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("KEGGMAP_CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	if len(cfg.Orgs) == 0 {
		return nil, fmt.Errorf("KEGGMAP_ORGS: no organism given")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Debug("Environment variable not set, using default", zap.String("key", key), zap.String("default", fallback))
		return fallback
	}
	return value
}

// ParseOrgs splits "ko, eco" into organism codes.
func ParseOrgs(s string) []string {
	var orgs []string
	for _, org := range strings.Split(s, ",") {
		if org = strings.TrimSpace(org); org != "" {
			orgs = append(orgs, org)
		}
	}
	return orgs
}
