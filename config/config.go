package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vanshika/graphwalk/traversal"
)

// Config aggregates library configuration values.
type Config struct {
	Graph     GraphConfig
	Logging   LoggingConfig
	Traversal TraversalConfig
}

// GraphConfig describes connectivity to the graph database (Neptune/Neo4j).
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// TraversalConfig overrides the default traversal budgets.
type TraversalConfig struct {
	Degree     int64
	Capacity   int64
	Limit      int64
	SkipDegree int64
	MaxDepth   int
}

const (
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Traversal: TraversalConfig{
			Degree:     traversal.DefaultDegree,
			Capacity:   traversal.DefaultCapacity,
			Limit:      traversal.DefaultLimit,
			SkipDegree: traversal.DefaultSkipDegree,
			MaxDepth:   traversal.DefaultMaxDepth,
		},
	}

	var err error
	if cfg.Traversal.Degree, err = parseBudget("TRAVERSAL_DEGREE", cfg.Traversal.Degree); err != nil {
		return Config{}, err
	}
	if cfg.Traversal.Capacity, err = parseBudget("TRAVERSAL_CAPACITY", cfg.Traversal.Capacity); err != nil {
		return Config{}, err
	}
	if cfg.Traversal.Limit, err = parseBudget("TRAVERSAL_LIMIT", cfg.Traversal.Limit); err != nil {
		return Config{}, err
	}
	if cfg.Traversal.SkipDegree, err = parseBudget("TRAVERSAL_SKIP_DEGREE", cfg.Traversal.SkipDegree); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("TRAVERSAL_MAX_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRAVERSAL_MAX_DEPTH value %q: %w", v, err)
		}
		if depth < 1 {
			return Config{}, fmt.Errorf("TRAVERSAL_MAX_DEPTH %d must be >= 1", depth)
		}
		cfg.Traversal.MaxDepth = depth
	}

	return cfg, nil
}

// parseBudget accepts a positive budget or the no-limit sentinel.
func parseBudget(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if value <= 0 && value != traversal.NoLimit {
		return 0, fmt.Errorf("%s must be > 0 or == %d, got %d", key, traversal.NoLimit, value)
	}
	return value, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}
