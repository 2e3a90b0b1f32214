package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port      string
	JWTSecret string

	// Hazard storage
	HazardStore string // "memory" or "sqlite"
	DBPath      string
	SeedHazards bool

	// Map data source
	OverpassURL  string
	MapFile      string // when set, road data is read from this file instead
	FetchTimeout time.Duration

	// Routing
	DefaultThreshold int
	RegionMarginM    float64 // detour margin around request endpoints
	PathBufferM      float64 // buffer for reporting near-path hazard exposure
	SearchTimeout    time.Duration

	// Caching
	GraphTTL       time.Duration
	ResultCacheTTL time.Duration
	RouteTTL       time.Duration

	// Rate limiting for route computation
	RateLimit       int
	RateLimitWindow time.Duration
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:      envString("PORT", ":8080"),
		JWTSecret: envString("JWT_SECRET", ""),

		HazardStore: envString("HAZARD_STORE", "memory"),
		DBPath:      envString("DB_PATH", "./data/hazards.db"),
		SeedHazards: envBool("SEED_HAZARDS", true),

		OverpassURL:  envString("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		MapFile:      envString("MAP_FILE", ""),
		FetchTimeout: envDuration("FETCH_TIMEOUT", 60*time.Second),

		DefaultThreshold: envInt("DEFAULT_DANGER_THRESHOLD", 3),
		RegionMarginM:    envFloat("REGION_MARGIN_M", 2000),
		PathBufferM:      envFloat("PATH_BUFFER_M", 25),
		SearchTimeout:    envDuration("SEARCH_TIMEOUT", 30*time.Second),

		GraphTTL:       envDuration("GRAPH_TTL", 30*time.Minute),
		ResultCacheTTL: envDuration("RESULT_CACHE_TTL", 5*time.Minute),
		RouteTTL:       envDuration("ROUTE_TTL", 30*time.Minute),

		RateLimit:       envInt("RATE_LIMIT", 60),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
