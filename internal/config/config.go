package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CategoryMode selects how category ownership works.
type CategoryMode string

const (
	// CategoryModeOwned records the creator as owner; only the owner may write.
	CategoryModeOwned CategoryMode = "owned"
	// CategoryModeOpen stores no owner; names are unique and any
	// authenticated principal may write.
	CategoryModeOpen CategoryMode = "open"
)

// UniqueNames reports whether category names must be unique.
func (m CategoryMode) UniqueNames() bool {
	return m == CategoryModeOpen
}

// ParseCategoryMode accepts "owned" or "open" (case-insensitive).
func ParseCategoryMode(s string) (CategoryMode, error) {
	switch CategoryMode(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryModeOwned:
		return CategoryModeOwned, nil
	case CategoryModeOpen:
		return CategoryModeOpen, nil
	}
	return "", fmt.Errorf("unknown category mode %q (want owned or open)", s)
}

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	Port           string
	Environment    string
	DatabaseURL    string
	TablePrefix    string
	StorageBackend string
	CORSOrigins    string
	// Auth
	JWTSecret      string
	JWKSURL        string // when set, tokens come from an external issuer
	AccessTokenTTL time.Duration
	// Token endpoint rate limit, per client IP
	TokenRatePerSecond float64
	TokenRateBurst     int
	// TrustProxyHeaders keys the limit on X-Forwarded-For; enable only
	// behind a proxy that overwrites the header
	TrustProxyHeaders bool
	// Resources
	CategoryMode CategoryMode
	// SeedFile is loaded into the memory backend at startup ("-" for the
	// embedded demo data)
	SeedFile string
	// Logging
	LogDir      string
	LogMaxFiles int
}

// Load reads configuration from the environment. Malformed numbers and
// durations fall back to defaults. An unknown category mode is kept as given
// so Validate rejects it.
func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	rawMode := getEnv("CATEGORY_MODE", string(CategoryModeOwned))
	mode, err := ParseCategoryMode(rawMode)
	if err != nil {
		mode = CategoryMode(rawMode)
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		TablePrefix:        getTablePrefix(env),
		StorageBackend:     getEnv("STORAGE_BACKEND", StorageBackendPostgres),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWKSURL:            getEnv("JWT_JWKS_URL", ""),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
		TokenRatePerSecond: getFloat("TOKEN_RATE_PER_SECOND", 1),
		TokenRateBurst:     getInt("TOKEN_RATE_BURST", 5),
		TrustProxyHeaders:  getBool("TRUST_PROXY_HEADERS", false),
		CategoryMode:       mode,
		SeedFile:           getEnv("SEED_FILE", ""),
		LogDir:             getEnv("LOG_DIR", ""),
		LogMaxFiles:        getInt("LOG_MAX_FILES", 10),
	}
}

// Validate checks the combinations the server cannot start without.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", c.StorageBackend)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.JWKSURL == "" && c.JWTSecret == "" {
		return fmt.Errorf("one of JWT_SECRET or JWT_JWKS_URL is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if _, err := ParseCategoryMode(string(c.CategoryMode)); err != nil {
		return fmt.Errorf("CATEGORY_MODE: %w", err)
	}
	return nil
}

// IssuesTokens reports whether this server signs its own access tokens.
func (c *Config) IssuesTokens() bool {
	return c.JWKSURL == ""
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func getFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}
