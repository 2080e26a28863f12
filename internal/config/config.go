package config

import (
	"strconv"
	"strings"
	"time"

	"staffing_backend/internal/database"
	"staffing_backend/pkg/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	Env                string
	LogLevel           string
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	DB                 database.Config
}

// Load reads configuration from the environment with defaults. A .env file
// in the working directory is loaded first when present; variables already
// set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:     utils.Getenv("PORT", "8080"),
		Env:      utils.Getenv("APP_ENV", "development"),
		LogLevel: utils.Getenv("LOG_LEVEL", "info"),
		// Tokens are issued by the identity provider; the secret must match it.
		JWTSecret: utils.Getenv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:    parseDuration("JWT_TTL", 15*time.Minute),
		CORSAllowedOrigins: splitList(utils.Getenv("CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:3001")),
		DB: database.Config{
			Host:        utils.Getenv("DB_HOST", "localhost"),
			Port:        utils.Getenv("DB_PORT", "5432"),
			User:        utils.Getenv("DB_USER", "staffing"),
			Password:    utils.Getenv("DB_PASSWORD", "staffing"),
			Name:        utils.Getenv("DB_NAME", "staffing"),
			SSLMode:     utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath:  utils.Getenv("DB_SCHEMA_PATH", ""),
			ApplySchema: ParseBool("DB_APPLY_SCHEMA", true),
		},
	}
	return cfg
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	v := utils.Getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.LogWarn("Invalid boolean in environment, using default", map[string]interface{}{"key": key, "value": v})
		return def
	}
	return b
}

func parseDuration(key string, def time.Duration) time.Duration {
	v := utils.Getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.LogWarn("Invalid duration in environment, using default", map[string]interface{}{"key": key, "value": v})
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
