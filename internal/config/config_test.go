package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "DB_HOST", "DB_APPLY_SCHEMA", "JWT_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DB.Host != "localhost" || !cfg.DB.ApplySchema {
		t.Errorf("unexpected DB defaults: %+v", cfg.DB)
	}
	if cfg.JWTTTL != 15*time.Minute {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DB_APPLY_SCHEMA", "false")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	if cfg.Port != "9090" || !cfg.IsProduction() || cfg.DB.ApplySchema || cfg.JWTTTL != time.Hour {
		t.Errorf("env not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestParseBoolInvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_FLAG", "sometimes")
	if !ParseBool("SOME_FLAG", true) {
		t.Error("invalid value should return the default")
	}
}
