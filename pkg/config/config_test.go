package config_test

import (
	"testing"
	"time"

	"github.com/joopert/translate-app/pkg/config"
)

func TestCognitoURLs(t *testing.T) {
	c := config.CognitoConfig{
		UserPoolID: "eu-west-1_Abc123",
		Region:     "eu-west-1",
		Domain:     "auth.example.com",
	}

	if got := c.IssuerURL(); got != "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_Abc123" {
		t.Fatalf("unexpected issuer: %s", got)
	}
	if got := c.JWKSURL(); got != c.IssuerURL()+"/.well-known/jwks.json" {
		t.Fatalf("unexpected jwks url: %s", got)
	}
	if got := c.TokenURL(); got != "https://auth.example.com/oauth2/token" {
		t.Fatalf("unexpected token url: %s", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Environment != config.EnvLocal {
		t.Fatalf("default environment should be local, got %s", cfg.Environment)
	}
	if cfg.Token.AccessTokenTTL != time.Hour {
		t.Fatalf("unexpected access ttl: %v", cfg.Token.AccessTokenTTL)
	}
	if cfg.Token.RefreshTokenTTL != 30*24*time.Hour {
		t.Fatalf("refresh tokens live 30 days, got %v", cfg.Token.RefreshTokenTTL)
	}
	if len(cfg.Token.RefreshCookiePaths) != 3 {
		t.Fatalf("unexpected refresh cookie paths: %v", cfg.Token.RefreshCookiePaths)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("CHAT_PROVIDER", "anthropic")

	cfg := config.Load()

	if cfg.Environment != config.EnvProduction {
		t.Fatalf("unexpected environment: %s", cfg.Environment)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Token.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.Token.AccessTokenTTL)
	}
	if cfg.Chat.Provider != "anthropic" {
		t.Fatalf("unexpected chat provider: %s", cfg.Chat.Provider)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "app", Password: "secret",
		Name: "translate_app", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=app password=secret dbname=translate_app sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("unexpected dsn: %s", got)
	}
}
