// Package config loads all service configuration from the environment,
// optionally overlaid with values from AWS SSM Parameter Store (see ssm.go).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment environment the service runs in.
type Environment string

const (
	EnvLocal      Environment = "local"
	EnvStaging    Environment = "staging"
	EnvProduction Environment = "production"
)

// Config is the root configuration object, composed once at startup.
type Config struct {
	Environment Environment
	Server      ServerConfig
	CORS        CORSConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cognito     CognitoConfig
	Token       TokenConfig
	Payments    PaymentsConfig
	Chat        ChatConfig
	Widget      WidgetConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        string
	AppVersion  string
	APIRootPath string
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	Origins          []string
	AllowCredentials bool
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig configures the Redis client.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Address returns the host:port pair for the Redis client.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CognitoConfig configures the identity provider (AWS Cognito user pool).
type CognitoConfig struct {
	UserPoolID  string
	ClientID    string
	Region      string
	Domain      string
	CallbackURL string
	FrontendURL string
}

// IssuerURL is the user pool's token issuer, used for claim validation.
func (c CognitoConfig) IssuerURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL is where the pool publishes its signing keys.
func (c CognitoConfig) JWKSURL() string {
	return c.IssuerURL() + "/.well-known/jwks.json"
}

// TokenURL is the hosted-UI OAuth token endpoint.
func (c CognitoConfig) TokenURL() string {
	return fmt.Sprintf("https://%s/oauth2/token", c.Domain)
}

// AuthURL is the hosted-UI OAuth authorize endpoint.
func (c CognitoConfig) AuthURL() string {
	return fmt.Sprintf("https://%s/oauth2/authorize", c.Domain)
}

// TokenConfig configures token lifetimes and session cookies.
type TokenConfig struct {
	// AccessTokenTTL is how long access and identity tokens (and their
	// cookies) live.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the refresh token lifetime. 30 days.
	RefreshTokenTTL time.Duration

	Cookie CookieConfig

	// RefreshCookiePaths are the paths the refresh_token cookie is scoped to.
	RefreshCookiePaths []string
}

// CookieConfig holds the attributes shared by all session cookies.
type CookieConfig struct {
	Domain   string
	HTTPOnly bool
	Secure   bool
	SameSite string

	// SessionCookies lists every cookie cleared on logout.
	SessionCookies []string
}

// PaymentsConfig configures the Polar billing API client and plan policy.
type PaymentsConfig struct {
	APIKey               string
	WebhookSecret        string
	Environment          string // "sandbox" or "production"
	RefreshIntervalHours int
	DefaultPlanName      string
	TrialPeriodDays      int
}

// ChatConfig configures the chat relay.
type ChatConfig struct {
	// Provider selects the LLM backend: "bedrock" or "anthropic".
	Provider        string
	Model           string
	AnthropicAPIKey string
}

// WidgetConfig configures the embeddable widget surface.
type WidgetConfig struct {
	SiteCacheTTL time.Duration
}

// Load reads the full configuration from environment variables.
func Load() *Config {
	return &Config{
		Environment: Environment(getEnv("APP_ENV", string(EnvLocal))),
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			AppVersion:  getEnv("APP_VERSION", "1.0.0"),
			APIRootPath: getEnv("API_ROOT_PATH", "/api"),
		},
		CORS: CORSConfig{
			Origins:          getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "translate_app"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cognito: CognitoConfig{
			UserPoolID:  getEnv("COGNITO_USER_POOL_ID", ""),
			ClientID:    getEnv("COGNITO_CLIENT_ID", ""),
			Region:      getEnv("COGNITO_REGION", "eu-west-1"),
			Domain:      getEnv("COGNITO_DOMAIN", ""),
			CallbackURL: getEnv("COGNITO_CALLBACK_URL", ""),
			FrontendURL: getEnv("COGNITO_FRONTEND_URL", "http://localhost:3000"),
		},
		Token: TokenConfig{
			AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
			RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
			Cookie: CookieConfig{
				Domain:   getEnv("COOKIE_DOMAIN", ""),
				HTTPOnly: getEnvBool("COOKIE_HTTP_ONLY", true),
				Secure:   getEnvBool("COOKIE_SECURE", true),
				SameSite: getEnv("COOKIE_SAME_SITE", "Lax"),
				SessionCookies: []string{
					"access_token", "refresh_token", "id_token",
					"is_authenticated", "my_profile",
				},
			},
			RefreshCookiePaths: []string{
				"/api/auth/refresh",
				"/api/auth/logout/session",
				"/api/auth/logout/all-devices",
			},
		},
		Payments: PaymentsConfig{
			APIKey:               getEnv("POLAR_API_KEY", ""),
			WebhookSecret:        getEnv("POLAR_WEBHOOK_SECRET", ""),
			Environment:          getEnv("POLAR_ENVIRONMENT", "production"),
			RefreshIntervalHours: getEnvInt("PLANS_REFRESH_INTERVAL_HOURS", 24),
			DefaultPlanName:      getEnv("PAYMENTS_DEFAULT_PLAN_NAME", ""),
			TrialPeriodDays:      getEnvInt("PAYMENTS_TRIAL_PERIOD_DAYS", 7),
		},
		Chat: ChatConfig{
			Provider:        getEnv("CHAT_PROVIDER", "bedrock"),
			Model:           getEnv("CHAT_MODEL", "eu.amazon.nova-lite-v1:0"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Widget: WidgetConfig{
			SiteCacheTTL: getEnvDuration("WIDGET_SITE_CACHE_TTL", time.Hour),
		},
	}
}

// ---------------------------------------------------------------------------
// Env helpers
// ---------------------------------------------------------------------------

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvStringSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
