package auth

import (
	"os"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// EnvConfig is an environment sourced Config. Durations in seconds unless the
// variable documents otherwise.
type EnvConfig struct {
	SigningKey         string
	SigningMethod      string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BlocklistTTL       time.Duration
	VerificationMaxAge time.Duration
	RedisURL           string
	DatabaseURL        string
	MailFrom           string
	AppDomain          string
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads configuration from the environment, loading .env first
// when present. JWT_SECRET is required; everything else has a default.
func LoadConfig() (*EnvConfig, error) {
	// missing .env is fine, the process environment wins anyway
	_ = godotenv.Load()

	cfg := &EnvConfig{
		SigningKey:         os.Getenv("JWT_SECRET"),
		SigningMethod:      envOr("JWT_ALGORITHM", "HS256"),
		AccessTokenTTL:     envSeconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL:    envSeconds("REFRESH_TOKEN_TTL", 2*24*3600),
		BlocklistTTL:       envSeconds("BLOCKLIST_TTL", 3600),
		VerificationMaxAge: envSeconds("VERIFY_TOKEN_MAX_AGE", 24*3600),
		RedisURL:           envOr("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MailFrom:           envOr("MAIL_FROM", "noreply@bookly.dev"),
		AppDomain:          envOr("APP_DOMAIN", "localhost:8000"),
	}

	if cfg.SigningKey == "" {
		return nil, errors.New("JWT_SECRET is required", errors.CategoryBadInput)
	}

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string                { return c.SigningKey }
func (c *EnvConfig) GetSigningMethod() string             { return c.SigningMethod }
func (c *EnvConfig) GetAccessTokenTTL() time.Duration     { return c.AccessTokenTTL }
func (c *EnvConfig) GetRefreshTokenTTL() time.Duration    { return c.RefreshTokenTTL }
func (c *EnvConfig) GetBlocklistTTL() time.Duration       { return c.BlocklistTTL }
func (c *EnvConfig) GetVerificationMaxAge() time.Duration { return c.VerificationMaxAge }

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envSeconds(key string, def int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}
