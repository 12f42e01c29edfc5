package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Lifetime of issued API tokens. Tokens used by a scheduled rnasync on
	// another instance must be re-issued before they run out.
	TokenTTL time.Duration `mapstructure:"TOKEN_TTL"`

	// Dev disables the public-only filter on equivalent release lookups
	Dev bool `mapstructure:"DEV"`

	// Redis backs token revocation; empty address disables it
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Remote instance pulled by cmd/rnasync
	SyncURL      string        `mapstructure:"RNA_SYNC_URL"`
	SyncAPIToken string        `mapstructure:"RNA_SYNC_API_TOKEN"`
	SyncTimeout  time.Duration `mapstructure:"SYNC_TIMEOUT"`

	// Comma separated shoutrrr URLs (smtp://..., etc) used to reach administrators
	AdminNotifyURLs string `mapstructure:"ADMIN_NOTIFY_URLS"`
}

var AppConfig *Config

var defaults = map[string]interface{}{
	"PORT":               "8080",
	"GO_ENV":             "development",
	"DATABASE_URL":       "",
	"JWT_SECRET":         "",
	"FRONTEND_URL":       "http://localhost:5173",
	"TOKEN_TTL":          "720h",
	"DEV":                false,
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"RNA_SYNC_URL":       "",
	"RNA_SYNC_API_TOKEN": "",
	"SYNC_TIMEOUT":       "30s",
	"ADMIN_NOTIFY_URLS":  "",
}

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// NotifyURLs splits AdminNotifyURLs into individual service URLs
func (c *Config) NotifyURLs() []string {
	var urls []string
	for _, u := range strings.Split(c.AdminNotifyURLs, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

const (
	defaultTokenTTL    = 30 * 24 * time.Hour
	defaultSyncTimeout = 30 * time.Second
	baseWriteTimeout   = 15 * time.Second
)

// TokenLifetime is TokenTTL, or 30 days when unset
func (c *Config) TokenLifetime() time.Duration {
	if c == nil || c.TokenTTL <= 0 {
		return defaultTokenTTL
	}
	return c.TokenTTL
}

// SyncRequestTimeout bounds a single request to the sync source
func (c *Config) SyncRequestTimeout() time.Duration {
	if c == nil || c.SyncTimeout <= 0 {
		return defaultSyncTimeout
	}
	return c.SyncTimeout
}

// SyncDeadline bounds a whole sync run: one releases fetch and one notes
// fetch, plus time to write them.
func (c *Config) SyncDeadline() time.Duration {
	return 2*c.SyncRequestTimeout() + baseWriteTimeout
}

// WriteTimeout is the HTTP server write timeout. It outlasts SyncDeadline
// so an admin-triggered sync can still report its result.
func (c *Config) WriteTimeout() time.Duration {
	return c.SyncDeadline() + baseWriteTimeout
}
