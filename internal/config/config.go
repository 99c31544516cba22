// Package config loads server settings from the environment and an optional .env file
package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	StoreDSN      string `mapstructure:"STORE_DSN"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	RoutingBaseURL string `mapstructure:"ROUTING_BASE_URL"`
	RoutingAPIKey  string `mapstructure:"ROUTING_API_KEY"`
	RoutingProfile string `mapstructure:"ROUTING_PROFILE"`

	GeocodingBaseURL   string `mapstructure:"GEOCODING_BASE_URL"`
	GeocodingUserAgent string `mapstructure:"GEOCODING_USER_AGENT"`

	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	MatchCacheTTL  time.Duration `mapstructure:"MATCH_CACHE_TTL"`
	MatchCacheMax  int           `mapstructure:"MATCH_CACHE_MAX"`
	MaxFixAccuracy float64       `mapstructure:"MAX_FIX_ACCURACY"`

	CORSOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"` // comma separated, "*" for any
}

var defaults = map[string]interface{}{
	"PORT":                 "8080",
	"STORE_DRIVER":         "sqlite",
	"STORE_DSN":            "./data/dogwalk.db",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"ROUTING_BASE_URL":     "https://api.openrouteservice.org",
	"ROUTING_API_KEY":      "",
	"ROUTING_PROFILE":      "foot-walking",
	"GEOCODING_BASE_URL":   "https://nominatim.openstreetmap.org",
	"GEOCODING_USER_AGENT": "dogwalk-tracker/1.0",
	"HTTP_TIMEOUT":         "15s",
	"MATCH_CACHE_TTL":      "24h",
	"MATCH_CACHE_MAX":      1000,
	"MAX_FIX_ACCURACY":     100.0,
	"CORS_ALLOWED_ORIGINS": "*",
}

// Load reads .env (if present) and then the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}
	return FromViper(viper.New())
}

// FromViper applies defaults and environment lookups to v and decodes the result
func FromViper(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// AllowedOrigins splits CORSOrigins into a list
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
