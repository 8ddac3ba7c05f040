// Package config loads runtime configuration for the query engine: the
// response-cache policy, the SPARQL-UPDATE conflict retry ladder, and
// translator prefixes registered at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config represents the library's runtime configuration.
type Config struct {
	Cache      CacheConfig      `mapstructure:"cache"`
	Retry      RetryConfig      `mapstructure:"retry"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Debug      bool             `mapstructure:"debug"`
}

// CacheConfig controls the response cache described in spec §5.
type CacheConfig struct {
	// TTL is how long a GET response is trusted before being re-fetched.
	TTL time.Duration `mapstructure:"ttl"`
	// Backend selects the cache store. Only "memory" is built in.
	Backend string `mapstructure:"backend"`
}

// RetryConfig controls the 409-conflict retry ladder (§4.4.5).
type RetryConfig struct {
	// ConflictRetries is how many times a PATCH is replayed verbatim
	// after a 409 before falling back to PUT.
	ConflictRetries int `mapstructure:"conflict_retries"`
	// PUTFallback enables the PUT-with-same-body retry step.
	PUTFallback bool `mapstructure:"put_fallback"`
}

// TranslatorConfig seeds the SPARQL translator's prefix registry.
type TranslatorConfig struct {
	// ExtraPrefixes are registered in addition to the fixed prefixes
	// (rdf, rdfs, schema, foaf, dc, solid, ldp, xsd) before the first query.
	ExtraPrefixes map[string]string `mapstructure:"extra_prefixes"`
}

// Default returns the configuration used when the caller does not load
// one explicitly.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			TTL:     5 * time.Minute,
			Backend: "memory",
		},
		Retry: RetryConfig{
			ConflictRetries: 1,
			PUTFallback:     true,
		},
		Translator: TranslatorConfig{
			ExtraPrefixes: map[string]string{},
		},
	}
}

// Load reads configuration from environment variables (prefixed
// DRIZZLE_SOLID_) and an optional .env file, falling back to Default()
// for anything unset. envFile may be empty to skip .env loading.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Debug().Err(err).Str("file", envFile).Msg("no .env file loaded")
		}
	}

	v := viper.New()
	v.SetEnvPrefix("DRIZZLE_SOLID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.backend", cfg.Cache.Backend)
	v.SetDefault("retry.conflict_retries", cfg.Retry.ConflictRetries)
	v.SetDefault("retry.put_fallback", cfg.Retry.PUTFallback)
	v.SetDefault("debug", cfg.Debug)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}
