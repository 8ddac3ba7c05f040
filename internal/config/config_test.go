package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 1, cfg.Retry.ConflictRetries)
	assert.True(t, cfg.Retry.PUTFallback)
	assert.NotNil(t, cfg.Translator.ExtraPrefixes)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default().Cache.TTL, cfg.Cache.TTL)
}

func TestLoadMissingEnvFileIsNotFatal(t *testing.T) {
	cfg, err := Load("/nonexistent/path/.env")
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
}
