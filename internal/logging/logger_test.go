package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigureChangesLevel(t *testing.T) {
	Configure(true, zerolog.WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, Get().GetLevel())

	Configure(false, zerolog.DebugLevel)
	assert.Equal(t, zerolog.DebugLevel, Get().GetLevel())
}

func TestGetReturnsUsableLogger(t *testing.T) {
	l := Get()
	assert.NotPanics(t, func() {
		l.Debug().Str("component", "test").Msg("diagnostic")
	})
}
