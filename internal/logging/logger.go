// Package logging configures the package-level zerolog logger used
// throughout the query engine for non-fatal diagnostics: retry
// attempts, cache invalidation, and fallback-path dispatch decisions.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.Mutex
	log = defaultLogger()
)

func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Configure sets the global logger's output mode. When pretty is true,
// output is a human-readable console writer; otherwise structured JSON.
func Configure(pretty bool, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()

	var w zerolog.Logger
	if pretty {
		w = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		w = defaultLogger()
	}
	log = w.Level(level)
}

// Get returns the shared logger.
func Get() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return &log
}
