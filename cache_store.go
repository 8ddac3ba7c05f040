package drizzlesolid

import (
	"time"

	"github.com/gofiber/storage/memory/v2"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
)

// cacheStore is the subset of fiber.Storage the response cache needs;
// memory.Storage satisfies it structurally.
type cacheStore interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// newCacheStore builds the response-cache backing store named by
// backend. "memory" (or an empty name) is the only backend; any other
// name is rejected with a ProgrammerError, and Open offers no way to
// supply a different store.
func newCacheStore(backend string) (cacheStore, error) {
	switch backend {
	case "", "memory":
		return memory.New(memory.Config{GCInterval: 10 * time.Minute}), nil
	default:
		return nil, drizzleerr.NewProgrammerError("drizzlesolid: unknown cache backend %q", backend)
	}
}
