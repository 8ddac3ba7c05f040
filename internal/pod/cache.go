package pod

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/logging"
)

// storage is the subset of github.com/gofiber/storage's Storage
// interface this cache needs; memory.New() satisfies it structurally.
type storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// ResponseCache is the process-wide GET response cache described in
// spec §5: keyed by resource URL, TTL-based expiry, invalidated
// immediately after any successful write to that URL. Concurrent
// cache misses for the same URL are collapsed via singleflight so a
// burst of readers triggers one upstream fetch.
type ResponseCache struct {
	store storage
	ttl   time.Duration
	group singleflight.Group
}

// NewResponseCache wraps store with the configured TTL.
func NewResponseCache(store storage, ttl time.Duration) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl}
}

// GetOrFetch returns the cached body for url if present, otherwise
// calls fetch, caches a successful result, and returns it.
func (c *ResponseCache) GetOrFetch(url string, fetch func() ([]byte, error)) ([]byte, error) {
	if body, err := c.store.Get(url); err == nil && body != nil {
		return body, nil
	}

	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		body, err := fetch()
		if err != nil {
			return nil, err
		}
		if setErr := c.store.Set(url, body, c.ttl); setErr != nil {
			logging.Get().Warn().Err(setErr).Str("url", url).Msg("pod: response cache write failed")
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops the cached entry for url, e.g. after a successful write.
func (c *ResponseCache) Invalidate(url string) {
	if err := c.store.Delete(url); err != nil {
		logging.Get().Warn().Err(err).Str("url", url).Msg("pod: response cache invalidate failed")
	}
}

// cachingSession wraps a Session so that GET requests are served from
// the response cache; every other method (and every non-GET method)
// passes straight through. Only the SPARQL engine's internal resource
// fetches are routed through this wrapper — preflight HEADs and the
// UPDATE transport always talk to the bare Session so they observe the
// resource's true current state.
type cachingSession struct {
	Session
	cache *ResponseCache
}

func (s *cachingSession) Fetch(ctx context.Context, method, url string, headers map[string]string, body []byte) (*HTTPResponse, error) {
	if method != "GET" {
		return s.Session.Fetch(ctx, method, url, headers, body)
	}

	data, err := s.cache.GetOrFetch(url, func() ([]byte, error) {
		resp, ferr := s.Session.Fetch(ctx, method, url, headers, body)
		if ferr != nil {
			return nil, ferr
		}
		if resp.Status != 200 {
			return nil, transportErrorFrom(url, resp)
		}
		return resp.Body, nil
	})
	if err != nil {
		if te, ok := drizzleerr.AsTransportError(err); ok {
			return &HTTPResponse{Status: te.Status, Body: []byte(te.Body)}, nil
		}
		return nil, err
	}
	return &HTTPResponse{Status: 200, Body: data}, nil
}
