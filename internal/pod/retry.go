package pod

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/logging"
)

// RetryPolicy controls the 409-conflict retry ladder applied to SPARQL
// UPDATE transport (spec §4.4.5).
type RetryPolicy struct {
	// ConflictRetries is how many times the original PATCH is replayed
	// verbatim after a 409 before falling back to PUT.
	ConflictRetries int
	// PUTFallback enables the final PUT-with-same-body retry step.
	PUTFallback bool
}

const sparqlUpdateContentType = "application/sparql-update"

func is2xx(status int) bool { return status >= 200 && status < 300 }

// sparqlUpdate issues the SPARQL UPDATE transport for body against
// resourceURL: PATCH, retried per policy on 409, invalidating the
// response cache on any eventual success.
func (d *Dialect) sparqlUpdate(ctx context.Context, resourceURL, body string) error {
	headers := map[string]string{"Content-Type": sparqlUpdateContentType}

	resp, err := d.session.Fetch(ctx, "PATCH", resourceURL, headers, []byte(body))
	if err != nil {
		return err
	}
	if is2xx(resp.Status) {
		d.cache.Invalidate(resourceURL)
		return nil
	}
	if resp.Status != 409 {
		return transportErrorFrom(resourceURL, resp)
	}

	for i := 0; i < d.retry.ConflictRetries; i++ {
		logging.Get().Debug().Str("url", resourceURL).Int("attempt", i+1).Msg("pod: retrying SPARQL UPDATE after 409")
		retryResp, retryErr := d.session.Fetch(ctx, "PATCH", resourceURL, headers, []byte(body))
		if retryErr == nil && is2xx(retryResp.Status) {
			d.cache.Invalidate(resourceURL)
			return nil
		}
		resp = retryResp
	}

	if d.retry.PUTFallback {
		logging.Get().Debug().Str("url", resourceURL).Msg("pod: falling back to PUT after conflict retries exhausted")
		putResp, putErr := d.session.Fetch(ctx, "PUT", resourceURL, headers, []byte(body))
		if putErr == nil && is2xx(putResp.Status) {
			d.cache.Invalidate(resourceURL)
			return nil
		}
		resp = putResp
	}

	return transportErrorFrom(resourceURL, resp)
}

func transportErrorFrom(url string, resp *HTTPResponse) error {
	if resp == nil {
		return &drizzleerr.TransportError{URL: url}
	}
	return &drizzleerr.TransportError{
		Status:     resp.Status,
		StatusText: resp.Headers["Status-Text"],
		Body:       string(resp.Body),
		URL:        url,
	}
}
