package pod

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
)

const ldpBasicContainerLink = `<http://www.w3.org/ns/ldp#BasicContainer>; rel="type"`

// headStatus issues a HEAD for url, falling back to GET when the
// server responds 405 (spec §4.4.1).
func (d *Dialect) headStatus(ctx context.Context, url string) (int, error) {
	resp, err := d.session.Fetch(ctx, "HEAD", url, nil, nil)
	if err != nil {
		return 0, err
	}
	if resp.Status == 405 {
		resp, err = d.session.Fetch(ctx, "GET", url, nil, nil)
		if err != nil {
			return 0, err
		}
	}
	return resp.Status, nil
}

// ensureContainer HEADs table's container and PUTs an empty LDP
// BasicContainer on 404. A 409 on that PUT means the container was
// created concurrently and is treated as success.
func (d *Dialect) ensureContainer(ctx context.Context, table *schema.Table) error {
	containerURL := table.ContainerURL(d.base)
	status, err := d.headStatus(ctx, containerURL)
	if err != nil {
		return err
	}
	if status != 404 {
		return nil
	}

	resp, err := d.session.Fetch(ctx, "PUT", containerURL, map[string]string{
		"Link":         ldpBasicContainerLink,
		"Content-Type": "text/turtle",
	}, nil)
	if err != nil {
		return err
	}
	if is2xx(resp.Status) || resp.Status == 409 {
		return nil
	}
	return transportErrorFrom(containerURL, resp)
}

// ensureResource HEADs a resource; on 404 it PUTs an empty Turtle body
// and reports created=true. Used only by insert (spec §4.4.1/4.4.2).
func (d *Dialect) ensureResource(ctx context.Context, resourceURL string) (created bool, err error) {
	status, err := d.headStatus(ctx, resourceURL)
	if err != nil {
		return false, err
	}
	if status != 404 {
		return false, nil
	}

	resp, err := d.session.Fetch(ctx, "PUT", resourceURL, map[string]string{"Content-Type": "text/turtle"}, []byte{})
	if err != nil {
		return false, err
	}
	if is2xx(resp.Status) || resp.Status == 409 {
		return true, nil
	}
	return false, transportErrorFrom(resourceURL, resp)
}

// requireResource HEADs a resource and fails with NotFoundError on 404
// (the update preflight, spec §4.4.1).
func (d *Dialect) requireResource(ctx context.Context, resourceURL string) error {
	status, err := d.headStatus(ctx, resourceURL)
	if err != nil {
		return err
	}
	if status == 404 {
		return &drizzleerr.NotFoundError{URL: resourceURL}
	}
	return nil
}

// resourceExists HEADs a resource and reports whether it exists,
// without raising an error on 404 (the delete preflight, spec §4.4.4).
func (d *Dialect) resourceExists(ctx context.Context, resourceURL string) (bool, error) {
	status, err := d.headStatus(ctx, resourceURL)
	if err != nil {
		return false, err
	}
	return status != 404, nil
}
