package schema

import (
	"net/url"
	"strings"
)

// ContainerURL joins a pod base (scheme://host + userPath, as derived
// from a webId by the session layer) with this table's containerPath.
// containerPath is relative by default, nested under podBaseAndUser's
// user segment; an absolute containerPath (a full scheme://host/...
// URI, or a leading-"/" path) passes through instead, resolved against
// the bare scheme+host rather than appended onto podBaseAndUser
// verbatim, per spec §3 ("absolute containerPath passes through").
func (t *Table) ContainerURL(podBaseAndUser string) string {
	switch {
	case isAbsoluteURI(t.ContainerPath):
		return t.ContainerPath
	case strings.HasPrefix(t.ContainerPath, "/"):
		return schemeAndHost(podBaseAndUser) + t.ContainerPath
	default:
		return podBaseAndUser + t.ContainerPath
	}
}

// ResourceURL is the Turtle resource this table's rows live in:
// <containerURL><name>.ttl.
func (t *Table) ResourceURL(podBaseAndUser string) string {
	return t.ContainerURL(podBaseAndUser) + t.Name + ".ttl"
}

// SubjectURI derives the RDF subject URI for a row with the given id
// value, per spec §3: <containerUrl without trailing "/">#<id>.
func (t *Table) SubjectURI(podBaseAndUser, id string) string {
	return strings.TrimSuffix(t.ContainerURL(podBaseAndUser), "/") + "#" + id
}

// schemeAndHost extracts "scheme://host" from podBaseAndUser, so an
// absolute (leading-"/") containerPath resolves against the Pod's
// host root instead of nesting under the webId's user segment. Falls
// back to podBaseAndUser unchanged if it doesn't parse as a URL.
func schemeAndHost(podBaseAndUser string) string {
	u, err := url.Parse(podBaseAndUser)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return podBaseAndUser
	}
	return u.Scheme + "://" + u.Host
}
