package pod

import (
	"net/url"
	"strings"
)

// podBaseFromWebID derives "podBase + userPath" from a webId like
// "scheme://host/<user>/…#frag", per spec §3: podBase =
// scheme://host, userPath = /<user>/.
func podBaseFromWebID(webID string) (string, error) {
	u, err := url.Parse(webID)
	if err != nil {
		return "", err
	}
	base := u.Scheme + "://" + u.Host

	path := u.Path
	path = strings.TrimPrefix(path, "/")
	user := path
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		user = path[:idx]
	}
	if user == "" {
		return base + "/", nil
	}
	return base + "/" + user + "/", nil
}
