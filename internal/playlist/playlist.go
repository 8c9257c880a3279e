// Package playlist resolves user-supplied playlist references to a bare playlist ID.
package playlist

import (
	"regexp"
	"strings"
)

var (
	uriPattern  = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*:playlist:([A-Za-z0-9]+)`)
	pathPattern = regexp.MustCompile(`playlist/([A-Za-z0-9]+)`)
	bareID      = regexp.MustCompile(`^[A-Za-z0-9]{8,40}$`)
)

// ExtractID returns the playlist ID referenced by input.
//
// Accepted forms, tried in order:
//   - a URI such as spotify:playlist:<id>
//   - a URL whose path contains /playlist/<id>, with any query string ignored
//   - a bare ID of 8 to 40 alphanumeric characters
//
// The structured forms win over the bare form so that URLs are never taken verbatim.
func ExtractID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	input, _, _ = strings.Cut(input, "?")

	if m := uriPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}

	if m := pathPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}

	if bareID.MatchString(input) {
		return input, true
	}

	return "", false
}
