package util

import (
	"net/url"
	"strings"
)

// CanonicalizeURL reduces raw to a stable dedup key: lowercased, no query,
// no fragment, no trailing slash. Applying it twice yields the same string.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Path = strings.TrimSuffix(u.Path, "/")

	return strings.ToLower(u.String())
}
