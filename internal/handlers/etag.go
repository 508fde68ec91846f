package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ETag computes a strong validator for a response payload.
func ETag(payload []byte) string {
	sum := sha256.Sum256(payload)

	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// ETagMatches reports whether an If-None-Match header matches etag. The
// header may carry a comma-separated list; weak validators compare by
// their opaque part and "*" matches any representation.
func ETagMatches(header, etag string) bool {
	if header == "" {
		return false
	}

	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")

		if candidate == "*" || candidate == etag {
			return true
		}
	}

	return false
}
