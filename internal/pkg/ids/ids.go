// Package ids derives deterministic canonical identifiers from semantic
// fields. The same inputs always produce the same id, which is what the
// storage layer relies on for merge-on-conflict upserts.
package ids

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// maxCleanLength is the longest id kept verbatim; anything longer is hashed.
const maxCleanLength = 100

var unsafeChars = regexp.MustCompile(`[^a-z0-9_]+`)

// Generate builds a canonical id from the given parts. Parts are joined with
// underscores, lower-cased, whitespace collapsed to underscores and all
// characters outside [a-z0-9_] stripped. Empty parts are skipped. When the
// cleaned string exceeds 100 characters a 16-char hex digest is returned
// instead, so ids stay short enough for index keys.
func Generate(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, strings.ToLower(p))
		}
	}
	combined := strings.Join(kept, "_")
	combined = strings.Join(strings.Fields(combined), "_")
	clean := unsafeChars.ReplaceAllString(combined, "")
	if len(clean) > maxCleanLength {
		sum := sha1.Sum([]byte(clean))
		return hex.EncodeToString(sum[:])[:16]
	}
	return clean
}
