package ingestion

import (
	"crypto/rand"
	"strings"
)

const (
	slugAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	slugSuffixLength = 6
)

// GenerateSlug derives a URL-safe candidate slug from seed: the sanitized
// seed, a hyphen, and a 6-character random alphanumeric suffix. The suffix
// space (62^6) makes collisions improbable, not impossible; global
// uniqueness is the persistence layer's problem.
func GenerateSlug(seed string) string {
	return sanitizeSeed(seed) + "-" + randomSuffix()
}

// sanitizeSeed lowercases the seed and strips everything that is not a
// letter, digit, or hyphen. Whitespace runs collapse to single hyphens. An
// empty result falls back to "profile" so a slug is never suffix-only.
func sanitizeSeed(seed string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(seed)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "profile"
	}
	return out
}

func randomSuffix() string {
	buf := make([]byte, slugSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in far worse trouble
		// than a slug; rand.Read documents that it does not fail in practice.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf)
}

// ValidSlug reports whether s is acceptable as a caller-chosen slug:
// non-empty, letters, digits, and interior hyphens only. Generated slugs
// (mixed-case suffix) pass this check, so users can re-save them unchanged.
func ValidSlug(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
