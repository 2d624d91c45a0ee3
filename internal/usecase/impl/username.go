package impl

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	usernameBaseMaxLen   = 20
	usernameSuffixBytes  = 3 // hex-encoded to 6 characters
	usernameFallbackBase = "user"
)

var usernameStripPattern = regexp.MustCompile(`[^a-z0-9_]+`)

// generateUsername derives a unique handle candidate from a display name:
// lowercase, strip everything outside [a-z0-9_], truncate the base, then
// append a random hex suffix as disambiguator. The caller still checks the
// result against storage since randomness alone does not guarantee uniqueness.
func generateUsername(displayName string) string {
	base := strings.ToLower(strings.TrimSpace(displayName))
	base = usernameStripPattern.ReplaceAllString(base, "")
	if len(base) > usernameBaseMaxLen {
		base = base[:usernameBaseMaxLen]
	}
	if base == "" {
		base = usernameFallbackBase
	}

	suffix := make([]byte, usernameSuffixBytes)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		panic(err)
	}

	return base + hex.EncodeToString(suffix)
}
