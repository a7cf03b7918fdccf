package auth

import (
	"strconv"
	"strings"
)

const minUsernameBaseLen = 3

// usernameBase derives the seed for generated usernames: the display
// name stripped to lowercase alphanumerics, falling back to the email
// local part. A too-short seed gets a neutral prefix so suffixing still
// yields readable names.
func usernameBase(displayName, email string) string {
	base := sanitizeUsername(displayName)
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = sanitizeUsername(local)
	}
	if base == "" {
		base = "user"
	}
	if len(base) < minUsernameBaseLen {
		base = "user" + base
	}
	return base
}

// usernameCandidate returns base for the first attempt, then base1,
// base2, ... for retries.
func usernameCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return base + strconv.Itoa(attempt)
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
