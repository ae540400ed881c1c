package sanitize

import "strings"

// dangerousTokens rejects a URL outright wherever they appear,
// including inside a query string. Substring containment on the
// lowercased URL, not word-boundary matching.
var dangerousTokens = []string{
	"javascript:",
	"data:",
	"vbscript:",
	"file:",
	"<script",
	"onerror=",
}

// URL validates and sanitizes a URL value. The second return is false
// for anything that is not an acceptable http/https URL; callers treat
// that as a normal outcome and omit the field.
func URL(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}

	s = strings.TrimSpace(s)

	// Case-sensitive prefix check, no scheme normalization.
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "", false
	}

	lower := strings.ToLower(s)
	for _, tok := range dangerousTokens {
		if strings.Contains(lower, tok) {
			return "", false
		}
	}

	if len(s) > MaxURLLen {
		return "", false
	}

	return s, true
}
