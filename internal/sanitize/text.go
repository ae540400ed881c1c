// Package sanitize provides the scalar sanitizers used during content
// disarm and reconstruction. Every function here fails closed: input
// that is not understood becomes an empty string or a rejected URL,
// never a pass-through.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Size limits applied during sanitization. These are security bounds
// and are deliberately not configurable.
const (
	// MaxTextLen is the default cap for free-text fields.
	MaxTextLen = 50000
	// MaxKeyLen is the cap for object keys.
	MaxKeyLen = 200
	// MaxURLLen is the cap for URLs.
	MaxURLLen = 2048
)

// Ellipsis is appended to any text truncated at its length cap.
const Ellipsis = "..."

// stripPolicy removes every markup tag. The allow-list is empty on
// purpose: this is reconstruction, not filtering. Script-like elements
// additionally lose their text content, so "<script>alert(1)</script>"
// sanitizes to nothing rather than to "alert(1)".
var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.SkipElementsContent("script", "style", "iframe", "object", "embed", "noscript")

	return p
}()

// whitespaceRun matches excessive whitespace, including unicode spaces.
var whitespaceRun = regexp.MustCompile(`[\s\p{Z}]{10,}`)

// Text sanitizes a single free-text value. Anything that is not a
// string returns "" immediately.
//
// Pipeline order: drop control characters (keeping \n and \t), strip
// markup, collapse runs of 10+ whitespace characters to two spaces,
// truncate to maxLen runes with an ellipsis marker, trim. Control
// characters go first because the HTML tokenizer would otherwise turn
// NUL into U+FFFD instead of letting it be dropped; removing them
// before tokenizing also collapses NUL-split tag obfuscation into
// plain markup, which the strip then removes.
func Text(value any, maxLen int) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}

	clean := strings.Map(dropControl, s)

	clean = stripPolicy.Sanitize(clean)

	clean = whitespaceRun.ReplaceAllString(clean, "  ")

	if runes := []rune(clean); len(runes) > maxLen {
		clean = string(runes[:maxLen]) + Ellipsis
	}

	return strings.TrimSpace(clean)
}

// dropControl removes C0 and C1 control characters except newline and
// tab. DEL (0x7f) is treated as a control character.
func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}

	if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
		return -1
	}

	return r
}

// Stringify renders a value to its string form so schema-aware
// reconstruction can coerce before sanitizing. Nil renders as "".
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
