package validator

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Security limits enforced by the validator. The string cap is looser
// than the reconstructor's because this pass runs on output that is
// already supposed to be bounded.
const (
	// MaxStringLen fails any string leaf longer than this.
	MaxStringLen = 100000
	// MaxURLLen fails any URL-bearing field longer than this.
	MaxURLLen = 2048
	// snippetLen truncates the matched substring quoted in errors.
	snippetLen = 50
)

// suspiciousPatterns should never appear in fetched data. The list is
// crafted to minimize false positives while catching real threats:
// single "../" can be legitimate prose, "../../" cannot.
var suspiciousPatterns = []string{
	`<script[^>]*>`,
	`javascript:`,
	`data:text/html`,
	`on(click|error|load|mouseover|focus|blur)\s*=`,
	`\.\./\.\./`,
	`file://`,
	`\\x[0-9a-fA-F]{2}\\x[0-9a-fA-F]{2}`,
	`eval\s*\(`,
	`document\.(write|cookie|location|body|head|getElementById|querySelector)`,
	`window\.(location|open|eval|execScript)`,
	`<iframe[^>]*>`,
	`<object[^>]*>`,
	`<embed[^>]*>`,
}

// suspiciousRegex is the single compiled alternation scanned against
// every string leaf.
var suspiciousRegex = regexp.MustCompile(`(?i)` + strings.Join(suspiciousPatterns, "|"))

// urlFieldNames marks path segments whose values are held to the full
// URL policy.
var urlFieldNames = map[string]bool{
	"url":        true,
	"source_url": true,
	"link":       true,
	"href":       true,
	"image_url":  true,
	"thumbnail":  true,
}

// dangerousProtocols are forbidden in any string, URL field or not.
var dangerousProtocols = []string{"javascript:", "data:text/html", "file://", "vbscript:"}

// metadataFields is the expected-key intersection for the metadata
// structural check.
var metadataFields = []string{"source_name", "fetch_timestamp", "date"}

// CheckStructure validates the expected envelope shape. The root must
// be an object; a metadata member, when present, must be an object
// carrying at least one of the expected fields.
func CheckStructure(doc any) error {
	root, ok := doc.(map[string]any)
	if !ok {
		return newError(KindStructural, "", "root must be a JSON object")
	}

	rawMeta, present := root["metadata"]
	if !present {
		// Raw data format without an envelope is allowed.
		return nil
	}

	meta, ok := rawMeta.(map[string]any)
	if !ok {
		return newError(KindStructural, "metadata", "metadata must be an object")
	}

	for _, field := range metadataFields {
		if _, found := meta[field]; found {
			return nil
		}
	}

	return newError(KindStructural, "metadata", "missing expected fields: %s",
		strings.Join(metadataFields, ", "))
}

// CheckValue recursively validates a JSON value, accumulating a
// dotted/bracketed path so every failure is attributable to an exact
// location. The first violation found depth-first wins; numbers,
// bools and nulls are safe by construction.
func CheckValue(value any, path string) error {
	switch v := value.(type) {
	case string:
		return checkString(v, path)

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		// Parsed objects lose their document order; sorted keys keep
		// failure reports deterministic.
		sort.Strings(keys)

		for _, k := range keys {
			childPath := k
			if path != "" {
				childPath = path + "." + k
			}

			if err := CheckValue(v[k], childPath); err != nil {
				return err
			}
		}

	case []any:
		for i, item := range v {
			if err := CheckValue(item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkString(s, path string) error {
	if len(s) > MaxStringLen {
		return newError(KindTooLong, path, "string length %d > %d", len(s), MaxStringLen)
	}

	if match := suspiciousRegex.FindString(s); match != "" {
		return newError(KindSuspiciousPattern, path, "%q", truncate(match, snippetLen))
	}

	if strings.HasPrefix(s, "/etc/") || strings.HasPrefix(s, "/proc/") {
		return newError(KindPathTraversal, path, "%s", truncate(s, 100))
	}

	if isURLField(path) && (strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")) {
		return checkURL(s, path)
	}

	if strings.Contains(s, "://") {
		lower := strings.ToLower(s)
		for _, proto := range dangerousProtocols {
			if strings.Contains(lower, proto) {
				return newError(KindDangerousProtocol, path, "%s", proto)
			}
		}
	}

	return nil
}

// checkURL applies the full URL policy to a recognized URL-bearing
// field. This policy is deliberately more permissive than the
// reconstructor's allow-list: it runs on already-sanitized output, so
// it only forbids what must never cross the boundary.
func checkURL(url, path string) error {
	if len(url) > MaxURLLen {
		return newError(KindTooLong, path, "URL length %d > %d", len(url), MaxURLLen)
	}

	if strings.Contains(url, "..") {
		return newError(KindPathTraversal, path, "%s", truncate(url, 100))
	}

	lower := strings.ToLower(url)
	for _, proto := range dangerousProtocols {
		if strings.Contains(lower, proto) {
			return newError(KindDangerousProtocol, path, "%s", proto)
		}
	}

	return nil
}

// isURLField reports whether the last segment of a field path names a
// URL-bearing field.
func isURLField(path string) bool {
	if path == "" {
		return false
	}

	segments := strings.Split(strings.ToLower(path), ".")
	last := segments[len(segments)-1]

	// Strip an array index suffix like "links[3]".
	if i := strings.IndexByte(last, '['); i >= 0 {
		last = last[:i]
	}

	return urlFieldNames[last]
}

// truncate cuts s to at most n runes, never splitting a multi-byte
// character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
