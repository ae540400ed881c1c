package reconstruct

import (
	"strconv"
	"strings"
	"time"

	"cdrgate/internal/sanitize"
)

// Caps for envelope reconstruction.
const (
	maxMetaLen      = 50
	maxVersionLen   = 20
	maxCounter      = 100000
	maxErrorLen     = 500
	maxFeedErrors   = 50
	maxFeedErrorLen = 200
)

// defaultVersion is stamped when the input omits a metadata version.
const defaultVersion = "0.1.0"

// counterFields are clamped to [0, maxCounter].
var counterFields = []string{"total_scraped", "total_fetched", "total_relevant"}

// handledDataKeys never fall through to generic reconstruction, even
// when their value failed its explicit check and was dropped.
var handledDataKeys = map[string]bool{
	"date":           true,
	"source_url":     true,
	"total_scraped":  true,
	"total_fetched":  true,
	"total_relevant": true,
	"articles":       true,
	"error":          true,
	"feed_errors":    true,
}

// Envelope rebuilds a complete fetcher output document. The metadata
// and data sections are only emitted when the input carries them as
// objects; cleaned_at is always stamped fresh and never copied from
// input, closing a spoofing vector.
func Envelope(raw any) map[string]any {
	clean := map[string]any{}

	obj, ok := raw.(map[string]any)
	if !ok {
		return clean
	}

	if meta, isObj := obj["metadata"].(map[string]any); isObj {
		clean["metadata"] = rebuildMetadata(meta)
	}

	if data, isObj := obj["data"].(map[string]any); isObj {
		clean["data"] = rebuildData(data)
	}

	return clean
}

func rebuildMetadata(meta map[string]any) map[string]any {
	// The default applies only when the field is absent; a present
	// version that sanitizes to empty stays empty.
	version := defaultVersion
	if raw, present := meta["version"]; present {
		version = sanitize.Text(sanitize.Stringify(raw), maxVersionLen)
	}

	return map[string]any{
		"source_name":     sanitize.Text(sanitize.Stringify(meta["source_name"]), maxMetaLen),
		"fetch_timestamp": sanitize.Text(sanitize.Stringify(meta["fetch_timestamp"]), maxMetaLen),
		"date":            sanitize.Text(sanitize.Stringify(meta["date"]), maxDateLen),
		"version":         version,
		"cleaned_at":      time.Now().UTC().Format("2006-01-02T15:04:05.000000Z07:00"),
	}
}

func rebuildData(data map[string]any) map[string]any {
	clean := map[string]any{}

	if v, present := data["date"]; present {
		clean["date"] = sanitize.Text(sanitize.Stringify(v), maxDateLen)
	}

	if v, present := data["source_url"]; present {
		if u, valid := sanitize.URL(v); valid {
			clean["source_url"] = u
		}
	}

	for _, field := range counterFields {
		if v, present := data[field]; present {
			clean[field] = clampCounter(v)
		}
	}

	if v, present := data["articles"]; present {
		if list, isList := v.([]any); isList {
			if len(list) > MaxArrayLen {
				list = list[:MaxArrayLen]
			}

			articles := make([]any, 0, len(list))

			for _, item := range list {
				if art := Article(item); art != nil {
					articles = append(articles, art)
				}
			}

			clean["articles"] = articles
		}
	}

	if v, present := data["error"]; present {
		clean["error"] = sanitize.Text(sanitize.Stringify(v), maxErrorLen)
	}

	if v, present := data["feed_errors"]; present {
		if list, isList := v.([]any); isList {
			if len(list) > maxFeedErrors {
				list = list[:maxFeedErrors]
			}

			feedErrors := make([]any, 0, len(list))

			for _, item := range list {
				entry, isObj := item.(map[string]any)
				if !isObj {
					continue
				}

				feed, valid := sanitize.URL(entry["feed"])
				if !valid {
					feed = "unknown"
				}

				feedErrors = append(feedErrors, map[string]any{
					"feed":  feed,
					"error": sanitize.Text(sanitize.Stringify(entry["error"]), maxFeedErrorLen),
				})
			}

			clean["feed_errors"] = feedErrors
		}
	}

	// Unknown source-specific fields survive in bounded, sanitized
	// form rather than being lost or trusted verbatim. The guard is on
	// the output map, not the input key: a hostile key that sanitizes
	// to a handled name must not overwrite the schema-cleaned entry.
	for key, value := range data {
		if handledDataKeys[key] {
			continue
		}

		cleanKey := sanitize.Text(key, sanitize.MaxKeyLen)
		if _, taken := clean[cleanKey]; taken {
			continue
		}

		clean[cleanKey] = Value(value, 0)
	}

	return clean
}

// clampCounter coerces a value to an integer in [0, maxCounter].
// Anything non-numeric becomes 0.
func clampCounter(v any) int {
	var n int

	switch val := v.(type) {
	case float64:
		// Range-check before converting; out-of-range float-to-int
		// conversions are not defined.
		if val < 0 {
			return 0
		}

		if val > maxCounter {
			return maxCounter
		}

		n = int(val)
	case bool:
		if val {
			n = 1
		}
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}

		n = parsed
	default:
		return 0
	}

	if n < 0 {
		return 0
	}

	if n > maxCounter {
		return maxCounter
	}

	return n
}
