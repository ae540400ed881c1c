package reconstruct

import (
	"regexp"

	"cdrgate/internal/sanitize"
)

// Per-field caps for article reconstruction.
const (
	maxTitleLen    = 500
	maxBodyLen     = sanitize.MaxTextLen
	maxDateLen     = 20
	maxOptionalLen = 100
	maxTagLen      = 50
	maxTags        = 20
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// urlFields is scanned in order; the first present-and-valid URL wins
// and the rest are discarded, never merged.
var urlFields = []string{"source_url", "url", "link"}

// bodyFields are sanitized independently of each other, all at the
// long-text cap.
var bodyFields = []string{"body", "body_text", "content", "summary", "description"}

// Article rebuilds an article object using a strict field whitelist.
// Fields outside the whitelist are dropped; this function never falls
// back to generic reconstruction. Returns nil when the rebuilt article
// has neither a non-empty title nor a valid source URL, so empty husks
// are discarded instead of emitted.
func Article(raw any) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	clean := map[string]any{}

	for _, field := range []string{"title", "source"} {
		if v, present := obj[field]; present {
			if s := sanitize.Text(sanitize.Stringify(v), maxTitleLen); s != "" {
				clean[field] = s
			}
		}
	}

	for _, field := range urlFields {
		v, present := obj[field]
		if !present {
			continue
		}

		if u, valid := sanitize.URL(v); valid {
			clean[field] = u

			break
		}
	}

	for _, field := range bodyFields {
		if v, present := obj[field]; present {
			clean[field] = sanitize.Text(sanitize.Stringify(v), maxBodyLen)
		}
	}

	// Date survives only when it looks like one; otherwise the field
	// is dropped entirely, not defaulted.
	if v, present := obj["date"]; present {
		date := sanitize.Stringify(v)
		if runes := []rune(date); len(runes) > maxDateLen {
			date = string(runes[:maxDateLen])
		}

		if datePrefix.MatchString(date) {
			clean["date"] = date
		}
	}

	for _, field := range []string{"language", "category", "author"} {
		if v, present := obj[field]; present {
			clean[field] = sanitize.Text(sanitize.Stringify(v), maxOptionalLen)
		}
	}

	if v, present := obj["relevance_tags"]; present {
		if tags, isList := v.([]any); isList {
			if len(tags) > maxTags {
				tags = tags[:maxTags]
			}

			cleanTags := make([]any, len(tags))
			for i, tag := range tags {
				cleanTags[i] = sanitize.Text(sanitize.Stringify(tag), maxTagLen)
			}

			clean["relevance_tags"] = cleanTags
		}
	}

	// The gate is on source_url specifically: a valid url or link alone
	// does not justify keeping an otherwise empty article.
	title, _ := clean["title"].(string)
	sourceURL, _ := clean["source_url"].(string)

	if title == "" && sourceURL == "" {
		return nil
	}

	return clean
}
