package reconstruct

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEnvelope_Metadata(t *testing.T) {
	raw := map[string]any{
		"metadata": map[string]any{
			"source_name":     "mfa",
			"fetch_timestamp": "2026-02-03T08:00:00Z",
			"date":            "2026-02-03",
			"version":         "1.2.0",
			"cleaned_at":      "1999-01-01T00:00:00Z",
		},
	}

	got := Envelope(raw)

	meta, ok := got["metadata"].(map[string]any)
	if !ok {
		t.Fatal("metadata section missing")
	}

	if meta["source_name"] != "mfa" || meta["date"] != "2026-02-03" || meta["version"] != "1.2.0" {
		t.Errorf("metadata fields mangled: %v", meta)
	}

	// cleaned_at is stamped fresh, never copied from input.
	cleanedAt, _ := meta["cleaned_at"].(string)
	if cleanedAt == "1999-01-01T00:00:00Z" {
		t.Fatal("cleaned_at copied from input")
	}

	parsed, err := time.Parse("2006-01-02T15:04:05.000000Z07:00", cleanedAt)
	if err != nil {
		t.Fatalf("cleaned_at %q not ISO-8601 UTC: %v", cleanedAt, err)
	}

	if time.Since(parsed) > time.Minute {
		t.Errorf("cleaned_at %q is not fresh", cleanedAt)
	}
}

func TestEnvelope_MetadataDefaults(t *testing.T) {
	got := Envelope(map[string]any{"metadata": map[string]any{}})

	meta := got["metadata"].(map[string]any)
	if meta["version"] != "0.1.0" {
		t.Errorf("version default = %v, want 0.1.0", meta["version"])
	}

	if meta["source_name"] != "" {
		t.Errorf("source_name default = %v, want empty", meta["source_name"])
	}
}

func TestEnvelope_SectionsOnlyWhenObjects(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "Empty object", raw: map[string]any{}},
		{name: "Non-object root", raw: []any{"x"}},
		{name: "Metadata is a string", raw: map[string]any{"metadata": "nope"}},
		{name: "Data is an array", raw: map[string]any{"data": []any{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Envelope(tt.raw)

			if _, present := got["metadata"]; present {
				t.Errorf("metadata emitted for %v", tt.raw)
			}

			if _, present := got["data"]; present {
				t.Errorf("data emitted for %v", tt.raw)
			}
		})
	}
}

func TestEnvelope_Counters(t *testing.T) {
	raw := map[string]any{
		"data": map[string]any{
			"total_scraped":  float64(150000),
			"total_fetched":  float64(-3),
			"total_relevant": "12",
		},
	}

	data := Envelope(raw)["data"].(map[string]any)

	if data["total_scraped"] != 100000 {
		t.Errorf("total_scraped = %v, want clamped to 100000", data["total_scraped"])
	}

	if data["total_fetched"] != 0 {
		t.Errorf("total_fetched = %v, want 0", data["total_fetched"])
	}

	if data["total_relevant"] != 12 {
		t.Errorf("total_relevant = %v, want 12", data["total_relevant"])
	}
}

func TestEnvelope_CounterCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "Float truncates", value: float64(3.9), want: 3},
		{name: "Huge float clamps", value: float64(1e300), want: 100000},
		{name: "Non-numeric string", value: "lots", want: 0},
		{name: "Float string rejected", value: "3.9", want: 0},
		{name: "Object", value: map[string]any{}, want: 0},
		{name: "Bool true", value: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampCounter(tt.value); got != tt.want {
				t.Errorf("clampCounter(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestEnvelope_ArticlesFiltered(t *testing.T) {
	raw := map[string]any{
		"data": map[string]any{
			"articles": []any{
				map[string]any{"title": "Keep me"},
				map[string]any{"body": "no title, no url"},
				"not an object",
				map[string]any{"source_url": "https://example.com/a"},
			},
		},
	}

	data := Envelope(raw)["data"].(map[string]any)

	articles := data["articles"].([]any)
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}

	first := articles[0].(map[string]any)
	if first["title"] != "Keep me" {
		t.Errorf("first article = %v", first)
	}
}

func TestEnvelope_SourceURL(t *testing.T) {
	valid := map[string]any{"data": map[string]any{"source_url": "https://example.gov/feed"}}

	data := Envelope(valid)["data"].(map[string]any)
	if data["source_url"] != "https://example.gov/feed" {
		t.Errorf("source_url = %v", data["source_url"])
	}

	// An invalid source_url is dropped, not demoted to sanitized text.
	invalid := map[string]any{"data": map[string]any{"source_url": "javascript:alert(1)"}}

	data = Envelope(invalid)["data"].(map[string]any)
	if _, present := data["source_url"]; present {
		t.Errorf("invalid source_url survived: %v", data["source_url"])
	}
}

func TestEnvelope_FeedErrors(t *testing.T) {
	entries := make([]any, 60)
	for i := range entries {
		entries[i] = map[string]any{
			"feed":  "https://example.com/feed.xml",
			"error": "timeout",
		}
	}

	entries[0] = map[string]any{"feed": "not a url", "error": strings.Repeat("e", 300)}
	entries[1] = "not an object"

	raw := map[string]any{"data": map[string]any{"feed_errors": entries}}

	data := Envelope(raw)["data"].(map[string]any)

	feedErrors := data["feed_errors"].([]any)
	// 50-entry cap, minus the one non-object entry inside the cap.
	if len(feedErrors) != 49 {
		t.Fatalf("got %d feed errors, want 49", len(feedErrors))
	}

	first := feedErrors[0].(map[string]any)
	if first["feed"] != "unknown" {
		t.Errorf("invalid feed url = %v, want unknown", first["feed"])
	}

	if len(first["error"].(string)) != 203 {
		t.Errorf("feed error length = %d, want 200 plus ellipsis", len(first["error"].(string)))
	}
}

func TestEnvelope_UnknownFieldsFallThrough(t *testing.T) {
	raw := map[string]any{
		"data": map[string]any{
			"date":          "2026-02-03",
			"custom_series": []any{float64(1), float64(2), "<b>three</b>"},
			"notes":         "<script>bad()</script>fine",
		},
	}

	data := Envelope(raw)["data"].(map[string]any)

	series := data["custom_series"].([]any)
	if series[2] != "three" {
		t.Errorf("custom_series not generically reconstructed: %v", series)
	}

	if data["notes"] != "fine" {
		t.Errorf("notes = %v, want sanitized", data["notes"])
	}

	// Explicitly-handled keys are not reprocessed generically.
	if data["date"] != "2026-02-03" {
		t.Errorf("date = %v", data["date"])
	}
}

func TestEnvelope_HostileKeyCannotClobberHandledFields(t *testing.T) {
	raw := map[string]any{
		"data": map[string]any{
			"total_scraped":       float64(5),
			"total_scraped\x01":   float64(1e15 - 1),
			"articles":            []any{map[string]any{"title": "legit"}},
			"<b>articles</b>":     []any{map[string]any{"evil_field": "x"}},
			"source_url":          "https://example.gov/feed",
			"<i>source_url</i>":   "javascript:alert(1)",
			"harmless\x02_series": []any{float64(1)},
		},
	}

	data := Envelope(raw)["data"].(map[string]any)

	// The counter clamp holds even though the hostile key sanitizes to
	// the same name.
	if data["total_scraped"] != 5 {
		t.Errorf("total_scraped = %v, want 5", data["total_scraped"])
	}

	articles := data["articles"].([]any)
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}

	article := articles[0].(map[string]any)
	if article["title"] != "legit" {
		t.Errorf("article = %v, want whitelisted original", article)
	}

	if _, present := article["evil_field"]; present {
		t.Error("non-whitelisted field smuggled in via colliding key")
	}

	if data["source_url"] != "https://example.gov/feed" {
		t.Errorf("source_url = %v, want validated original", data["source_url"])
	}

	// A sanitized key that collides with nothing still falls through.
	series := data["harmless_series"].([]any)
	if len(series) != 1 || series[0] != float64(1) {
		t.Errorf("harmless_series = %v", data["harmless_series"])
	}
}

func TestEnvelope_VersionDefaultOnlyWhenAbsent(t *testing.T) {
	present := map[string]any{"metadata": map[string]any{"version": "<b></b>"}}

	meta := Envelope(present)["metadata"].(map[string]any)
	if meta["version"] != "" {
		t.Errorf("version = %v, want empty when present but sanitized away", meta["version"])
	}
}

func TestEnvelope_Idempotent(t *testing.T) {
	raw := map[string]any{
		"metadata": map[string]any{
			"source_name":     "mfa",
			"fetch_timestamp": "2026-02-03T08:00:00Z",
			"date":            "2026-02-03",
		},
		"data": map[string]any{
			"date":          "2026-02-03",
			"source_url":    "https://example.gov/feed",
			"total_scraped": float64(10),
			"articles": []any{
				map[string]any{
					"title":      "Canada raises concerns",
					"source_url": "https://example.gov/a",
					"body":       "<img src=x onerror=alert(1)>Text",
					"date":       "2026-02-03",
				},
			},
			"extra": map[string]any{"k": "v", "n": float64(7)},
		},
	}

	first := Envelope(raw)

	// Round-trip through JSON the way the batch driver does, then
	// reconstruct again.
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}

	var reparsed any
	if err := json.Unmarshal(encoded, &reparsed); err != nil {
		t.Fatal(err)
	}

	second := Envelope(reparsed)

	stripCleanedAt(first)
	stripCleanedAt(second)

	firstJSON, _ := json.Marshal(first)

	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("reconstruction is not idempotent:\n first: %s\nsecond: %s", firstJSON, secondJSON)
	}
}

func stripCleanedAt(envelope map[string]any) {
	if meta, ok := envelope["metadata"].(map[string]any); ok {
		delete(meta, "cleaned_at")
	}
}
