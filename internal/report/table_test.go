package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTable_Alignment(t *testing.T) {
	var buf bytes.Buffer

	WriteTable(&buf, []Row{
		{File: "2026-02-03/mfa.json", Status: StatusPassed},
		{File: "2026-02-03/中文来源.json", Status: StatusFailed, Detail: "suspicious_pattern at data.x"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, separator, and 2 rows:\n%s", len(lines), buf.String())
	}

	if !strings.HasPrefix(lines[0], "File") || !strings.Contains(lines[0], "Status") {
		t.Errorf("header = %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], "---") {
		t.Errorf("separator = %q", lines[1])
	}

	// Status columns line up: both rows place their status at the same
	// byte offset is not guaranteed with wide runes, but both must
	// contain their status after the filename.
	if !strings.Contains(lines[2], StatusPassed) || !strings.Contains(lines[3], StatusFailed) {
		t.Errorf("rows missing statuses:\n%s", buf.String())
	}

	if !strings.Contains(lines[3], "suspicious_pattern") {
		t.Errorf("detail missing: %q", lines[3])
	}
}

func TestWriteTable_TruncatesDetail(t *testing.T) {
	var buf bytes.Buffer

	WriteTable(&buf, []Row{
		{File: "a.json", Status: StatusFailed, Detail: strings.Repeat("e", 300)},
	})

	for _, line := range strings.Split(buf.String(), "\n") {
		if len(line) > 200 {
			t.Errorf("line not truncated: %d chars", len(line))
		}
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer

	WriteSummary(&buf, "cleaned", 3, 1)

	if !strings.Contains(buf.String(), "Results: 3 cleaned, 1 failed") {
		t.Errorf("summary = %q", buf.String())
	}
}
