// Package report renders per-file batch results for the CLI tools.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Row is one file's outcome in a result table.
type Row struct {
	File   string
	Status string
	Detail string
}

// Statuses used by the CLI tools.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusWarning = "WARNING"
	StatusCleaned = "OK"
)

var header = []string{"File", "Status", "Detail"}

// maxDetailWidth caps the detail column so one long error does not
// blow up the table.
const maxDetailWidth = 80

// WriteTable renders rows as a column-aligned table. Widths use
// display width, not byte length, so CJK filenames line up.
func WriteTable(w io.Writer, rows []Row) {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)

	for _, r := range rows {
		detail := r.Detail
		if runewidth.StringWidth(detail) > maxDetailWidth {
			detail = runewidth.Truncate(detail, maxDetailWidth, "...")
		}

		cells = append(cells, []string{r.File, r.Status, detail})
	}

	widths := make([]int, len(header))

	for _, row := range cells {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for idx, row := range cells {
		var sb strings.Builder

		for i, cell := range row {
			sb.WriteString(cell)

			if i < len(row)-1 {
				padding := widths[i] - runewidth.StringWidth(cell)
				sb.WriteString(strings.Repeat(" ", padding+2))
			}
		}

		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))

		if idx == 0 {
			var sep strings.Builder

			for i, width := range widths {
				sep.WriteString(strings.Repeat("-", width))

				if i < len(widths)-1 {
					sep.WriteString("  ")
				}
			}

			fmt.Fprintln(w, strings.TrimRight(sep.String(), " "))
		}
	}
}

// WriteSummary prints the one-line tally both tools end with.
func WriteSummary(w io.Writer, verb string, passed, failed int) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Results: %d %s, %d failed\n", passed, verb, failed)
}
