// Package diff extracts icon titles from unified diffs of the icon data file.
//
// The platform only exposes raw patch text, so the data file is never parsed
// as JSON here. Instead each changed field line is mapped back to a line of
// the data file and the file is scanned upwards for the nearest "title" of
// the same record.
package diff

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// fieldIndent is how deep record fields are indented in the data file.
	fieldIndent = "            "
	// recordEnd is the closing brace of a record; crossing it while scanning
	// upwards means the change does not belong to the record above.
	recordEnd = "        }"
	titleKey  = `"title": "`
	// minScanLine keeps the scan out of the file preamble.
	minScanLine = 2
)

// ExtractTitles returns the titles of the records touched by patch, in the
// order they are first seen. source is the data file the hunk line numbers
// are resolved against. Changed lines that cannot be attributed to a record
// are skipped.
func ExtractTitles(patch, source string) []string {
	sourceLines := strings.Split(source, "\n")

	var titles []string
	seen := make(map[string]bool)

	hunkStart := -1
	linesInHunk := 0
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			hunkStart = parseHunkStart(line)
			linesInHunk = 0
		case isFieldChange(line):
			if hunkStart < 0 {
				continue
			}
			title, ok := titleAbove(sourceLines, hunkStart+linesInHunk-1)
			if ok && !seen[title] {
				seen[title] = true
				titles = append(titles, title)
			}
		default:
			linesInHunk++
		}
	}
	return titles
}

// parseHunkStart reads the pre-image start line from "@@ -start,len +start,len @@".
// It returns -1 for a header it cannot read.
func parseHunkStart(header string) int {
	fields := strings.Split(header, " ")
	if len(fields) < 2 {
		return -1
	}
	from, _, _ := strings.Cut(fields[1], ",")
	n, err := strconv.Atoi(strings.TrimPrefix(from, "-"))
	if err != nil {
		return -1
	}
	return n
}

func isFieldChange(line string) bool {
	return (strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")) &&
		strings.Contains(line, fieldIndent)
}

// titleAbove walks up from index n until it finds a title line or crosses
// the end of the previous record.
func titleAbove(lines []string, n int) (string, bool) {
	if n >= len(lines) {
		return "", false
	}
	for ; n > minScanLine; n-- {
		line := lines[n]
		if strings.Contains(line, titleKey) {
			return parseTitle(line)
		}
		if strings.Contains(line, recordEnd) {
			return "", false
		}
	}
	return "", false
}

// parseTitle extracts the value of a `"title": "..."` line and resolves its
// JSON escapes.
func parseTitle(line string) (string, bool) {
	parts := strings.Split(line, `"`)
	if len(parts) < 5 {
		return "", false
	}
	raw := strings.Join(parts[3:len(parts)-1], `"`)
	return gjson.Parse(`"` + raw + `"`).String(), true
}
