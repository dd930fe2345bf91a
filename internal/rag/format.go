package rag

import "strings"

const (
	bulletMarker  = "•"
	headingPrefix = "HEADING:"
)

// FormatAnswer normalizes raw model output into display-ready text.
// The transform is pure and idempotent: applying it to its own output
// is a no-op. Steps, in order:
//
//  1. strip emphasis markers (asterisk runs of length 1 or 2, a blunt
//     global removal, not markdown parsing)
//  2. split into lines, trim each, drop lines that become empty
//  3. rewrite "- " list markers to "• "; lines already bulleted stay
//  4. put exactly one blank line before every "HEADING:" line except
//     a heading on the very first line
//  5. rejoin with newlines
func FormatAnswer(raw string) string {
	text := strings.ReplaceAll(raw, "**", "")
	text = strings.ReplaceAll(text, "*", "")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			line = bulletMarker + " " + rest
		}
		lines = append(lines, line)
	}

	var out []string
	for i, line := range lines {
		if i > 0 && strings.HasPrefix(line, headingPrefix) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
