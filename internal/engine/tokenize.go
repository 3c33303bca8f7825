package engine

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reRuleLine   = regexp.MustCompile(`(?m)^\s*[_\-=]{3,}\s*$`)
)

// cleanText normalizes raw OCR output before any classification: NFC so
// mixed Latin/Greek/Cyrillic compare predictably, control characters out,
// line structure preserved. Conservative on whitespace inside lines since
// space runs may encode column boundaries.
func cleanText(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, "  ")
	s = stripControl(s)
	s = reRuleLine.ReplaceAllString(s, "")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func stripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitLines breaks cleaned text into logical lines, dropping blanks and
// lines that are nothing but stray delimiter noise.
func splitLines(s string) []string {
	raw := strings.Split(s, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Trim(trimmed, "|-+ ") == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// collapseSpaces flattens interior whitespace runs; used on narrative text
// and on finished cell values, never on raw table rows.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
