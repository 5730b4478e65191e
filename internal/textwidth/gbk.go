package textwidth

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StringWidth returns the widest line of s in monospace columns. Width is
// the GBK byte length, so a Chinese character counts as two columns. ANSI
// color sequences are ignored.
func StringWidth(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		widest = max(widest, lineWidth(line))
	}
	return widest
}

// PadRight appends spaces until s is width columns wide.
func PadRight(s string, width int) string {
	if diff := width - StringWidth(s); diff > 0 {
		return s + strings.Repeat(" ", diff)
	}
	return s
}

// Truncate shortens a single line to at most width columns, ending it with
// "…" when something was cut and there is room for it.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = StripANSI(s)
	if lineWidth(s) <= width {
		return s
	}
	const ellipsis = "…"
	budget := width - lineWidth(ellipsis)
	suffix := ellipsis
	if budget < 0 {
		budget, suffix = width, ""
	}
	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > budget {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return sb.String() + suffix
}

// StripANSI removes color sequences.
func StripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

func lineWidth(s string) int {
	if s == "" {
		return 0
	}
	clean := StripANSI(s)
	encoded, _, err := transform.String(simplifiedchinese.GBK.NewEncoder(), clean)
	if err != nil {
		return fallbackWidth(clean)
	}
	return len(encoded)
}

func fallbackWidth(s string) int {
	width := 0
	for _, r := range s {
		width += runeWidth(r)
	}
	return width
}

func runeWidth(r rune) int {
	switch {
	case r == '\n' || r == '\r':
		return 0
	case r <= unicode.MaxASCII:
		return 1
	}
	return 2
}
