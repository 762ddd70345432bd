package extract

import "strings"

const ellipsis = "..."

// Truncate collapses whitespace runs to single spaces, trims the ends and
// shortens the result to at most n characters, replacing the tail with
// "..." when it was cut. Lengths count Unicode code points.
func Truncate(text string, n int) string {
	text = NormalizeSpace(text)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	if n <= len(ellipsis) {
		if n < 0 {
			n = 0
		}
		return string(runes[:n])
	}
	return string(runes[:n-len(ellipsis)]) + ellipsis
}

// NormalizeSpace collapses every whitespace run to one space and trims.
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
