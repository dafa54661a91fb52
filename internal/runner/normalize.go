package runner

import (
	"regexp"
	"strings"
)

const DefaultPreviewLen = 400

// jsSpace matches runs of the characters JavaScript's \s class covers. Go's
// \s and unicode.IsSpace differ from it (U+0085, U+FEFF).
var jsSpace = regexp.MustCompile(`[\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]+`)

// Normalize collapses whitespace runs to one space and trims. Code points are
// otherwise kept exactly as the page rendered them. Applying it twice gives
// the same result as applying it once.
func Normalize(text string) string {
	return strings.Trim(jsSpace.ReplaceAllString(text, " "), " ")
}

// Preview truncates text to at most n runes. n <= 0 means unbounded.
func Preview(text string, n int) string {
	if n <= 0 {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
