package bridge

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 ensures a string contains only valid UTF-8 sequences before it
// is written to a proto string field (protobuf requires valid UTF-8 and the
// serializer rejects anything else). Invalid sequences are replaced with the
// Unicode replacement character (U+FFFD).
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			i++
		} else {
			b.WriteRune(r)
			i += size
		}
	}

	return b.String()
}
