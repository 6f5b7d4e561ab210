package dag

import (
	"strings"
	"unicode/utf8"
)

// unescape removes backslashes used to protect punctuation inside name
// fields. The character following a backslash is kept verbatim, so a
// doubled backslash yields a single literal backslash. A lone trailing
// backslash passes through unchanged.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) {
			i++ // drop the escape marker, keep what follows
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
