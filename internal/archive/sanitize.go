package archive

import (
	"strings"
	"unicode"
)

// Sanitize maps a raw dropdown value to its on-disk form: leading and
// trailing whitespace is trimmed and every rune that is not a letter, digit,
// '_', '-' or '.' becomes '_'. The same mapping is applied when filenames are
// inverted back into keys, so sanitized and freshly generated keys compare
// equal. Idempotent.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, strings.TrimSpace(s))
}
