package agentclient

import (
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Compact collapses every run of whitespace outside string literals into a
// single space and trims the result. String contents, including escaped
// quotes, are left untouched.
func Compact(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	pendingSpace := false
	for _, r := range text {
		if inString {
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		if isSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
		}
		if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Validate reports whether text parses as a JSON document. Blank text is
// valid: it means "no mock".
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := oj.ParseString(text)
	return err
}
