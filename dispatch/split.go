package dispatch

import "unicode/utf8"

// escapedLen returns how many bytes r occupies inside a JSON string as
// written by encoding/json, which also escapes <, > and &
func escapedLen(r rune) int {
	switch {
	case r == '"' || r == '\\' || r == '\n' || r == '\r' || r == '\t':
		return 2
	case r < 0x20, r == '<', r == '>', r == '&', r == '\u2028', r == '\u2029':
		return 6
	case r == utf8.RuneError:
		return 6
	default:
		return utf8.RuneLen(r)
	}
}

// EscapedLen returns the JSON-escaped size of s without quotes
func EscapedLen(s string) int {
	n := 0
	for _, r := range s {
		n += escapedLen(r)
	}
	return n
}

// Split cuts body into ordered segments whose JSON-escaped size is at most
// budget bytes. Cuts fall only on rune boundaries; a single rune larger
// than the budget forms its own segment. An empty body yields one empty
// segment.
func Split(body string, budget int) []string {
	if budget < 1 {
		budget = 1
	}
	if EscapedLen(body) <= budget {
		return []string{body}
	}

	var segments []string
	start, size := 0, 0
	for i, r := range body {
		n := escapedLen(r)
		if size+n > budget && i > start {
			segments = append(segments, body[start:i])
			start, size = i, 0
		}
		size += n
	}
	return append(segments, body[start:])
}
