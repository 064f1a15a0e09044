// Package extract pulls JSON values out of free-form LLM output.
//
// Providers rarely return bare JSON: the value is usually wrapped in prose,
// markdown code fences, or both. Instead of assuming well-formed output we
// scan for the first balanced {...} or [...] span, tracking JSON string
// literals and escapes so braces inside strings don't confuse the count.
// This is a best-effort tolerant parse with one clear fail mode: ErrNoJSON.
package extract

import "errors"

// ErrNoJSON is returned when no balanced JSON value of the requested kind
// exists in the text.
var ErrNoJSON = errors.New("no JSON value found in text")

// Object returns the first balanced {...} span in text.
func Object(text string) (string, error) {
	return balanced(text, '{', '}')
}

// Array returns the first balanced [...] span in text.
func Array(text string) (string, error) {
	return balanced(text, '[', ']')
}

// balanced scans for the first open byte and returns the span up to its
// matching close byte. Depth counting ignores anything inside JSON string
// literals, including escaped quotes.
func balanced(text string, open, close byte) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case close:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", ErrNoJSON
}
