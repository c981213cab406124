package logger

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxLogValueLength bounds a single user-supplied value in a log line.
const maxLogValueLength = 256

// SanitizeForLog escapes control characters in user-supplied strings so an
// uploaded filename cannot forge log entries or drive the terminal. Newlines,
// carriage returns and tabs get their usual escapes; other control characters,
// DEL and ESC become \xNN. Printable Unicode is kept. Values longer than
// maxLogValueLength bytes are cut at a rune boundary and suffixed with "...".
func SanitizeForLog(s string) string {
	truncated := false
	if len(s) > maxLogValueLength {
		cut := maxLogValueLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
		truncated = true
	}

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n':
			result.WriteString("\\n")
		case r == '\r':
			result.WriteString("\\r")
		case r == '\t':
			result.WriteString("\\t")
		case r < 32 || r == 127:
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		default:
			result.WriteRune(r)
		}
	}

	if truncated {
		result.WriteString("...")
	}
	return result.String()
}
