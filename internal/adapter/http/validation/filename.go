package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxFilenameLength is the maximum allowed filename length (common filesystem limit).
const maxFilenameLength = 255

const (
	downloadPrefix = "discompress_"
	downloadExt    = ".mp4"
	fallbackName   = "video"
)

// disallowedChars matches everything outside word characters, dots, hyphens
// and spaces. \w is ASCII-only in RE2.
var disallowedChars = regexp.MustCompile(`[^\w.\- ]`)

// SanitizeName strips every character that is not a word character, dot,
// hyphen or space from a caller-supplied filename. Directory separators go
// with the rest, so "../../evil name!.mov" becomes "....evil name.mov".
// Returns "video" when nothing survives.
func SanitizeName(name string) string {
	result := disallowedChars.ReplaceAllString(name, "")

	if strings.TrimSpace(result) == "" {
		return fallbackName
	}

	if len(result) > maxFilenameLength {
		result = truncatePreservingExtension(result)
	}

	return result
}

// DownloadFilename is the suggested name for a delivered file:
// "discompress_<base>.mp4", where base is the sanitized name minus its extension.
func DownloadFilename(requestedName string) string {
	name := SanitizeName(requestedName)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.TrimSpace(strings.Trim(base, ".")) == "" {
		base = fallbackName
	}
	return downloadPrefix + base + downloadExt
}

// truncatePreservingExtension truncates a filename to maxFilenameLength while
// preserving the file extension if possible.
func truncatePreservingExtension(name string) string {
	ext := filepath.Ext(name)
	extLen := len(ext)

	if extLen == 0 || extLen >= maxFilenameLength {
		return truncateToBytes(name, maxFilenameLength)
	}

	maxBaseLen := maxFilenameLength - extLen
	baseName := name[:len(name)-extLen]

	return truncateToBytes(baseName, maxBaseLen) + ext
}

// truncateToBytes truncates a UTF-8 string to at most maxBytes bytes without
// cutting a multi-byte character.
func truncateToBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}

// ContentDisposition returns a safe Content-Disposition header value.
//
// If inline is true, returns "inline; filename=\"...\""
// If inline is false, returns "attachment; filename=\"...\""
func ContentDisposition(filename string, inline bool) string {
	sanitized := SanitizeName(filename)

	disposition := "attachment"
	if inline {
		disposition = "inline"
	}

	return fmt.Sprintf("%s; filename=\"%s\"", disposition, sanitized)
}
