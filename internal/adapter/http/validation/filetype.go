// Package validation holds upload checks: filename sanitization and
// container sniffing.
package validation

import (
	"errors"
	"io"
	"net/http"
)

// videoMIMETypes lists the containers ffprobe is expected to handle.
var videoMIMETypes = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-matroska": true,
	"video/x-msvideo":  true,
	"video/mp2t":       true,
	"video/mpeg":       true,
	"video/ogg":        true,
	"application/ogg":  true,
}

// magicBytesBufferSize is the number of bytes to read for content type detection.
const magicBytesBufferSize = 512

// SniffContainer guesses the container of an upload from its leading bytes and
// rewinds the reader. The result is advisory: the upload is only rejected if
// probing fails.
func SniffContainer(reader io.ReadSeeker) (mime string, video bool, err error) {
	buf := make([]byte, magicBytesBufferSize)
	n, err := io.ReadFull(reader, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, err
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}

	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = detectVideoMagicBytes(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
	}

	return mime, videoMIMETypes[mime], nil
}

// detectVideoMagicBytes recognizes containers http.DetectContentType misses
// or names too broadly.
func detectVideoMagicBytes(buf []byte) string {
	if len(buf) < 4 {
		return ""
	}

	// EBML header, shared by Matroska and WebM. The doctype follows later in
	// the header; "webm" anywhere in the first bytes is good enough.
	if buf[0] == 0x1A && buf[1] == 0x45 && buf[2] == 0xDF && buf[3] == 0xA3 {
		if containsASCII(buf, "webm") {
			return "video/webm"
		}
		return "video/x-matroska"
	}

	// MPEG-TS: sync byte every 188 bytes
	if buf[0] == 0x47 && len(buf) > 188 && buf[188] == 0x47 {
		return "video/mp2t"
	}

	if len(buf) >= 12 {
		// AVI: RIFF....AVI
		if string(buf[0:4]) == "RIFF" && string(buf[8:12]) == "AVI " {
			return "video/x-msvideo"
		}

		// MP4/QuickTime: [4 bytes size]["ftyp"][brand]
		if string(buf[4:8]) == "ftyp" {
			if string(buf[8:12]) == "qt  " {
				return "video/quicktime"
			}
			return "video/mp4"
		}

		// Older QuickTime files without ftyp start with a moov, mdat or wide atom.
		switch string(buf[4:8]) {
		case "moov", "mdat", "wide", "free":
			return "video/quicktime"
		}
	}

	return ""
}

func containsASCII(buf []byte, s string) bool {
	for i := 0; i+len(s) <= len(buf); i++ {
		if string(buf[i:i+len(s)]) == s {
			return true
		}
	}
	return false
}
