package mango

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// detectMIME sniffs data, falling back to the filename extension when
// the content is not recognized.
func detectMIME(data []byte, filename string) string {
	if m := mimetype.Detect(data).String(); m != "" && m != octetStream && !strings.HasPrefix(m, "text/plain") {
		return stripParams(m)
	}
	if filename != "" {
		if m := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); m != "" {
			return stripParams(m)
		}
	}
	return octetStream
}

func stripParams(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return strings.TrimSpace(m[:i])
	}
	return m
}

func isImageMIME(m string) bool {
	return strings.HasPrefix(m, "image/")
}
