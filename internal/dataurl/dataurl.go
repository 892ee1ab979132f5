// Package dataurl encodes and decodes base64 data URLs, the inline image
// format used on the relay wire.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Encode wraps raw bytes in a data URL. When mime is empty it is sniffed from
// the payload.
func Encode(data []byte, mime string) string {
	mime = strings.TrimSpace(mime)
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a data URL into payload bytes and MIME type.
func Decode(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", fmt.Errorf("dataurl: not a data url")
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("dataurl: missing payload")
	}
	mime, _, _ := strings.Cut(meta, ";")
	if !strings.Contains(meta, "base64") {
		return nil, "", fmt.Errorf("dataurl: only base64 encoding is supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("dataurl: decode payload: %w", err)
	}
	return data, strings.TrimSpace(mime), nil
}

// IsDataURL reports whether s is an inline data URL rather than a remote
// reference.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}
