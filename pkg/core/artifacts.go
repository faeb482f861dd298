// Package core provides the shared status, error and attachment types for
// stakeholder-report.
package core

import (
	"mime"
	"strings"
)

// Common content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// IsImageContentType returns true for image/* MIME types.
// Parameters such as "; charset=..." are ignored.
func IsImageContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.HasPrefix(mediaType, "image/")
}

// DataURI builds a data URI from an already base64 encoded payload
func DataURI(contentType, base64Body string) string {
	return "data:" + contentType + ";base64," + base64Body
}

// ParseDataURI splits a base64 data URI into its content type and payload.
// ok is false for anything that is not a base64 data URI.
func ParseDataURI(uri string) (contentType, base64Body string, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", "", false
	}
	contentType, base64Body, found = strings.Cut(rest, ";base64,")
	if !found {
		return "", "", false
	}
	return contentType, base64Body, true
}

// ExtensionFor returns a file extension for an image content type
func ExtensionFor(contentType string) string {
	switch contentType {
	case ContentTypePNG:
		return ".png"
	case ContentTypeJPEG, "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}
