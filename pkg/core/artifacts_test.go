package core

import "testing"

func TestIsImageContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"IMAGE/PNG", true},
		{"image/png; charset=binary", true},
		{"text/plain", false},
		{"application/json", false},
		{"video/webm", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsImageContentType(tt.contentType); got != tt.expected {
			t.Errorf("IsImageContentType(%q) = %v, want %v", tt.contentType, got, tt.expected)
		}
	}
}

func TestDataURI_RoundTrip(t *testing.T) {
	uri := DataURI(ContentTypePNG, "iVBORw0KGgo=")
	if uri != "data:image/png;base64,iVBORw0KGgo=" {
		t.Fatalf("DataURI() = %q", uri)
	}

	ct, body, ok := ParseDataURI(uri)
	if !ok {
		t.Fatal("ParseDataURI() not ok")
	}
	if ct != ContentTypePNG || body != "iVBORw0KGgo=" {
		t.Errorf("ParseDataURI() = %q, %q", ct, body)
	}

	if _, _, ok := ParseDataURI("https://example.com/a.png"); ok {
		t.Error("ParseDataURI() accepted a URL")
	}
	if _, _, ok := ParseDataURI("data:text/plain,hello"); ok {
		t.Error("ParseDataURI() accepted a non-base64 data URI")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		ContentTypePNG:  ".png",
		ContentTypeJPEG: ".jpg",
		"image/webp":    ".webp",
		"image/x-icon":  ".bin",
	}
	for ct, want := range tests {
		if got := ExtensionFor(ct); got != want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", ct, got, want)
		}
	}
}
