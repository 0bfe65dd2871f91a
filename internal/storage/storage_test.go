package storage

import (
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"avatar.png", "image/png"},
		{"avatar.jpg", "image/jpeg"},
		{"avatar.JPEG", "image/jpeg"},
		{"cover.gif", "image/gif"},
		{"cover.webp", "image/webp"},
		{"logo.svg", "image/svg+xml"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			contentType := getContentType(tt.filePath)
			if contentType != tt.wantType {
				t.Errorf("getContentType(%q) = %q, want %q", tt.filePath, contentType, tt.wantType)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	s := &Storage{bucketName: "media", baseURL: "https://media.example.com:9000/media"}

	got := s.publicURL("images/abc.png")
	want := "https://media.example.com:9000/media/images/abc.png"
	if got != want {
		t.Errorf("publicURL() = %q, want %q", got, want)
	}
}
