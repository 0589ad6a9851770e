package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceKind_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		kind     SourceKind
		expected bool
	}{
		{"file", SourceFile, true},
		{"url", SourceURL, true},
		{"social post", SourceSocialPost, true},
		{"empty", SourceKind(""), false},
		{"unknown", SourceKind("camera"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.IsValid())
		})
	}
}

func TestSourceKind_Description(t *testing.T) {
	assert.Equal(t, "Local file", SourceFile.Description())
	assert.Equal(t, "Unknown", SourceKind("x").Description())
}

func TestNewFileInput(t *testing.T) {
	in := NewFileInput("cat.png", "image/png", []byte{1, 2, 3}, "a cat")

	assert.Equal(t, SourceFile, in.Kind)
	assert.Equal(t, int64(3), in.Size)
	assert.Equal(t, "cat.png", in.FileName)
	assert.Equal(t, "a cat", in.Text)
}

func TestNewSocialPostInput_HasNoText(t *testing.T) {
	in := NewSocialPostInput("https://x.com/user/status/1")

	assert.Equal(t, SourceSocialPost, in.Kind)
	assert.Empty(t, in.Text)
}

func TestCanonicalContent_Payload(t *testing.T) {
	tests := []struct {
		name       string
		content    CanonicalContent
		hasPayload bool
		resident   bool
	}{
		{"resident bytes", CanonicalContent{Data: []byte{1}}, true, true},
		{"lazy location", CanonicalContent{Location: "https://example.com/a.png"}, true, false},
		{"empty bytes", CanonicalContent{Data: []byte{}}, false, false},
		{"nothing", CanonicalContent{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasPayload, tt.content.HasPayload())
			assert.Equal(t, tt.resident, tt.content.IsResident())
		})
	}
}

func TestCanonicalContent_SizeKnown(t *testing.T) {
	assert.True(t, (&CanonicalContent{Size: 0}).SizeKnown())
	assert.False(t, (&CanonicalContent{Size: UnknownSize}).SizeKnown())
}

func TestIsImageMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		expected  bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"IMAGE/GIF", true},
		{" image/webp", true},
		{"image/*", true},
		{"text/plain", false},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsImageMediaType(tt.mediaType))
		})
	}
}

func TestMaxContentSize(t *testing.T) {
	assert.Equal(t, int64(5242880), MaxContentSize)
}
