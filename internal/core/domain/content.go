package domain

import "strings"

// SourceKind identifies where a piece of input came from.
type SourceKind string

// Supported input sources.
const (
	// SourceFile is a local file whose bytes are already in memory.
	SourceFile SourceKind = "file"

	// SourceURL is a remote image location fetched lazily at encode time.
	SourceURL SourceKind = "url"

	// SourceSocialPost is a social-media post whose image and caption
	// are resolved through the extraction service.
	SourceSocialPost SourceKind = "social_post"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceFile, SourceURL, SourceSocialPost:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the source.
func (k SourceKind) Description() string {
	switch k {
	case SourceFile:
		return "Local file"
	case SourceURL:
		return "Image URL"
	case SourceSocialPost:
		return "Social post"
	default:
		return "Unknown"
	}
}

// MaxContentSize is the largest payload accepted for upload, in bytes.
const MaxContentSize int64 = 5 * 1024 * 1024

// UnknownSize marks content whose byte length is not known until it is fetched.
const UnknownSize int64 = -1

// SocialImageFileName is the file name recorded for images taken from a social post.
const SocialImageFileName = "twitter_image"

// RawInput is user-supplied input before acquisition.
// Only the fields relevant to Kind are populated.
type RawInput struct {
	Kind SourceKind

	// Data holds the file bytes (SourceFile).
	Data []byte

	// MediaType is the declared media type (SourceFile).
	MediaType string

	// Size is the declared byte length (SourceFile).
	Size int64

	// FileName is the original file name (SourceFile).
	FileName string

	// Location is the image URL (SourceURL) or post URL (SourceSocialPost).
	Location string

	// Text is the user-supplied description. Ignored for social posts,
	// whose caption replaces it.
	Text string
}

// NewFileInput builds a RawInput for resident file bytes.
func NewFileInput(fileName, mediaType string, data []byte, text string) RawInput {
	return RawInput{
		Kind:      SourceFile,
		Data:      data,
		MediaType: mediaType,
		Size:      int64(len(data)),
		FileName:  fileName,
		Text:      text,
	}
}

// NewURLInput builds a RawInput for a remote image location.
func NewURLInput(location, text string) RawInput {
	return RawInput{Kind: SourceURL, Location: location, Text: text}
}

// NewSocialPostInput builds a RawInput for a social post reference.
func NewSocialPostInput(postURL string) RawInput {
	return RawInput{Kind: SourceSocialPost, Location: postURL}
}

// CanonicalContent is acquired input in the form every later step consumes.
// Exactly one of Data or Location carries the payload.
type CanonicalContent struct {
	// Kind is the source the content was acquired from.
	Kind SourceKind

	// Data is the resident payload, nil when Location is used.
	Data []byte

	// Location is a lazily fetched payload URL.
	Location string

	// MediaType is the media type classifier, e.g. "image/png".
	MediaType string

	// Text is the description to verify; may be empty.
	Text string

	// SourceLabel names the origin for display (file path, URL, post URL).
	SourceLabel string

	// FileName is sent to the remote store.
	FileName string

	// Size is the payload length in bytes, or UnknownSize.
	Size int64
}

// HasPayload reports whether a payload is present.
func (c *CanonicalContent) HasPayload() bool {
	return len(c.Data) > 0 || c.Location != ""
}

// IsResident reports whether the payload bytes are already in memory.
func (c *CanonicalContent) IsResident() bool {
	return len(c.Data) > 0
}

// SizeKnown reports whether Size can be checked before fetching.
func (c *CanonicalContent) SizeKnown() bool {
	return c.Size >= 0
}

// IsImageMediaType reports whether a media type belongs to the image family.
func IsImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}
