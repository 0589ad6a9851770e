package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestPostID(t *testing.T) {
	tests := []struct {
		reference string
		id        string
		ok        bool
	}{
		{"https://x.com/user/status/123456789", "123456789", true},
		{"https://twitter.com/user/status/42?s=20", "42", true},
		{"https://x.com/user/status/abc", "", false},
		{"https://x.com/user", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			id, ok := PostID(tt.reference)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestAcquirer_File(t *testing.T) {
	a := NewAcquirer(nil)
	input := domain.NewFileInput("/tmp/photos/cat.png", "image/png", []byte("png-bytes"), "a cat")

	content, err := a.Acquire(context.Background(), input, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.SourceFile, content.Kind)
	assert.Equal(t, []byte("png-bytes"), content.Data)
	assert.Equal(t, "image/png", content.MediaType)
	assert.Equal(t, int64(9), content.Size)
	assert.Equal(t, "cat.png", content.FileName)
	assert.Equal(t, "/tmp/photos/cat.png", content.SourceLabel)
	assert.Equal(t, "a cat", content.Text)
}

func TestAcquirer_URL_IsLazy(t *testing.T) {
	tests := []struct {
		name      string
		location  string
		mediaType string
		fileName  string
	}{
		{"extension", "https://example.com/img/sunset.png", "image/png", "sunset.png"},
		{"format query", "https://pbs.twimg.com/media/abc?format=jpg&name=large", "image/jpeg", "abc"},
		{"no hint", "https://example.com/", "image/*", "image_url"},
		{"non-image extension", "https://example.com/index.html", "image/*", "index.html"},
		{"script endpoint", "https://cdn.example.com/render.php?id=7", "image/*", "render.php"},
		{"script endpoint with format", "https://cdn.example.com/render.php?format=webp", "image/webp", "render.php"},
	}

	a := NewAcquirer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := a.Acquire(context.Background(), domain.NewURLInput(tt.location, "x"), nil)

			require.NoError(t, err)
			assert.Nil(t, content.Data)
			assert.Equal(t, tt.location, content.Location)
			assert.Equal(t, tt.mediaType, content.MediaType)
			assert.Equal(t, tt.fileName, content.FileName)
			assert.False(t, content.SizeKnown())
		})
	}
}

func TestAcquirer_URL_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		location string
		reason   domain.RejectReason
	}{
		{"empty", "  ", domain.RejectNoFile},
		{"no scheme", "example.com/a.png", domain.RejectInvalidLocation},
		{"ftp", "ftp://example.com/a.png", domain.RejectInvalidLocation},
	}

	a := NewAcquirer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Acquire(context.Background(), domain.NewURLInput(tt.location, "x"), nil)

			var inputErr *domain.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.reason, inputErr.Reason)
		})
	}
}

func TestAcquirer_SocialPost(t *testing.T) {
	log := &callLog{}
	social := &mockSocial{log: log, post: &domain.SocialPost{
		ImageURL: "https://pbs.twimg.com/media/xyz.png",
		Caption:  "A sunset over mountains",
	}}
	a := NewAcquirer(social)
	fetched := false

	content, err := a.Acquire(context.Background(),
		domain.NewSocialPostInput("https://x.com/user/status/123456789"),
		func() { fetched = true })

	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, domain.SourceSocialPost, content.Kind)
	assert.Equal(t, "https://pbs.twimg.com/media/xyz.png", content.Location)
	assert.Equal(t, "image/png", content.MediaType)
	assert.Equal(t, "A sunset over mountains", content.Text)
	assert.Equal(t, domain.SocialImageFileName, content.FileName)
	assert.Equal(t, 1, log.count("social"))

	outcome := NewValidator().Validate(content, domain.VariantVerify)
	assert.True(t, outcome.Accepted())
}

func TestAcquirer_SocialPost_Failures(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		post      *domain.SocialPost
		err       error
		reason    domain.RejectReason
		calls     int
	}{
		{
			name:      "empty reference",
			reference: " ",
			reason:    domain.RejectEmptyReference,
		},
		{
			name:      "no status segment",
			reference: "https://x.com/user/media",
			reason:    domain.RejectInvalidReference,
		},
		{
			name:      "extraction error",
			reference: "https://x.com/user/status/1",
			err:       errors.New("boom"),
			reason:    domain.RejectFetchFailed,
			calls:     1,
		},
		{
			name:      "missing caption",
			reference: "https://x.com/user/status/1",
			post:      &domain.SocialPost{ImageURL: "https://pbs.twimg.com/media/a.jpg"},
			reason:    domain.RejectIncompletePost,
			calls:     1,
		},
		{
			name:      "missing image",
			reference: "https://x.com/user/status/1",
			post:      &domain.SocialPost{Caption: "hello"},
			reason:    domain.RejectIncompletePost,
			calls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &callLog{}
			post := tt.post
			if post == nil {
				post = &domain.SocialPost{}
			}
			a := NewAcquirer(&mockSocial{log: log, post: post, err: tt.err})

			_, err := a.Acquire(context.Background(), domain.NewSocialPostInput(tt.reference), nil)

			var inputErr *domain.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.reason, inputErr.Reason)
			assert.Equal(t, tt.calls, log.count("social"))
		})
	}
}

func TestAcquirer_SocialPost_NoExtractor(t *testing.T) {
	_, err := NewAcquirer(nil).Acquire(context.Background(), domain.NewSocialPostInput("https://x.com/u/status/1"), nil)

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestAcquirer_UnknownKind(t *testing.T) {
	_, err := NewAcquirer(nil).Acquire(context.Background(), domain.RawInput{Kind: "camera"}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
