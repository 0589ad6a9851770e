package services

import (
	"context"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/logger"
)

// postIDPattern matches the numeric status segment of a post URL.
var postIDPattern = regexp.MustCompile(`status/(\d+)`)

// genericImageType is used when a URL gives no hint about its format.
const genericImageType = "image/*"

// Acquirer turns raw input into canonical content.
// Only social posts cause network I/O here.
type Acquirer struct {
	social driven.SocialExtractor
}

// NewAcquirer creates an acquirer. social may be nil, in which case
// social post input fails with RejectFetchFailed.
func NewAcquirer(social driven.SocialExtractor) *Acquirer {
	return &Acquirer{social: social}
}

// PostID extracts the numeric post identifier from a post URL.
func PostID(reference string) (string, bool) {
	m := postIDPattern.FindStringSubmatch(reference)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Acquire normalises input. beforeFetch, if non-nil, is called right before
// the social extraction request is made.
func (a *Acquirer) Acquire(ctx context.Context, input domain.RawInput, beforeFetch func()) (*domain.CanonicalContent, error) {
	switch input.Kind {
	case domain.SourceFile:
		return a.fromFile(input), nil
	case domain.SourceURL:
		return a.fromURL(input)
	case domain.SourceSocialPost:
		return a.fromSocialPost(ctx, input, beforeFetch)
	default:
		return nil, domain.NewInputError(domain.RejectNoFile)
	}
}

func (a *Acquirer) fromFile(input domain.RawInput) *domain.CanonicalContent {
	size := input.Size
	if size <= 0 {
		size = int64(len(input.Data))
	}
	name := input.FileName
	if name == "" {
		name = "upload"
	}
	return &domain.CanonicalContent{
		Kind:        domain.SourceFile,
		Data:        input.Data,
		MediaType:   input.MediaType,
		Text:        input.Text,
		SourceLabel: name,
		FileName:    path.Base(name),
		Size:        size,
	}
}

func (a *Acquirer) fromURL(input domain.RawInput) (*domain.CanonicalContent, error) {
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, domain.NewInputError(domain.RejectNoFile)
	}
	u, err := parseHTTPURL(location)
	if err != nil {
		return nil, &domain.InputError{Reason: domain.RejectInvalidLocation, Err: err}
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "image_url"
	}
	return &domain.CanonicalContent{
		Kind:        domain.SourceURL,
		Location:    location,
		MediaType:   inferMediaType(u),
		Text:        input.Text,
		SourceLabel: location,
		FileName:    name,
		Size:        domain.UnknownSize,
	}, nil
}

func (a *Acquirer) fromSocialPost(ctx context.Context, input domain.RawInput, beforeFetch func()) (*domain.CanonicalContent, error) {
	reference := strings.TrimSpace(input.Location)
	if reference == "" {
		return nil, domain.NewInputError(domain.RejectEmptyReference)
	}
	postID, ok := PostID(reference)
	if !ok {
		return nil, domain.NewInputError(domain.RejectInvalidReference)
	}
	if a.social == nil {
		return nil, &domain.InputError{Reason: domain.RejectFetchFailed, Err: domain.ErrNotImplemented}
	}

	if beforeFetch != nil {
		beforeFetch()
	}
	logger.Debug("extracting post %s", postID)
	post, err := a.social.Extract(ctx, reference, postID)
	if err != nil {
		return nil, &domain.InputError{Reason: domain.RejectFetchFailed, Err: err}
	}
	if post == nil || strings.TrimSpace(post.ImageURL) == "" || strings.TrimSpace(post.Caption) == "" {
		return nil, domain.NewInputError(domain.RejectIncompletePost)
	}

	mediaType := genericImageType
	if u, err := parseHTTPURL(post.ImageURL); err == nil {
		mediaType = inferMediaType(u)
	}
	return &domain.CanonicalContent{
		Kind:        domain.SourceSocialPost,
		Location:    post.ImageURL,
		MediaType:   mediaType,
		Text:        post.Caption,
		SourceLabel: reference,
		FileName:    domain.SocialImageFileName,
		Size:        domain.UnknownSize,
	}, nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.ErrInvalidInput
	}
	return u, nil
}

// inferMediaType guesses a media type from the path extension or a
// format query parameter, falling back to a generic image type. Only image
// extensions are trusted; the fetcher sniffs the real bytes at encode time.
func inferMediaType(u *url.URL) string {
	if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
		mt, _, _ := strings.Cut(mime.TypeByExtension(ext), ";")
		if domain.IsImageMediaType(mt) {
			return mt
		}
	}
	if format := strings.ToLower(u.Query().Get("format")); format != "" {
		if format == "jpg" {
			format = "jpeg"
		}
		return "image/" + format
	}
	return genericImageType
}
