// Package cache provides caching decorators for remote collaborators.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/logger"
)

// Ensure SocialExtractor implements the interface.
var _ driven.SocialExtractor = (*SocialExtractor)(nil)

// Default cache sizing.
const (
	DefaultSize = 128
	DefaultTTL  = 10 * time.Minute
)

// SocialExtractor remembers complete post extractions keyed by post ID.
// Failures and incomplete posts are never cached.
type SocialExtractor struct {
	next     driven.SocialExtractor
	cache    *expirable.LRU[string, domain.SocialPost]
	onLookup func(hit bool)
}

// Option configures a SocialExtractor.
type Option func(*SocialExtractor)

// WithLookupObserver registers a callback invoked on every cache lookup.
func WithLookupObserver(fn func(hit bool)) Option {
	return func(s *SocialExtractor) {
		s.onLookup = fn
	}
}

// NewSocialExtractor wraps next with an LRU of the given size and TTL.
func NewSocialExtractor(next driven.SocialExtractor, size int, ttl time.Duration, opts ...Option) *SocialExtractor {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &SocialExtractor{
		next:  next,
		cache: expirable.NewLRU[string, domain.SocialPost](size, nil, ttl),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns the cached post or asks the wrapped extractor.
func (s *SocialExtractor) Extract(ctx context.Context, postURL, postID string) (*domain.SocialPost, error) {
	if post, ok := s.cache.Get(postID); ok {
		s.observe(true)
		logger.Debug("social post %s served from cache", postID)
		post.PostURL = postURL
		return &post, nil
	}
	s.observe(false)

	post, err := s.next.Extract(ctx, postURL, postID)
	if err != nil {
		return nil, err
	}
	if post != nil && post.ImageURL != "" && post.Caption != "" {
		s.cache.Add(postID, *post)
	}
	return post, nil
}

// Len returns the number of cached posts.
func (s *SocialExtractor) Len() int {
	return s.cache.Len()
}

// Purge drops every cached post.
func (s *SocialExtractor) Purge() {
	s.cache.Purge()
}

func (s *SocialExtractor) observe(hit bool) {
	if s.onLookup != nil {
		s.onLookup(hit)
	}
}
