package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/descheck/internal/adapters/driven/auth"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

// --- Mock implementations ---

// callLog records every network call made through the mocks, in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(name string) int {
	n := 0
	for _, c := range l.names() {
		if c == name {
			n++
		}
	}
	return n
}

// mockIdentity implements driven.IdentityService.
type mockIdentity struct {
	log       *callLog
	identity  *domain.Identity
	meErr     error
	token     string
	loginErr  error
	regErr    error
	lastToken string
}

func (m *mockIdentity) Me(_ context.Context, session domain.Session) (*domain.Identity, error) {
	m.log.add("identity")
	m.lastToken = session.Token
	if m.meErr != nil {
		return nil, m.meErr
	}
	return m.identity, nil
}

func (m *mockIdentity) Login(_ context.Context, _ domain.Credentials) (*domain.AccessToken, error) {
	m.log.add("login")
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &domain.AccessToken{Token: m.token, TokenType: "bearer"}, nil
}

func (m *mockIdentity) Register(_ context.Context, creds domain.Credentials) (*domain.Identity, error) {
	m.log.add("register")
	if m.regErr != nil {
		return nil, m.regErr
	}
	return &domain.Identity{ID: 7, Email: creds.Email}, nil
}

// mockStore implements driven.RemoteStore.
type mockStore struct {
	log       *callLog
	record    *domain.UploadRecord
	uploadErr error
	lastReq   domain.UploadRequest
	files     []domain.StoredFile
	deleted   []int64
}

func (m *mockStore) Upload(_ context.Context, _ domain.Session, req domain.UploadRequest) (*domain.UploadRecord, error) {
	m.log.add("store")
	m.lastReq = req
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return m.record, nil
}

func (m *mockStore) List(_ context.Context, _ domain.Session) ([]domain.StoredFile, error) {
	m.log.add("list")
	return m.files, nil
}

func (m *mockStore) Delete(_ context.Context, _ domain.Session, id int64) error {
	m.log.add("delete")
	m.deleted = append(m.deleted, id)
	return nil
}

// mockAnalyzer implements driven.Analyzer.
type mockAnalyzer struct {
	log     *callLog
	result  *domain.AnalysisResult
	err     error
	lastReq domain.AnalysisRequest
	block   chan struct{}
}

func (m *mockAnalyzer) Analyze(ctx context.Context, _ domain.Session, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	m.log.add("analyze")
	m.lastReq = req
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockSocial implements driven.SocialExtractor.
type mockSocial struct {
	log  *callLog
	post *domain.SocialPost
	err  error
}

func (m *mockSocial) Extract(_ context.Context, postURL, postID string) (*domain.SocialPost, error) {
	m.log.add("social")
	if m.err != nil {
		return nil, m.err
	}
	post := *m.post
	post.PostURL = postURL
	post.PostID = postID
	return &post, nil
}

// mockFetcher implements driven.ContentFetcher.
type mockFetcher struct {
	log  *callLog
	data []byte
	err  error
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (io.ReadCloser, error) {
	m.log.add("fetch")
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// failingTokenStore implements driven.TokenStore with a read error.
type failingTokenStore struct{}

func (failingTokenStore) Token() (string, error) { return "", errors.New("disk gone") }
func (failingTokenStore) SetToken(string) error  { return errors.New("disk gone") }
func (failingTokenStore) Clear() error           { return errors.New("disk gone") }

// harness wires a pipeline to mocks that succeed by default.
type harness struct {
	log      *callLog
	tokens   *auth.StaticTokenStore
	identity *mockIdentity
	store    *mockStore
	analyzer *mockAnalyzer
	social   *mockSocial
	fetcher  *mockFetcher
	pipeline *Pipeline
	changes  []domain.StateChange
	mu       sync.Mutex
}

func newHarness(token string, opts ...PipelineOption) *harness {
	log := &callLog{}
	h := &harness{
		log:      log,
		tokens:   auth.NewStaticTokenStore(token),
		identity: &mockIdentity{log: log, identity: &domain.Identity{ID: 7, Email: "ada@example.com"}},
		store:    &mockStore{log: log, record: &domain.UploadRecord{ID: 42}},
		analyzer: &mockAnalyzer{log: log, result: &domain.AnalysisResult{Text: "Match: 92% confidence"}},
		social: &mockSocial{log: log, post: &domain.SocialPost{
			ImageURL: "https://pbs.twimg.com/media/abc.jpg",
			Caption:  "A sunset over mountains",
		}},
		fetcher: &mockFetcher{log: log, data: []byte("fetched-image-bytes")},
	}

	p, err := NewPipeline(PipelineDeps{
		Tokens:   h.tokens,
		Identity: h.identity,
		Store:    h.store,
		Analyzer: h.analyzer,
		Social:   h.social,
		Fetcher:  h.fetcher,
	}, opts...)
	if err != nil {
		panic(err)
	}
	_ = p.Subscribe(func(change domain.StateChange) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.changes = append(h.changes, change)
	})
	h.pipeline = p
	return h
}

// stages returns the sequence of target stages observed so far.
func (h *harness) stages() []domain.Stage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Stage, 0, len(h.changes))
	for _, c := range h.changes {
		out = append(out, c.To.Stage)
	}
	return out
}

// signedToken returns an HS256 JWT expiring at exp.
func signedToken(exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

// jpegOf returns n bytes starting with a JPEG signature.
func jpegOf(n int) []byte {
	b := make([]byte, n)
	copy(b, []byte{0xff, 0xd8, 0xff, 0xe0})
	return b
}
