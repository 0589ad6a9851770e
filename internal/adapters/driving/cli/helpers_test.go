package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockPipeline struct {
	mu       sync.Mutex
	handlers []driving.StateHandler

	result   *domain.AnalysisResult
	err      error
	stages   []domain.Stage
	gotInput domain.RawInput
	variant  domain.Variant
}

func (m *mockPipeline) Acquire(_ context.Context, _ domain.RawInput) (*domain.CanonicalContent, error) {
	return &domain.CanonicalContent{}, nil
}

func (m *mockPipeline) Run(_ context.Context, _ *domain.CanonicalContent, _ domain.Variant) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

func (m *mockPipeline) Submit(_ context.Context, input domain.RawInput, variant domain.Variant) (*domain.AnalysisResult, error) {
	m.gotInput = input
	m.variant = variant

	m.mu.Lock()
	handlers := append([]driving.StateHandler(nil), m.handlers...)
	m.mu.Unlock()
	from := domain.IdleState()
	for _, stage := range m.stages {
		to := domain.PipelineState{Stage: stage}
		for _, h := range handlers {
			h(domain.StateChange{From: from, To: to})
		}
		from = to
	}

	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockPipeline) State() domain.PipelineState { return domain.IdleState() }

func (m *mockPipeline) Reset() {}

func (m *mockPipeline) Subscribe(handler driving.StateHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
	return nil
}

func (m *mockPipeline) Busy() bool { return false }

type mockAuth struct {
	identity  *domain.Identity
	err       error
	gotCreds  domain.Credentials
	loggedOut bool
}

func (m *mockAuth) Login(_ context.Context, creds domain.Credentials) (*domain.Identity, error) {
	m.gotCreds = creds
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Identity{ID: 1, Email: creds.Email}, nil
}

func (m *mockAuth) Register(_ context.Context, creds domain.Credentials) (*domain.Identity, error) {
	m.gotCreds = creds
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Identity{Email: creds.Email}, nil
}

func (m *mockAuth) Logout() error {
	m.loggedOut = true
	return nil
}

func (m *mockAuth) WhoAmI(_ context.Context) (*domain.Identity, error) {
	return m.identity, m.err
}

func (m *mockAuth) LoggedIn() bool { return m.identity != nil }

type mockFiles struct {
	files   []domain.StoredFile
	err     error
	deleted int64
}

func (m *mockFiles) List(_ context.Context) ([]domain.StoredFile, error) { return m.files, m.err }

func (m *mockFiles) Delete(_ context.Context, id int64) error {
	m.deleted = id
	return m.err
}

type mockHistory struct {
	runs     []domain.RunRecord
	gotLimit int
	cleared  bool
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.gotLimit = limit
	return m.runs, nil
}

func (m *mockHistory) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistory) Clear(_ context.Context) error {
	m.cleared = true
	return nil
}

type mockSettings struct {
	current domain.AppSettings
	saves   int
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.current
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.current = *s
	m.saves++
	return nil
}

func (m *mockSettings) SetAPIBaseURL(baseURL string) error {
	m.current.API.BaseURL = baseURL
	return nil
}

func (m *mockSettings) SetStepTimeout(timeout time.Duration) error {
	m.current.Pipeline.StepTimeout = timeout
	return nil
}

func (m *mockSettings) Validate() error { return m.current.API.Validate() }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// --- Helpers ---

// setupTestServices installs s and resets command flags; everything is
// restored when the test ends.
func setupTestServices(t *testing.T, s Services) {
	t.Helper()
	resetFlags()
	SetServices(s)
	t.Cleanup(func() {
		resetFlags()
		SetServices(Services{})
	})
}

func resetFlags() {
	verifyText, verifyPost, submitJSON = "", "", false
	filesJSON = false
	historyLimit = 20
	authEmail, authPasswordStdin = "", false
}

// executeCommand runs the root command with args and returns combined output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
