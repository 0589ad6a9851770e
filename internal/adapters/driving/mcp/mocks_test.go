package mcp

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	result *domain.AnalysisResult
	err    error

	gotInput   domain.RawInput
	gotVariant domain.Variant
}

func (m *mockPipelineService) Acquire(_ context.Context, _ domain.RawInput) (*domain.CanonicalContent, error) {
	return &domain.CanonicalContent{}, nil
}

func (m *mockPipelineService) Run(
	_ context.Context, _ *domain.CanonicalContent, _ domain.Variant,
) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

func (m *mockPipelineService) Submit(
	_ context.Context, input domain.RawInput, variant domain.Variant,
) (*domain.AnalysisResult, error) {
	m.gotInput = input
	m.gotVariant = variant
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.AnalysisResult{}, nil
	}
	return m.result, nil
}

func (m *mockPipelineService) State() domain.PipelineState {
	return domain.IdleState()
}

func (m *mockPipelineService) Reset() {}

func (m *mockPipelineService) Subscribe(_ driving.StateHandler) error {
	return nil
}

func (m *mockPipelineService) Busy() bool {
	return false
}

// mockFileService is a mock implementation of driving.FileService.
type mockFileService struct {
	files []domain.StoredFile
	err   error
}

func (m *mockFileService) List(_ context.Context) ([]domain.StoredFile, error) {
	return m.files, m.err
}

func (m *mockFileService) Delete(_ context.Context, _ int64) error {
	return m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs []domain.RunRecord
	err  error
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}
