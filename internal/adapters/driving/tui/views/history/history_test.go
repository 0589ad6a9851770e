package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

// --- Mock implementations ---

type mockHistoryService struct {
	runs     []domain.RunRecord
	listErr  error
	limits   []int
	clearErr error
	cleared  int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.limits = append(m.limits, limit)
	return m.runs, m.listErr
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Clear(context.Context) error {
	m.cleared++
	return m.clearErr
}

func sampleRuns() []domain.RunRecord {
	match := true
	start := time.Now().Add(-2 * time.Minute)
	return []domain.RunRecord{
		{
			ID: "run-2", Variant: domain.VariantVerify, SourceLabel: "cat.png", UploadID: 42,
			Stage: domain.StageSucceeded, Result: "Match: 92% confidence", DoesMatch: &match,
			StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
		},
		{
			ID: "run-1", Variant: domain.VariantGenerate, SourceLabel: "https://example.com/a.png",
			Stage: domain.StageFailed, Message: "authentication required",
		},
	}
}

func newLoadedView(t *testing.T, svc *mockHistoryService) *View {
	t.Helper()
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)
	v.Update(v.Init()())
	return v
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Init_LoadsRuns(t *testing.T) {
	svc := &mockHistoryService{runs: sampleRuns()}
	v := newLoadedView(t, svc)

	assert.Equal(t, []int{DefaultLimit}, svc.limits)
	assert.Len(t, v.Runs(), 2)
	view := v.View()
	assert.Contains(t, view, "Runs (2)")
	assert.Contains(t, view, "cat.png")
	assert.Contains(t, view, "verify · succeeded")
	assert.Contains(t, view, "authentication required")
}

func TestView_Empty(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{})

	assert.Contains(t, v.View(), "No runs recorded yet.")
}

func TestView_Disabled(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(80, 24)

	v.Update(v.Init()())

	assert.ErrorIs(t, v.Err(), ErrHistoryDisabled)
	assert.Contains(t, v.View(), "run history is disabled")
}

func TestView_LoadError(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{listErr: errors.New("database is locked")})

	assert.Contains(t, v.View(), "database is locked")
}

func TestView_Detail(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{runs: sampleRuns()})

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := v.View()
	assert.Contains(t, view, "Run: run-2")
	assert.Contains(t, view, "Upload: 42")
	assert.Contains(t, view, "Took: 1.5s")
	assert.Contains(t, view, "Match: yes")
}

func TestView_Clear(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		wantClears int
		wantRuns   int
	}{
		{"confirmed", "y", 1, 0},
		{"declined", "n", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockHistoryService{runs: sampleRuns()}
			v := newLoadedView(t, svc)

			v.Update(key("d"))
			assert.Contains(t, v.View(), "Clear all 2 recorded runs?")

			_, cmd := v.Update(key(tt.answer))
			if cmd != nil {
				v.Update(cmd())
			}

			assert.Equal(t, tt.wantClears, svc.cleared)
			assert.Len(t, v.Runs(), tt.wantRuns)
		})
	}
}

func TestView_ReloadsAfterTerminalTransition(t *testing.T) {
	svc := &mockHistoryService{}
	v := newLoadedView(t, svc)

	_, cmd := v.Update(messages.StateChanged{Change: domain.StateChange{
		To: domain.PipelineState{Stage: domain.StageUploading},
	}})
	assert.Nil(t, cmd)

	svc.runs = sampleRuns()
	_, cmd = v.Update(messages.StateChanged{Change: domain.StateChange{
		To: domain.FailedState("boom"),
	}})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Len(t, v.Runs(), 2)
}

func TestView_Back(t *testing.T) {
	v := newLoadedView(t, &mockHistoryService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
