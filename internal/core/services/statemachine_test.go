package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestStateMachine_StartsIdle(t *testing.T) {
	m := NewStateMachine()

	assert.Equal(t, domain.IdleState(), m.State())
	assert.Empty(t, m.Message())
	assert.Nil(t, m.Result())
}

func TestStateMachine_ForwardOnly(t *testing.T) {
	m := NewStateMachine()

	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating}))
	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageUploading}))

	err := m.Transition(domain.PipelineState{Stage: domain.StageValidating})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StageUploading, m.State().Stage)
}

func TestStateMachine_TerminalUntilReset(t *testing.T) {
	m := NewStateMachine()
	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating}))
	require.NoError(t, m.Transition(domain.FailedState("boom")))

	assert.ErrorIs(t, m.Transition(domain.PipelineState{Stage: domain.StageUploading}), domain.ErrInvalidTransition)
	assert.Equal(t, "boom", m.Message())

	m.Reset()
	assert.Equal(t, domain.IdleState(), m.State())
	assert.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating}))
}

func TestStateMachine_ClearsStaleFields(t *testing.T) {
	m := NewStateMachine()

	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating, Message: "stray"}))
	assert.Empty(t, m.Message())

	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageAnalyzing}))
	require.NoError(t, m.Transition(domain.SucceededState(domain.AnalysisResult{Text: "ok"})))
	require.NotNil(t, m.Result())
	assert.Equal(t, "ok", m.Result().Text)

	m.Reset()
	assert.Nil(t, m.Result())
}

func TestStateMachine_PublishesInOrder(t *testing.T) {
	m := NewStateMachine()
	var first, second []domain.StateChange
	require.NoError(t, m.Subscribe(func(c domain.StateChange) { first = append(first, c) }))
	require.NoError(t, m.Subscribe(func(c domain.StateChange) { second = append(second, c) }))

	m.BeginRun("run-9", domain.VariantGenerate, "cat.png")
	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating}))
	require.NoError(t, m.Transition(domain.FailedState("nope")))

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, domain.StageIdle, first[0].From.Stage)
	assert.Equal(t, domain.StageValidating, first[0].To.Stage)
	assert.Equal(t, "nope", first[1].To.Message)
	assert.Equal(t, "run-9", first[1].RunID)
	assert.Equal(t, domain.VariantGenerate, first[1].Variant)
	assert.Equal(t, "cat.png", first[1].SourceLabel)
	assert.False(t, first[1].At.IsZero())
}

func TestStateMachine_HandlerCanReadState(t *testing.T) {
	m := NewStateMachine()
	var seen domain.Stage
	require.NoError(t, m.Subscribe(func(domain.StateChange) { seen = m.State().Stage }))

	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating}))

	assert.Equal(t, domain.StageValidating, seen)
}

func TestStateMachine_ResetIdempotent(t *testing.T) {
	m := NewStateMachine()
	count := 0
	require.NoError(t, m.Subscribe(func(domain.StateChange) { count++ }))
	require.NoError(t, m.Transition(domain.PipelineState{Stage: domain.StageValidating}))
	require.NoError(t, m.Transition(domain.FailedState("x")))

	m.Reset()
	m.Reset()

	assert.Equal(t, 3, count)
	assert.Equal(t, domain.IdleState(), m.State())
}

func TestStateMachine_SubscribeNil(t *testing.T) {
	assert.ErrorIs(t, NewStateMachine().Subscribe(nil), domain.ErrInvalidInput)
}
