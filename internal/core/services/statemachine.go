package services

import (
	"fmt"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// TopicStateChanged is the event bus topic for pipeline transitions.
const TopicStateChanged = "pipeline:state"

// runInfo describes the run a transition belongs to.
type runInfo struct {
	id          string
	variant     domain.Variant
	sourceLabel string
	uploadID    int64
}

// StateMachine holds the pipeline state and publishes every transition.
// Handlers run synchronously on the goroutine that caused the transition
// and must not trigger transitions or subscribe from inside the handler.
type StateMachine struct {
	// pubMu serialises update+publish so handlers observe transitions in order.
	pubMu sync.Mutex
	mu    sync.RWMutex
	state domain.PipelineState
	run   runInfo
	bus   evbus.Bus
	now   func() time.Time
}

// NewStateMachine creates a state machine in the idle state.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		state: domain.IdleState(),
		bus:   evbus.New(),
		now:   time.Now,
	}
}

// State returns the current state.
func (m *StateMachine) State() domain.PipelineState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Message returns the failure message, or "" unless failed.
func (m *StateMachine) Message() string {
	return m.State().Message
}

// Result returns the analysis result, or nil unless succeeded.
func (m *StateMachine) Result() *domain.AnalysisResult {
	return m.State().Result
}

// Subscribe registers handler for every subsequent transition.
func (m *StateMachine) Subscribe(handler driving.StateHandler) error {
	if handler == nil {
		return fmt.Errorf("%w: nil state handler", domain.ErrInvalidInput)
	}
	return m.bus.Subscribe(TopicStateChanged, func(change domain.StateChange) {
		handler(change)
	})
}

// BeginRun tags subsequent transitions with run metadata.
func (m *StateMachine) BeginRun(id string, variant domain.Variant, sourceLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run = runInfo{id: id, variant: variant, sourceLabel: sourceLabel}
}

// SetSourceLabel updates the label once acquisition knows it.
func (m *StateMachine) SetSourceLabel(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.sourceLabel = label
}

// SetUploadID records the upload handle for the current run.
func (m *StateMachine) SetUploadID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.uploadID = id
}

// Transition moves to next if the move is allowed.
func (m *StateMachine) Transition(next domain.PipelineState) error {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	prev := m.state
	if !domain.CanTransition(prev.Stage, next.Stage) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, prev.Stage, next.Stage)
	}
	if next.Stage != domain.StageFailed {
		next.Message = ""
	}
	if next.Stage != domain.StageSucceeded {
		next.Result = nil
	}
	m.state = next
	change := m.changeLocked(prev, next)
	m.mu.Unlock()

	m.bus.Publish(TopicStateChanged, change)
	return nil
}

// Reset returns to idle and clears any message or result.
// Resetting an idle machine is a no-op and publishes nothing.
func (m *StateMachine) Reset() {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	prev := m.state
	if prev.Stage == domain.StageIdle && prev.Message == "" && prev.Result == nil {
		m.mu.Unlock()
		return
	}
	m.state = domain.IdleState()
	change := m.changeLocked(prev, m.state)
	m.mu.Unlock()

	m.bus.Publish(TopicStateChanged, change)
}

func (m *StateMachine) changeLocked(prev, next domain.PipelineState) domain.StateChange {
	return domain.StateChange{
		RunID:       m.run.id,
		Variant:     m.run.variant,
		SourceLabel: m.run.sourceLabel,
		UploadID:    m.run.uploadID,
		From:        prev,
		To:          next,
		At:          m.now(),
	}
}
