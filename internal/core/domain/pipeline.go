package domain

import (
	"fmt"
	"time"
)

// Stage is a position in the submission pipeline.
type Stage string

// Pipeline stages, in forward order.
const (
	StageIdle             Stage = "idle"
	StageValidating       Stage = "validating"
	StageFetchingExternal Stage = "fetching_external"
	StageUploading        Stage = "uploading"
	StageAnalyzing        Stage = "analyzing"
	StageSucceeded        Stage = "succeeded"
	StageFailed           Stage = "failed"
)

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether the stage ends a run.
func (s Stage) IsTerminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// IsBusy reports whether a run is in flight at this stage.
func (s Stage) IsBusy() bool {
	switch s {
	case StageValidating, StageFetchingExternal, StageUploading, StageAnalyzing:
		return true
	default:
		return false
	}
}

// Description returns a short progress label.
func (s Stage) Description() string {
	switch s {
	case StageIdle:
		return "Ready"
	case StageValidating:
		return "Validating input"
	case StageFetchingExternal:
		return "Fetching post"
	case StageUploading:
		return "Uploading"
	case StageAnalyzing:
		return "Analyzing"
	case StageSucceeded:
		return "Done"
	case StageFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s Stage) rank() int {
	switch s {
	case StageIdle:
		return 0
	case StageValidating:
		return 1
	case StageFetchingExternal:
		return 2
	case StageUploading:
		return 3
	case StageAnalyzing:
		return 4
	case StageSucceeded, StageFailed:
		return 5
	default:
		return -1
	}
}

// CanTransition reports whether the pipeline may move from one stage to another.
// Reset to idle is always allowed. Terminal stages only leave through reset.
// Any busy stage may fail; success is only reachable from analyzing.
func CanTransition(from, to Stage) bool {
	if to.rank() < 0 || from.rank() < 0 {
		return false
	}
	if to == StageIdle {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	switch to {
	case StageFailed:
		return true
	case StageSucceeded:
		return from == StageAnalyzing
	default:
		return to.rank() > from.rank()
	}
}

// Variant selects which analysis a run requests.
type Variant string

// Pipeline variants.
const (
	// VariantVerify checks a description against the image.
	VariantVerify Variant = "verify"

	// VariantGenerate asks the analyzer to describe the image.
	VariantGenerate Variant = "generate"
)

// IsValid returns true if the variant is recognised.
func (v Variant) IsValid() bool {
	return v == VariantVerify || v == VariantGenerate
}

// RequiresText reports whether a description must accompany the payload.
func (v Variant) RequiresText() bool {
	return v == VariantVerify
}

// String returns the string representation.
func (v Variant) String() string {
	return string(v)
}

// PipelineState is the observable state of the pipeline.
type PipelineState struct {
	Stage Stage

	// Message is set only when Stage is StageFailed.
	Message string

	// Result is set only when Stage is StageSucceeded.
	Result *AnalysisResult
}

// IdleState returns the initial state.
func IdleState() PipelineState {
	return PipelineState{Stage: StageIdle}
}

// FailedState returns a failed state carrying message.
func FailedState(message string) PipelineState {
	return PipelineState{Stage: StageFailed, Message: message}
}

// SucceededState returns a succeeded state carrying result.
func SucceededState(result AnalysisResult) PipelineState {
	return PipelineState{Stage: StageSucceeded, Result: &result}
}

// Busy reports whether a run is in flight.
func (s PipelineState) Busy() bool {
	return s.Stage.IsBusy()
}

func (s PipelineState) String() string {
	switch s.Stage {
	case StageFailed:
		return fmt.Sprintf("%s(%s)", s.Stage, s.Message)
	case StageSucceeded:
		if s.Result != nil {
			return fmt.Sprintf("%s(%s)", s.Stage, s.Result.Text)
		}
	}
	return s.Stage.String()
}

// StateChange is published on every pipeline transition.
type StateChange struct {
	RunID       string
	Variant     Variant
	SourceLabel string
	UploadID    int64
	From        PipelineState
	To          PipelineState
	At          time.Time
}

// StepError is a step failure converted into the single message
// the pipeline reports for it.
type StepError struct {
	Stage   Stage
	Message string
	Err     error
}

// NewStepError creates a StepError.
func NewStepError(stage Stage, message string, err error) *StepError {
	return &StepError{Stage: stage, Message: message, Err: err}
}

func (e *StepError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}
