package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
	"github.com/custodia-labs/descheck/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// Step failure messages.
const (
	msgUploadFailed   = "Failed to upload file"
	msgAnalysisFailed = "analysis failed"
)

// Pipeline errors.
var (
	ErrMissingIdentity = errors.New("pipeline: identity service is required")
	ErrMissingStore    = errors.New("pipeline: remote store is required")
	ErrMissingAnalyzer = errors.New("pipeline: analyzer is required")
	ErrMissingTokens   = errors.New("pipeline: token store is required")
)

// PipelineDeps aggregates the driven ports a pipeline needs.
type PipelineDeps struct {
	Tokens   driven.TokenStore
	Identity driven.IdentityService
	Store    driven.RemoteStore
	Analyzer driven.Analyzer

	// Social is optional; without it social posts cannot be acquired.
	Social driven.SocialExtractor

	// Fetcher is optional; without it URL payloads cannot be encoded.
	Fetcher driven.ContentFetcher
}

// Validate checks that all required dependencies are set.
func (d PipelineDeps) Validate() error {
	if d.Tokens == nil {
		return ErrMissingTokens
	}
	if d.Identity == nil {
		return ErrMissingIdentity
	}
	if d.Store == nil {
		return ErrMissingStore
	}
	if d.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	return nil
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithStepTimeout bounds every network step. Zero disables the deadline.
func WithStepTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.stepTimeout = d
	}
}

// WithRunIDs overrides run ID generation.
func WithRunIDs(next func() string) PipelineOption {
	return func(p *Pipeline) {
		p.newRunID = next
	}
}

// Pipeline runs one submission at a time through acquisition, validation,
// session resolution, encoding, upload and analysis.
type Pipeline struct {
	acquirer  *Acquirer
	validator *Validator
	gate      *SessionGate
	encoder   *Encoder
	identity  driven.IdentityService
	store     driven.RemoteStore
	analyzer  driven.Analyzer
	machine   *StateMachine

	running     *semaphore.Weighted
	inFlight    atomic.Bool
	stepTimeout time.Duration
	newRunID    func() string
}

// NewPipeline creates a pipeline over deps.
func NewPipeline(deps PipelineDeps, opts ...PipelineOption) (*Pipeline, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		acquirer:  NewAcquirer(deps.Social),
		validator: NewValidator(),
		gate:      NewSessionGate(deps.Tokens),
		encoder:   NewEncoder(deps.Fetcher),
		identity:  deps.Identity,
		store:     deps.Store,
		analyzer:  deps.Analyzer,
		machine:   NewStateMachine(),
		running:   semaphore.NewWeighted(1),
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.machine.Subscribe(logTransition); err != nil {
		return nil, err
	}
	return p, nil
}

func logTransition(change domain.StateChange) {
	logger.Debugw("pipeline transition",
		"run", change.RunID,
		"from", change.From.Stage.String(),
		"to", change.To.Stage.String(),
		"message", change.To.Message,
	)
}

// State returns the current pipeline state.
func (p *Pipeline) State() domain.PipelineState {
	return p.machine.State()
}

// Subscribe registers handler for every transition.
func (p *Pipeline) Subscribe(handler driving.StateHandler) error {
	return p.machine.Subscribe(handler)
}

// Busy reports whether a run is in flight.
func (p *Pipeline) Busy() bool {
	return p.inFlight.Load()
}

// Reset returns the pipeline to idle. It is ignored while a run is in flight.
func (p *Pipeline) Reset() {
	if p.inFlight.Load() {
		logger.Debug("reset ignored: submission in progress")
		return
	}
	p.machine.Reset()
}

// begin claims the single run slot.
func (p *Pipeline) begin() bool {
	if !p.running.TryAcquire(1) {
		return false
	}
	p.inFlight.Store(true)
	return true
}

func (p *Pipeline) end() {
	p.inFlight.Store(false)
	p.running.Release(1)
}

// Acquire normalises input as new input: prior state is cleared, the
// payload is checked, and the pipeline returns to idle on success.
func (p *Pipeline) Acquire(ctx context.Context, input domain.RawInput) (*domain.CanonicalContent, error) {
	if !p.begin() {
		return nil, domain.ErrPipelineBusy
	}
	defer p.end()

	p.machine.Reset()
	p.machine.BeginRun(p.newRunID(), "", input.Location)

	content, stepErr := p.acquire(ctx, input)
	if stepErr != nil {
		return nil, p.fail(stepErr)
	}
	if outcome := p.validator.ValidatePayload(content); !outcome.Accepted() {
		return nil, p.fail(rejection(outcome))
	}

	p.machine.Reset()
	return content, nil
}

// Run validates, uploads and analyzes already acquired content.
func (p *Pipeline) Run(ctx context.Context, content *domain.CanonicalContent, variant domain.Variant) (*domain.AnalysisResult, error) {
	if !p.begin() {
		return nil, domain.ErrPipelineBusy
	}
	defer p.end()

	label := ""
	if content != nil {
		label = content.SourceLabel
	}
	p.machine.Reset()
	p.machine.BeginRun(p.newRunID(), variant, label)

	if err := p.advance(domain.StageValidating); err != nil {
		return nil, err
	}
	return p.execute(ctx, content, variant)
}

// Submit acquires input and runs it as a single pass.
func (p *Pipeline) Submit(ctx context.Context, input domain.RawInput, variant domain.Variant) (*domain.AnalysisResult, error) {
	if !p.begin() {
		return nil, domain.ErrPipelineBusy
	}
	defer p.end()

	p.machine.Reset()
	p.machine.BeginRun(p.newRunID(), variant, input.Location)

	content, stepErr := p.acquire(ctx, input)
	if stepErr != nil {
		return nil, p.fail(stepErr)
	}
	return p.execute(ctx, content, variant)
}

// acquire enters validating and, for social posts, fetching.
func (p *Pipeline) acquire(ctx context.Context, input domain.RawInput) (*domain.CanonicalContent, *domain.StepError) {
	if err := p.machine.Transition(domain.PipelineState{Stage: domain.StageValidating}); err != nil {
		return nil, domain.NewStepError(domain.StageValidating, err.Error(), err)
	}

	var transitionErr error
	beforeFetch := func() {
		transitionErr = p.machine.Transition(domain.PipelineState{Stage: domain.StageFetchingExternal})
	}

	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()

	content, err := p.acquirer.Acquire(stepCtx, input, beforeFetch)
	if transitionErr != nil {
		return nil, domain.NewStepError(domain.StageFetchingExternal, transitionErr.Error(), transitionErr)
	}
	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			return nil, domain.NewStepError(p.machine.State().Stage, inputErr.Reason.Message(), err)
		}
		return nil, domain.NewStepError(p.machine.State().Stage, err.Error(), err)
	}
	p.machine.SetSourceLabel(content.SourceLabel)
	return content, nil
}

// execute is the flat step chain from validation to analysis.
// The pipeline is already in validating or fetching.
func (p *Pipeline) execute(ctx context.Context, content *domain.CanonicalContent, variant domain.Variant) (*domain.AnalysisResult, error) {
	if !variant.IsValid() {
		return nil, p.fail(domain.NewStepError(domain.StageValidating, "unknown analysis variant", domain.ErrInvalidInput))
	}
	if outcome := p.validator.Validate(content, variant); !outcome.Accepted() {
		return nil, p.fail(rejection(outcome))
	}

	if err := p.advance(domain.StageUploading); err != nil {
		return nil, err
	}
	owner, stepErr := p.checkIdentity(ctx)
	if stepErr != nil {
		return nil, p.fail(stepErr)
	}
	payload, stepErr := p.encode(ctx, content)
	if stepErr != nil {
		return nil, p.fail(stepErr)
	}
	record, stepErr := p.upload(ctx, owner, content, payload)
	if stepErr != nil {
		return nil, p.fail(stepErr)
	}
	p.machine.SetUploadID(record.ID)

	if err := p.advance(domain.StageAnalyzing); err != nil {
		return nil, err
	}
	result, stepErr := p.analyze(ctx, record, content, variant)
	if stepErr != nil {
		return nil, p.fail(stepErr)
	}

	if err := p.machine.Transition(domain.SucceededState(*result)); err != nil {
		return nil, err
	}
	return result, nil
}

// session resolves the token for one privileged call.
func (p *Pipeline) session(stage domain.Stage) (domain.Session, *domain.StepError) {
	session, err := p.gate.Resolve()
	if err != nil {
		return domain.Session{}, domain.NewStepError(stage, domain.ErrAuthRequired.Error(), err)
	}
	return session, nil
}

// checkIdentity validates the session server-side. Any failure,
// whatever its status, is reported as authentication required.
func (p *Pipeline) checkIdentity(ctx context.Context) (*domain.Identity, *domain.StepError) {
	session, stepErr := p.session(domain.StageUploading)
	if stepErr != nil {
		return nil, stepErr
	}

	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()

	identity, err := p.identity.Me(stepCtx, session)
	if err != nil || identity == nil {
		if err == nil {
			err = domain.ErrNotFound
		}
		return nil, domain.NewStepError(domain.StageUploading, domain.ErrAuthRequired.Error(),
			fmt.Errorf("%w: %w", domain.ErrAuthRequired, err))
	}
	return identity, nil
}

func (p *Pipeline) encode(ctx context.Context, content *domain.CanonicalContent) (string, *domain.StepError) {
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()

	payload, err := p.encoder.Encode(stepCtx, content)
	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			return "", domain.NewStepError(domain.StageUploading, inputErr.Reason.Message(), err)
		}
		return "", domain.NewStepError(domain.StageUploading, domain.ErrEncodeFailed.Error(), err)
	}
	return payload, nil
}

func (p *Pipeline) upload(ctx context.Context, owner *domain.Identity, content *domain.CanonicalContent, payload string) (*domain.UploadRecord, *domain.StepError) {
	session, stepErr := p.session(domain.StageUploading)
	if stepErr != nil {
		return nil, stepErr
	}

	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()

	record, err := p.store.Upload(stepCtx, session, domain.UploadRequest{
		OwnerID:        owner.ID,
		FileName:       content.FileName,
		Text:           content.Text,
		EncodedPayload: payload,
	})
	if err != nil || record == nil {
		message := msgUploadFailed
		var remoteErr *domain.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Detail != "" {
			message = remoteErr.Detail
		}
		return nil, domain.NewStepError(domain.StageUploading, message, err)
	}
	return record, nil
}

func (p *Pipeline) analyze(ctx context.Context, record *domain.UploadRecord, content *domain.CanonicalContent, variant domain.Variant) (*domain.AnalysisResult, *domain.StepError) {
	session, stepErr := p.session(domain.StageAnalyzing)
	if stepErr != nil {
		return nil, stepErr
	}

	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()

	req := domain.AnalysisRequest{UploadID: record.ID, Variant: variant}
	if variant.RequiresText() {
		req.Text = content.Text
	}
	result, err := p.analyzer.Analyze(stepCtx, session, req)
	if err != nil || result == nil {
		return nil, domain.NewStepError(domain.StageAnalyzing, msgAnalysisFailed, err)
	}
	return result, nil
}

// advance moves forward to a busy stage.
func (p *Pipeline) advance(stage domain.Stage) error {
	if p.machine.State().Stage == stage {
		return nil
	}
	return p.machine.Transition(domain.PipelineState{Stage: stage})
}

// fail records the step failure as the single failed transition.
func (p *Pipeline) fail(stepErr *domain.StepError) error {
	if err := p.machine.Transition(domain.FailedState(stepErr.Message)); err != nil {
		logger.Warn("record failure: %v", err)
	}
	logger.Debug("step %s failed: %v", stepErr.Stage, stepErr.Err)
	return stepErr
}

func (p *Pipeline) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.stepTimeout)
}

func rejection(outcome domain.ValidationOutcome) *domain.StepError {
	return domain.NewStepError(domain.StageValidating, outcome.Reason.Message(), outcome.Err())
}
