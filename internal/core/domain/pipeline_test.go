package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     Stage
		to       Stage
		expected bool
	}{
		{"idle to validating", StageIdle, StageValidating, true},
		{"validating to fetching", StageValidating, StageFetchingExternal, true},
		{"validating to uploading", StageValidating, StageUploading, true},
		{"fetching to uploading", StageFetchingExternal, StageUploading, true},
		{"uploading to analyzing", StageUploading, StageAnalyzing, true},
		{"analyzing to succeeded", StageAnalyzing, StageSucceeded, true},
		{"uploading to failed", StageUploading, StageFailed, true},
		{"idle to failed", StageIdle, StageFailed, true},
		{"uploading back to validating", StageUploading, StageValidating, false},
		{"analyzing back to uploading", StageAnalyzing, StageUploading, false},
		{"uploading to succeeded", StageUploading, StageSucceeded, false},
		{"succeeded to failed", StageSucceeded, StageFailed, false},
		{"failed to validating", StageFailed, StageValidating, false},
		{"failed to idle", StageFailed, StageIdle, true},
		{"succeeded to idle", StageSucceeded, StageIdle, true},
		{"idle to idle", StageIdle, StageIdle, true},
		{"unknown target", StageIdle, Stage("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStage_IsBusy(t *testing.T) {
	busy := []Stage{StageValidating, StageFetchingExternal, StageUploading, StageAnalyzing}
	idle := []Stage{StageIdle, StageSucceeded, StageFailed}

	for _, s := range busy {
		assert.True(t, s.IsBusy(), s.String())
	}
	for _, s := range idle {
		assert.False(t, s.IsBusy(), s.String())
	}
}

func TestStage_IsTerminal(t *testing.T) {
	assert.True(t, StageSucceeded.IsTerminal())
	assert.True(t, StageFailed.IsTerminal())
	assert.False(t, StageAnalyzing.IsTerminal())
}

func TestVariant(t *testing.T) {
	assert.True(t, VariantVerify.RequiresText())
	assert.False(t, VariantGenerate.RequiresText())
	assert.True(t, VariantGenerate.IsValid())
	assert.False(t, Variant("translate").IsValid())
}

func TestPipelineState_Constructors(t *testing.T) {
	failed := FailedState("analysis failed")
	assert.Equal(t, StageFailed, failed.Stage)
	assert.Equal(t, "analysis failed", failed.Message)
	assert.Nil(t, failed.Result)
	assert.Equal(t, "failed(analysis failed)", failed.String())

	ok := SucceededState(AnalysisResult{Text: "Match: 92% confidence"})
	assert.Equal(t, StageSucceeded, ok.Stage)
	assert.Empty(t, ok.Message)
	if assert.NotNil(t, ok.Result) {
		assert.Equal(t, "Match: 92% confidence", ok.Result.Text)
	}

	assert.Equal(t, PipelineState{Stage: StageIdle}, IdleState())
	assert.Equal(t, "idle", IdleState().String())
}
