package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestDefaultTheme_StatusColoursDiffer(t *testing.T) {
	theme := DefaultTheme()

	seen := map[lipgloss.Color]bool{}
	for _, c := range []lipgloss.Color{theme.Accent, theme.Highlight, theme.Good, theme.Caution, theme.Bad} {
		require.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := &Theme{Accent: "#000001", Good: "#000002", Dim: "#000003"}

	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, lipgloss.Color("#000001"), s.Title.GetForeground())
	assert.True(t, s.Title.GetBold())
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Accent, s.Theme().Accent)
	assert.Equal(t, labelWidth, s.Label.GetWidth())
	assert.Equal(t, labelWidth, s.FocusedLabel.GetWidth())
}

func TestStyles_ForStage(t *testing.T) {
	s := DefaultStyles()

	tests := []struct {
		stage domain.Stage
		want  lipgloss.Style
	}{
		{domain.StageIdle, s.Muted},
		{domain.StageValidating, s.Warning},
		{domain.StageFetchingExternal, s.Warning},
		{domain.StageUploading, s.Warning},
		{domain.StageAnalyzing, s.Warning},
		{domain.StageSucceeded, s.Success},
		{domain.StageFailed, s.Error},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.want, s.ForStage(tt.stage))
		})
	}
}

func TestStyles_ForMatch(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.theme.Good, s.ForMatch(true).GetForeground())
	assert.Equal(t, s.theme.Bad, s.ForMatch(false).GetForeground())
	assert.True(t, s.ForMatch(false).GetBold())
}

func TestStyles_SessionBadge(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.SessionBadge(true), "signed in")
	assert.Contains(t, s.SessionBadge(false), "signed out")
}
