package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_BackBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Back.Keys(), "esc")
}

func TestDefaultKeyMap_AnalyzeBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Submit.Keys(), "enter")
	assert.Contains(t, km.Load.Keys(), "ctrl+l")
	assert.Contains(t, km.NextField.Keys(), "tab")
	assert.Contains(t, km.Source.Keys(), "ctrl+t")
	assert.Contains(t, km.Reset.Keys(), "ctrl+r")
}

func TestDefaultKeyMap_ListBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Down.Keys(), "j")
	assert.Contains(t, km.Delete.Keys(), "d")
	assert.Contains(t, km.Refresh.Keys(), "r")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 2)
	assert.Equal(t, km.Quit, bindings[0])
	assert.Equal(t, km.Help, bindings[1])
}

func TestAnalyzeHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.AnalyzeHelp()

	require.Len(t, bindings, 5)
	assert.Equal(t, km.Submit, bindings[0])
	assert.Equal(t, km.Back, bindings[4])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 4)
	assert.Len(t, bindings[0], 3) // Up, Down, Select
	assert.Len(t, bindings[1], 5) // Submit, NextField, Source, Load, Reset
	assert.Len(t, bindings[2], 3) // Delete, Refresh, Back
	assert.Len(t, bindings[3], 2) // Help, Quit
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		key     string
		binding key.Binding
		want    bool
	}{
		{"quit q", "q", km.Quit, true},
		{"quit ctrl+c", "ctrl+c", km.Quit, true},
		{"help", "?", km.Help, true},
		{"vim up", "k", km.Up, true},
		{"shift tab", "shift+tab", km.NextField, true},
		{"wrong key", "x", km.Quit, false},
		{"down is not up", "down", km.Up, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.key, tt.binding))
		})
	}
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Back", km.Back},
		{"Submit", km.Submit},
		{"Load", km.Load},
		{"NextField", km.NextField},
		{"Source", km.Source},
		{"Reset", km.Reset},
		{"Up", km.Up},
		{"Down", km.Down},
		{"Select", km.Select},
		{"Delete", km.Delete},
		{"Refresh", km.Refresh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key, "binding should have help key")
		})
	}
}
