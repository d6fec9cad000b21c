package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/veascript/lang"
)

func TestModel_Evaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"text and math", "#text {Result: }#math {2+3*4}", "Result: 14"},
		{"empty", "", "(empty document)"},
		{
			"embed",
			`#embed { #title: "Hi", #colour: #FF0000, }`,
			`embed 1: {"colour":16711680,"title":"Hi","fields":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)

			got, err := m.evaluate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModel_EvaluateErrors(t *testing.T) {
	m := testModel(t)

	_, err := m.evaluate("#titel {}")
	require.ErrorIs(t, err, lang.ErrParse)

	_, err = m.evaluate("#random {}")
	require.ErrorIs(t, err, lang.ErrBuild)
}

func TestModel_SeedCommand(t *testing.T) {
	m := testModel(t)

	m, out, err := m.runCommand("seed", nil)
	require.NoError(t, err)
	assert.Equal(t, "seed: off", out)

	m, _, err = m.runCommand("seed", []string{"42"})
	require.NoError(t, err)
	require.NotNil(t, m.seed)
	assert.Equal(t, uint64(42), *m.seed)

	const script = `#random {"a", "b", "c", "d", "e", "f", "g", "h"}`

	first, err := m.evaluate(script)
	require.NoError(t, err)

	for range 8 {
		again, err := m.evaluate(script)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	_, _, err = m.runCommand("seed", []string{"-3"})
	require.ErrorIs(t, err, ErrSeed)

	m, _, err = m.runCommand("seed", []string{"off"})
	require.NoError(t, err)
	assert.Nil(t, m.seed)
}

func TestModel_RunCommand(t *testing.T) {
	m := testModel(t)

	_, out, err := m.runCommand("help", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "seed [N]")

	_, out, err = m.runCommand("tags", nil)
	require.NoError(t, err)

	for _, tag := range lang.Tags() {
		assert.Contains(t, out, tag)
	}

	_, _, err = m.runCommand("bogus", nil)
	require.ErrorContains(t, err, "unknown command: bogus")
}

func TestModel_HistoryMove(t *testing.T) {
	m := testModel(t)
	require.NoError(t, m.history.Add("#math {1}", modeEval))
	require.NoError(t, m.history.Add("tags", modeCtrl))
	require.NoError(t, m.history.Add("#math {2}", modeEval))
	m.historyIdx = m.history.Len()

	m = m.historyMove(-1, false)
	assert.Equal(t, "#math {2}", m.input.Value())

	m = m.historyMove(-1, false)
	assert.Equal(t, "tags", m.input.Value())
	assert.Equal(t, modeCtrl, m.mode)

	m = m.historyMove(1, false)
	assert.Equal(t, "#math {2}", m.input.Value())
	assert.Equal(t, modeEval, m.mode)

	m = m.historyMove(-1, true)
	assert.Equal(t, "#math {1}", m.input.Value(), "same-mode skips control entries")

	m = m.historyMove(1, true)
	m = m.historyMove(1, true)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, m.history.Len(), m.historyIdx)
}

func TestModel_Cycle(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("#f")
	m.input.SetCursor(2)
	refreshMatches(&m, false)
	require.Greater(t, len(m.matches), 1)

	m = m.cycle(1)
	assert.True(t, m.tabActive)
	assert.Equal(t, m.matches[0].Str, m.input.Value())

	m = m.cycle(-1)
	assert.Equal(t, m.matches[len(m.matches)-1].Str, m.input.Value())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(model)
	assert.False(t, m.tabActive)
	assert.Equal(t, "#f", m.input.Value())
}

func TestModel_ToggleModeKeepsInput(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("#text {a}")

	m = m.toggleMode()
	assert.Equal(t, modeCtrl, m.mode)
	assert.Empty(t, m.input.Value())

	m.input.SetValue("he")
	m = m.toggleMode()
	assert.Equal(t, modeEval, m.mode)
	assert.Equal(t, "#text {a}", m.input.Value())

	m = m.toggleMode()
	assert.Equal(t, "he", m.input.Value())
}

func TestModel_QuitOnEmptyCtrlD(t *testing.T) {
	m := testModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	assert.True(t, updated.(model).quitting)
	assert.Empty(t, updated.View())
}
