package repl

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdtree/internal/command"
	"cmdtree/internal/config"
	"cmdtree/internal/tree"
)

func testTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New()
	err := tr.InsertCommand(command.New(
		command.Literal("echo"),
		command.Argument("message", command.NewGreedyStringParser()),
	).Handles(func(_ context.Context, cctx *command.Context) error {
		message, _ := cctx.Get("message")
		Reply(cctx, "%v", message)
		return nil
	}))
	require.NoError(t, err)

	err = tr.InsertCommand(command.New(command.Literal("exit"), command.Literal("now")))
	require.NoError(t, err)
	return tr
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	sender := command.SimpleSender{SenderName: "tester", SenderKind: "console"}
	return New(testTree(t), sender, config.Default().Repl)
}

func TestDispatchExecutesHandlerAndCollectsReply(t *testing.T) {
	m := newTestModel(t)

	msg := m.dispatch("echo hello world")()
	result, ok := msg.(parseResultMsg)
	require.True(t, ok)
	require.NoError(t, result.outcome.Err)
	require.NoError(t, result.execErr)

	reply, _ := result.cctx.Get(ReplyKey)
	assert.Equal(t, "hello world", reply)
}

func TestDispatchReportsTypedFailures(t *testing.T) {
	m := newTestModel(t)

	msg := m.dispatch("bogus")()
	result, ok := msg.(parseResultMsg)
	require.True(t, ok)
	require.Error(t, result.outcome.Err)
	assert.Contains(t, m.renderOutcome(result), "unknown command: bogus")
}

func TestCompleteOffersSuggestions(t *testing.T) {
	m := newTestModel(t)

	msg := m.complete("e")()
	result, ok := msg.(suggestResultMsg)
	require.True(t, ok)
	require.NoError(t, result.outcome.Err)
	require.Len(t, result.outcome.Suggestions, 1)
	assert.Equal(t, "echo", result.outcome.Suggestions[0].Text)
}

func TestUniqueSuggestionCompletesInput(t *testing.T) {
	m := newTestModel(t)
	m.textinput.SetValue("exit n")

	updated, _ := m.Update(suggestResultMsg{
		line:    "exit n",
		outcome: tree.SuggestOutcome{Suggestions: command.SuggestionsOf("now")},
	})
	model := updated.(Model)
	assert.Equal(t, "exit now ", model.textinput.Value())
	assert.Empty(t, model.suggestions)
}

func TestHistoryRecall(t *testing.T) {
	m := newTestModel(t)
	m.pushHistory("first")
	m.pushHistory("second")

	m.recallHistory(-1)
	assert.Equal(t, "second", m.textinput.Value())
	m.recallHistory(-1)
	assert.Equal(t, "first", m.textinput.Value())
	m.recallHistory(1)
	assert.Equal(t, "second", m.textinput.Value())
}

func TestWindowSizeReadiesViewport(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model := updated.(Model)
	assert.True(t, model.ready)
	assert.NotEmpty(t, model.View())
}
