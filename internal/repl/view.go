package repl

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cmdtree/internal/tree"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	replyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cmdtree"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if len(m.suggestions) > 0 {
		b.WriteString(suggestionStyle.Render(strings.Join(m.suggestions, "  ")))
	}
	b.WriteString("\n")
	b.WriteString(m.textinput.View())
	return b.String()
}

// renderOutcome formats a dispatch result for the transcript.
func (m Model) renderOutcome(msg parseResultMsg) string {
	if err := msg.outcome.Err; err != nil {
		return errorStyle.Render(describeError(err))
	}
	if msg.execErr != nil {
		return errorStyle.Render("command failed: " + msg.execErr.Error())
	}
	if reply, ok := msg.cctx.Get(ReplyKey); ok {
		if text, isString := reply.(string); isString {
			return replyStyle.Render(text)
		}
	}
	return replyStyle.Render("ok")
}

// describeError maps the tree's typed failures to shell messages.
func describeError(err error) string {
	var (
		noSuch        *tree.NoSuchCommandError
		syntax        *tree.InvalidSyntaxError
		noPerm        *tree.NoPermissionError
		invalidSender *tree.InvalidSenderError
		argErr        *tree.ArgumentParseError
	)
	switch {
	case errors.As(err, &noSuch):
		return "unknown command: " + noSuch.Token
	case errors.As(err, &syntax):
		return "usage: " + syntax.Syntax
	case errors.As(err, &noPerm):
		return "you lack the permission " + noPerm.Missing.String()
	case errors.As(err, &invalidSender):
		return "this command is limited to " + invalidSender.Expected + " senders"
	case errors.As(err, &argErr):
		return "invalid argument: " + argErr.Cause.Error()
	default:
		return err.Error()
	}
}
