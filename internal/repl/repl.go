// Package repl provides the interactive shell for a command dispatch
// tree: a bubbletea model with an input line, a scrolling transcript and
// tab completion backed by the tree's suggester.
package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"cmdtree/internal/command"
	"cmdtree/internal/config"
	"cmdtree/internal/input"
	"cmdtree/internal/logging"
	"cmdtree/internal/tree"
)

// ReplyKey is the context key under which command handlers may store a
// reply string shown in the transcript.
const ReplyKey = "reply"

// Reply stores a formatted reply for the shell to display.
func Reply(cctx *command.Context, format string, args ...any) {
	cctx.Store(ReplyKey, fmt.Sprintf(format, args...))
}

// parseResultMsg carries the outcome of an asynchronous dispatch.
type parseResultMsg struct {
	line    string
	cctx    *command.Context
	outcome tree.ParseOutcome
	execErr error
}

// suggestResultMsg carries the outcome of an asynchronous completion.
type suggestResultMsg struct {
	line    string
	outcome tree.SuggestOutcome
}

// Model is the bubbletea model for the interactive shell.
type Model struct {
	tree   *tree.Tree
	sender command.Sender
	cfg    config.ReplConfig

	textinput  textinput.Model
	viewport   viewport.Model
	transcript []string

	history      []string
	historyIndex int

	suggestions []string
	width       int
	height      int
	ready       bool
}

// New creates a shell over the given tree.
func New(tr *tree.Tree, sender command.Sender, cfg config.ReplConfig) Model {
	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	if ti.Prompt == "" {
		ti.Prompt = "> "
	}
	ti.Placeholder = "type a command, Tab completes"
	ti.Focus()

	return Model{
		tree:         tr,
		sender:       sender,
		cfg:          cfg,
		textinput:    ti,
		historyIndex: -1,
		transcript: []string{
			"cmdtree interactive shell. Tab completes, Enter dispatches, Ctrl+C exits.",
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-4, 1))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-4, 1)
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.textinput.Value())
			if line == "" {
				return m, nil
			}
			m.pushHistory(line)
			m.textinput.Reset()
			m.suggestions = nil
			logging.Repl("dispatching %q", line)
			return m, m.dispatch(line)
		case tea.KeyTab:
			line := m.textinput.Value()
			return m, m.complete(line)
		case tea.KeyUp:
			m.recallHistory(-1)
			return m, nil
		case tea.KeyDown:
			m.recallHistory(1)
			return m, nil
		}

	case parseResultMsg:
		m.appendTranscript(m.cfg.Prompt + msg.line)
		m.appendTranscript(m.renderOutcome(msg))
		return m, nil

	case suggestResultMsg:
		m.applySuggestions(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// dispatch parses the line against the tree and executes the resolved
// command on a background goroutine.
func (m Model) dispatch(line string) tea.Cmd {
	tr, sender := m.tree, m.sender
	return func() tea.Msg {
		cctx := command.NewContext(sender)
		outcome := <-tr.ParseAsync(context.Background(), cctx, input.New(line))
		msg := parseResultMsg{line: line, cctx: cctx, outcome: outcome}
		if outcome.Err == nil && outcome.Command != nil {
			msg.execErr = outcome.Command.Execute(context.Background(), cctx)
		}
		return msg
	}
}

// complete asks the suggester for completions of the current line.
func (m Model) complete(line string) tea.Cmd {
	tr, sender := m.tree, m.sender
	return func() tea.Msg {
		cctx := command.NewContext(sender)
		outcome := <-tr.SuggestAsync(context.Background(), cctx, input.New(line))
		return suggestResultMsg{line: line, outcome: outcome}
	}
}

// applySuggestions shows the candidates and, for a unique match,
// completes the input line in place.
func (m *Model) applySuggestions(msg suggestResultMsg) {
	m.suggestions = nil
	if msg.outcome.Err != nil {
		logging.Repl("completion failed: %v", msg.outcome.Err)
		return
	}
	for _, s := range msg.outcome.Suggestions {
		m.suggestions = append(m.suggestions, s.Text)
	}
	if len(m.suggestions) != 1 {
		return
	}

	// Replace the token being typed with the unique completion.
	line := msg.line
	if idx := strings.LastIndexByte(line, ' '); idx >= 0 {
		line = line[:idx+1] + m.suggestions[0]
	} else {
		line = m.suggestions[0]
	}
	m.textinput.SetValue(line + " ")
	m.textinput.CursorEnd()
	m.suggestions = nil
}

func (m *Model) pushHistory(line string) {
	m.history = append(m.history, line)
	if limit := m.cfg.HistorySize; limit > 0 && len(m.history) > limit {
		m.history = m.history[len(m.history)-limit:]
	}
	m.historyIndex = -1
}

func (m *Model) recallHistory(direction int) {
	if len(m.history) == 0 {
		return
	}
	if m.historyIndex == -1 {
		if direction > 0 {
			return
		}
		m.historyIndex = len(m.history)
	}
	m.historyIndex += direction
	if m.historyIndex < 0 {
		m.historyIndex = 0
	}
	if m.historyIndex >= len(m.history) {
		m.historyIndex = -1
		m.textinput.Reset()
		return
	}
	m.textinput.SetValue(m.history[m.historyIndex])
	m.textinput.CursorEnd()
}

func (m *Model) appendTranscript(line string) {
	if line == "" {
		return
	}
	m.transcript = append(m.transcript, line)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
