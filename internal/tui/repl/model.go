// ============================================================================
// microscheme - S-expression front end
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the interactive REPL
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubbletea model of the REPL
type Model struct {
	session *Session
	ctx     context.Context

	// State
	width    int
	height   int
	ready    bool
	quitting bool

	// Components
	input    textinput.Model
	viewport viewport.Model

	transcript *strings.Builder

	// Input history
	history      []string
	historyIndex int    // -1 while editing a new line
	currentInput string // line being edited before history navigation
}

// NewModel creates the REPL model
func NewModel(ctx context.Context, session *Session) Model {
	ti := textinput.New()
	ti.Prompt = session.Prompt()
	ti.PromptStyle = PromptStyle
	ti.Placeholder = "(define x 42)"
	ti.Focus()

	return Model{
		session:      session,
		ctx:          ctx,
		input:        ti,
		transcript:   &strings.Builder{},
		historyIndex: -1,
	}
}

// Init loads the stored history
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistory)
}

func (m Model) loadHistory() tea.Msg {
	lines, err := m.session.LoadHistory(m.ctx)
	return historyLoadedMsg{lines: lines, err: err}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := msg.Height - 2
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - len(m.session.Prompt()) - 1
		m.updateViewportContent()
		return m, nil

	case historyLoadedMsg:
		if msg.err == nil {
			m.history = msg.lines
		}
		if msg.err != nil || len(msg.lines) == 0 {
			m.appendLine(NoticeStyle.Render(MsgNoHistory))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.appendLine(MsgInterrupted)
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlD:
		m.appendLine(MsgEOF)
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		line := m.input.Value()
		m.appendLine(EchoStyle.Render(m.session.Prompt() + line))
		m.input.Reset()
		m.pushHistory(line)

		out := m.session.Eval(m.ctx, line)
		if out.Output != "" {
			m.transcript.WriteString(out.Output)
			m.updateViewportContent()
		}
		if out.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyUp:
		if len(m.history) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.history) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.history[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.history)-1 {
				m.historyIndex++
				m.input.SetValue(m.history[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) pushHistory(line string) {
	m.historyIndex = -1
	m.currentInput = ""
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
}

func (m *Model) appendLine(line string) {
	m.transcript.WriteString(line)
	m.transcript.WriteString("\n")
	m.updateViewportContent()
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.transcript.String())
	m.viewport.GotoBottom()
}

// Transcript returns everything the session printed so far
func (m Model) Transcript() string {
	return m.transcript.String()
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return m.transcript.String()
	}
	if !m.ready {
		return m.transcript.String() + m.input.View()
	}
	return m.viewport.View() + "\n" + m.input.View()
}

// Run starts the interactive REPL on in and out until the user quits or ctx
// is done
func Run(ctx context.Context, session *Session, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(NewModel(ctx, session),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		return nil
	}
	return err
}
