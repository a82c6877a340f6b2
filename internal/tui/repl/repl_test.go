package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/microscheme/internal/compiler"
	"github.com/msto63/microscheme/internal/history"
	mslog "github.com/msto63/microscheme/pkg/core/log"
	"github.com/msto63/microscheme/pkg/core/logging"
)

var plainReport = compiler.ReportOptions{ShowTree: true, ShowIR: true}

func newSession(store history.Store) *Session {
	return NewSession(Config{
		Report: plainReport,
		Store:  store,
		Logger: logging.Wrap(mslog.Discard(), "repl"),
	})
}

// failingStore fails every read
type failingStore struct {
	history.MemoryStore
}

func (*failingStore) Recent(context.Context, int) ([]string, error) {
	return nil, errors.New("disk on fire")
}

func TestSession_Eval(t *testing.T) {
	s := newSession(nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		line     string
		wantQuit bool
		want     []string
	}{
		{"blank", "   ", false, nil},
		{"compile", "(a 42)", false, []string{"Compiled -> List(", "IR       -> [ldg a, ldc 42, stop]"}},
		{"syntax error", "(1 ))", false, []string{"error: Unexpected token )", "--> repl:1:5"}},
		{"exit", "exit", true, []string{"Bye!"}},
		{"exit with spaces", "  exit ", true, []string{"Bye!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Eval(ctx, tt.line)
			if out.Quit != tt.wantQuit {
				t.Errorf("Quit = %v, want %v", out.Quit, tt.wantQuit)
			}
			if tt.want == nil && out.Output != "" {
				t.Errorf("Output = %q, want empty", out.Output)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.Output, w) {
					t.Errorf("Output missing %q:\n%s", w, out.Output)
				}
			}
		})
	}
}

func TestSession_EvalFailedFirstForm(t *testing.T) {
	s := newSession(nil)

	out := s.Eval(context.Background(), ") 42")
	if strings.Contains(out.Output, "Compiled") || strings.Contains(out.Output, "IR ") {
		t.Errorf("later form reported as the result:\n%s", out.Output)
	}
	if !strings.Contains(out.Output, "error: Unexpected token )") {
		t.Errorf("Output missing the syntax error:\n%s", out.Output)
	}
}

func TestSession_RecordsHistory(t *testing.T) {
	store := history.NewMemoryStore(0, "s")
	s := newSession(store)
	ctx := context.Background()

	for _, line := range []string{"(a)", "", "(b)", "exit"} {
		s.Eval(ctx, line)
	}

	got, _ := s.LoadHistory(ctx)
	if strings.Join(got, "|") != "(a)|(b)|exit" {
		t.Errorf("history = %v", got)
	}
}

func TestRunPlain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		last  string
	}{
		{"exit command", "(a)\nexit\n(b)\n", []string{">> Compiled -> List([Atom(Symbol(\"a\"))])"}, "Bye!"},
		{"end of input", "(a)\n", []string{"IR       -> [ldg a, stop]"}, "CTRL-D"},
		{"no trailing newline", "42", []string{"ldc 42"}, "CTRL-D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := RunPlain(context.Background(), newSession(nil), strings.NewReader(tt.input), &out)
			if err != nil {
				t.Fatalf("RunPlain() error = %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			if !strings.HasSuffix(strings.TrimRight(got, "\n"), tt.last) {
				t.Errorf("output should end with %q:\n%s", tt.last, got)
			}
			if strings.Contains(got, "(b)") {
				t.Errorf("input after exit was evaluated:\n%s", got)
			}
		})
	}
}

func TestRunPlain_NoPreviousHistory(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&failingStore{})
	if err := RunPlain(context.Background(), s, strings.NewReader(""), &out); err != nil {
		t.Fatalf("RunPlain() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), MsgNoHistory+"\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunPlain_HistoryNotice(t *testing.T) {
	tests := []struct {
		name       string
		previous   []string
		wantNotice bool
	}{
		{"first run", nil, true},
		{"earlier lines", []string{"(a)"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := history.NewMemoryStore(0, "s")
			for _, line := range tt.previous {
				if err := store.Add(context.Background(), line); err != nil {
					t.Fatal(err)
				}
			}

			var out bytes.Buffer
			if err := RunPlain(context.Background(), newSession(store), strings.NewReader(""), &out); err != nil {
				t.Fatalf("RunPlain() error = %v", err)
			}
			if got := strings.HasPrefix(out.String(), MsgNoHistory+"\n"); got != tt.wantNotice {
				t.Errorf("notice printed = %v, want %v; output = %q", got, tt.wantNotice, out.String())
			}
		})
	}
}

func TestRunPlain_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a reader that never returns keeps the loop waiting on ctx
	r, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	if err := RunPlain(ctx, newSession(nil), r, &out); err != nil {
		t.Fatalf("RunPlain() error = %v", err)
	}
	if !strings.Contains(out.String(), MsgInterrupted) {
		t.Errorf("output = %q, want %s", out.String(), MsgInterrupted)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModel_EnterCompiles(t *testing.T) {
	m := NewModel(context.Background(), newSession(nil))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := typeLine(t, m, "(f 1)")
	if isQuit(cmd) {
		t.Fatal("compiling a line should not quit")
	}
	got := m.Transcript()
	for _, w := range []string{">> (f 1)", "IR       -> [ldg f, ldc 1, stop]"} {
		if !strings.Contains(got, w) {
			t.Errorf("transcript missing %q:\n%s", w, got)
		}
	}
	if m.input.Value() != "" {
		t.Errorf("input not reset: %q", m.input.Value())
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		line string
		want string
	}{
		{"exit command", tea.KeyMsg{Type: tea.KeyEnter}, "exit", MsgBye},
		{"ctrl-c", tea.KeyMsg{Type: tea.KeyCtrlC}, "", MsgInterrupted},
		{"ctrl-d", tea.KeyMsg{Type: tea.KeyCtrlD}, "", MsgEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(context.Background(), newSession(nil))
			if tt.line != "" {
				m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.line)})
			}
			m, cmd := update(t, m, tt.key)
			if !isQuit(cmd) {
				t.Error("expected quit command")
			}
			if !strings.HasSuffix(m.View(), tt.want+"\n") {
				t.Errorf("View() = %q, want suffix %q", m.View(), tt.want)
			}
		})
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := NewModel(context.Background(), newSession(nil))
	m, _ = update(t, m, historyLoadedMsg{lines: []string{"(old)"}})
	m, _ = typeLine(t, m, "(new)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("draft")})

	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "(new)"},
		{tea.KeyUp, "(old)"},
		{tea.KeyUp, "(old)"},
		{tea.KeyDown, "(new)"},
		{tea.KeyDown, "draft"},
	}
	for i, step := range steps {
		m, _ = update(t, m, tea.KeyMsg{Type: step.key})
		if got := m.input.Value(); got != step.want {
			t.Errorf("step %d: input = %q, want %q", i, got, step.want)
		}
	}
}

func TestModel_HistoryNotice(t *testing.T) {
	tests := []struct {
		name       string
		msg        historyLoadedMsg
		wantNotice bool
	}{
		{"empty history", historyLoadedMsg{}, true},
		{"earlier lines", historyLoadedMsg{lines: []string{"(a)"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(context.Background(), newSession(nil))
			m, _ = update(t, m, tt.msg)
			if got := strings.Contains(m.Transcript(), MsgNoHistory); got != tt.wantNotice {
				t.Errorf("notice shown = %v, want %v", got, tt.wantNotice)
			}
		})
	}
}

func TestModel_HistoryLoadFailure(t *testing.T) {
	m := NewModel(context.Background(), newSession(nil))
	m, _ = update(t, m, historyLoadedMsg{err: errors.New("locked")})
	if !strings.Contains(m.Transcript(), MsgNoHistory) {
		t.Errorf("transcript = %q, want %q", m.Transcript(), MsgNoHistory)
	}
}
