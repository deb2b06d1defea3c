// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/archsh/archsh/internal/shell"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	entryInput entryKind = iota
	entryOutput
	entryError
)

type (
	// Executor runs one input line. *emulator.Emulator satisfies it.
	Executor interface {
		Execute(ctx context.Context, line string) shell.Result
		Prompt() string
	}

	// ShellOptions configures the interactive shell.
	ShellOptions struct {
		// Title is shown above the scrollback.
		Title string
		// Renderer styles output; nil uses the default renderer. SSH sessions
		// pass a per-session renderer.
		Renderer *lipgloss.Renderer
	}

	// ShellModel is the Bubbletea model for the interactive shell: a
	// scrollback viewport above a single-line input.
	ShellModel struct {
		ctx      context.Context
		exec     Executor
		title    string
		styles   styles
		viewport viewport.Model
		input    textinput.Model
		entries  []entry
		busy     bool
		exited   bool
		ready    bool
		width    int
		height   int
	}

	entryKind int

	entry struct {
		kind entryKind
		text string
	}

	// resultMsg carries the outcome of one executed line.
	resultMsg struct {
		result shell.Result
	}
)

// NewShellModel returns a model that sends submitted lines to exec.
func NewShellModel(ctx context.Context, exec Executor, opts ShellOptions) *ShellModel {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	st := newStyles(r)

	in := textinput.New()
	in.Prompt = exec.Prompt()
	in.PromptStyle = st.prompt
	in.Placeholder = "ls, cd, tail, echo, exit"
	in.Focus()

	title := opts.Title
	if title == "" {
		title = "archsh"
	}

	return &ShellModel{
		ctx:    ctx,
		exec:   exec,
		title:  title,
		styles: st,
		input:  in,
	}
}

// Init implements tea.Model.
func (m *ShellModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case resultMsg:
		return m.handleResult(msg.result)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ShellModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.exited = true
		return m, tea.Quit

	case "enter":
		if m.busy {
			return m, nil
		}
		return m, m.submit()

	case "pgup", "pgdown":
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit echoes the line and runs it off the update loop.
func (m *ShellModel) submit() tea.Cmd {
	line := m.input.Value()
	m.input.Reset()
	m.append(entryInput, m.exec.Prompt()+line)
	m.busy = true

	ctx, exec := m.ctx, m.exec
	return func() tea.Msg {
		return resultMsg{result: exec.Execute(ctx, line)}
	}
}

func (m *ShellModel) handleResult(res shell.Result) (tea.Model, tea.Cmd) {
	m.busy = false
	if res.Exit {
		m.exited = true
		return m, tea.Quit
	}
	if out := strings.TrimSuffix(res.Output, "\n"); out != "" {
		kind := entryOutput
		if res.Err != nil {
			kind = entryError
		}
		m.append(kind, out)
	}
	return m, nil
}

func (m *ShellModel) append(kind entryKind, text string) {
	m.entries = append(m.entries, entry{kind: kind, text: text})
	if m.ready {
		m.viewport.SetContent(m.render())
		m.viewport.GotoBottom()
	}
}

func (m *ShellModel) render() string {
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.kind {
		case entryInput:
			b.WriteString(m.styles.echo.Render(e.text))
		case entryError:
			b.WriteString(m.styles.err.Render(e.text))
		default:
			b.WriteString(e.text)
		}
	}
	return b.String()
}

func (m *ShellModel) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	headerHeight := 2 // Title + separator
	footerHeight := 2 // Separator + input
	viewportHeight := max(msg.Height-headerHeight-footerHeight, 1)

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.viewport.YPosition = headerHeight
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 1)
	m.viewport.SetContent(m.render())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *ShellModel) View() string {
	if m.exited {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	title := m.styles.title.Render(m.title) +
		m.styles.muted.Render(fmt.Sprintf("  |  PgUp/PgDn: scroll  |  exit or Esc: quit  %3.f%%", m.viewport.ScrollPercent()*100))
	separator := m.styles.separator.Render(strings.Repeat("-", m.width))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", title, separator, m.viewport.View(), separator, m.input.View())
}

// Transcript returns the unstyled scrollback: echoed input lines and output
// blocks separated by newlines.
func (m *ShellModel) Transcript() string {
	texts := make([]string, len(m.entries))
	for i, e := range m.entries {
		texts[i] = e.text
	}
	return strings.Join(texts, "\n")
}

// Exited reports whether the session ended.
func (m *ShellModel) Exited() bool { return m.exited }

// RunShell runs the interactive shell on the current terminal until exit.
func RunShell(ctx context.Context, exec Executor, opts ShellOptions, progOpts ...tea.ProgramOption) error {
	model := NewShellModel(ctx, exec, opts)
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return fmt.Errorf("shell UI failed: %w", err)
	}
	return nil
}
