// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     shell
// Description: Interactive bubbletea terminal for playing locally
// Author:      Nexus Root Team
// Created:     2026-03-16
// License:     MIT
// ============================================================================

package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexusroot/nexus/internal/game/command"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/theme"
)

const maxHistory = 100

// Config holds shell configuration
type Config struct {
	Engine *command.Engine
	Player *player.Player
	// Timeout bounds a single command; zero means no limit
	Timeout time.Duration
}

// Model is the bubbletea model of the game shell
type Model struct {
	engine  *command.Engine
	player  *player.Player
	timeout time.Duration

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	themeName string
	styles    theme.Styles

	entries      []entry
	history      []string
	historyIndex int    // -1 while not browsing
	draft        string // input saved when browsing starts

	running bool
	current string
	ready   bool
	width   int
	height  int
}

// New creates a shell for cfg.Player
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "type 'help' to get started"
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		engine:       cfg.Engine,
		player:       cfg.Player,
		timeout:      cfg.Timeout,
		input:        ti,
		spinner:      sp,
		viewport:     viewport.New(80, 20),
		historyIndex: -1,
		entries: []entry{{
			kind: entrySystem,
			text: fmt.Sprintf("Connected to Nexus Root as %s. Type 'help' for commands, 'exit' to leave.", cfg.Player.Name),
		}},
	}
	m.applySettings()
	return m
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 2
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.input.Width = max(msg.Width-len(m.prompt())-1, 10)
		m.ready = true
		m.refresh()

	case spinner.TickMsg:
		if m.running {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case resultMsg:
		m.running = false
		m.current = ""
		if msg.result.Success {
			if msg.result.Output != "" {
				m.entries = append(m.entries, entry{kind: entryOutput, text: msg.result.Output})
			}
		} else {
			m.entries = append(m.entries, entry{kind: entryError, text: msg.result.Error})
		}
		m.applySettings()
		m.refresh()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.running {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.historyIndex = -1
		m.draft = ""
		if line == "" {
			return m, nil
		}
		m.remember(line)
		m.entries = append(m.entries, entry{kind: entryInput, text: m.prompt() + line})

		switch line {
		case "exit", "quit", "logout":
			return m, tea.Quit
		case "clear":
			m.entries = nil
			m.refresh()
			return m, nil
		}

		m.running = true
		m.current = line
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, m.execute(line))

	case tea.KeyUp:
		if len(m.history) > 0 {
			if m.historyIndex == -1 {
				m.draft = m.input.Value()
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
				m.input.SetValue(m.draft)
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

// execute runs line on the engine off the UI goroutine
func (m Model) execute(line string) tea.Cmd {
	engine, name, timeout := m.engine, m.player.Name, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		res := engine.Execute(ctx, name, line)
		return resultMsg{line: line, result: res, duration: time.Since(start)}
	}
}

func (m *Model) remember(line string) {
	if n := len(m.history); n > 0 && m.history[n-1] == line {
		return
	}
	m.history = append(m.history, line)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

// applySettings picks up theme and prompt changes made by commands
func (m *Model) applySettings() {
	settings := m.player.Settings()
	if settings.Theme != m.themeName {
		m.themeName = settings.Theme
		m.styles = theme.Get(settings.Theme).Styles()
		m.input.PromptStyle = m.styles.Prompt
		m.input.TextStyle = m.styles.Output
		m.spinner.Style = m.styles.Prompt
	}
	m.input.Prompt = m.prompt()
}

// prompt expands the player's prompt format
func (m Model) prompt() string {
	return strings.ReplaceAll(m.player.Settings().PromptFormat, "{user}", m.player.Name)
}

// refresh re-renders the scrollback into the viewport
func (m *Model) refresh() {
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.kind {
		case entryInput:
			b.WriteString(m.styles.Prompt.Render(e.text))
		case entryOutput:
			b.WriteString(m.styles.Output.Render(e.text))
		case entryError:
			b.WriteString(m.styles.Error.Render(e.text))
		case entrySystem:
			b.WriteString(m.styles.Muted.Render(e.text))
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Connecting to Nexus Root..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.running {
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("running "+m.current+"..."))
	} else {
		b.WriteString(m.input.View())
	}
	return b.String()
}

func (m Model) renderHeader() string {
	s := m.player.Stats()
	header := fmt.Sprintf("NEXUS ROOT  %s  L%d  %d C", m.player.Name, s.Level, s.Credits)
	if m.player.VIP {
		header += "  VIP"
	}
	if remaining, locked := m.player.CPULockRemaining(); locked {
		header += fmt.Sprintf("  CPU LOCKED %ds", int(remaining.Seconds()+0.999))
	}
	return m.styles.Header.Render(header)
}

// Run starts the shell and blocks until the player exits
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
