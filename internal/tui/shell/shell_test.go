package shell

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	nxlog "github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/internal/game/command"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/script"
)

func newShell(t *testing.T) Model {
	t.Helper()
	svc := player.NewService(player.NewMemoryRepository(), nil, player.DefaultConfig())
	engine := command.NewEngine(command.Options{
		Players: svc,
		Sessions: script.NewManager(&script.Host{
			Players: svc,
			Latency: hardware.Latency{Scale: 0},
			Logger:  nxlog.Discard(),
		}),
	})
	t.Cleanup(engine.Close)

	p, err := svc.Create(context.Background(), "neo", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m := New(Config{Engine: engine, Player: p})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

// submit types line, presses enter and feeds the command result back
func submit(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.running {
		return m
	}
	updated, _ = m.Update(m.execute(line)())
	return updated.(Model)
}

func lastEntry(m Model) entry {
	return m.entries[len(m.entries)-1]
}

func TestShell_ExecutesCommands(t *testing.T) {
	m := newShell(t)

	m = submit(t, m, "ls")
	if m.running {
		t.Fatal("shell still running after result")
	}
	if e := lastEntry(m); e.kind != entryOutput || !strings.Contains(e.text, "data.txt") {
		t.Errorf("last entry = %+v", e)
	}
	if e := m.entries[len(m.entries)-2]; e.kind != entryInput || e.text != "neo@nexus-root> ls" {
		t.Errorf("input entry = %+v", e)
	}

	m = submit(t, m, "scan 10.0.0.1")
	if e := lastEntry(m); e.kind != entryError || e.text != "Unknown command: scan" {
		t.Errorf("locked command entry = %+v", e)
	}
}

func TestShell_RunningBlocksInput(t *testing.T) {
	m := newShell(t)
	m.input.SetValue("status")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.running || cmd == nil {
		t.Fatalf("running = %v, cmd = %v", m.running, cmd)
	}
	if !strings.Contains(m.View(), "running status") {
		t.Errorf("View() = %q", m.View())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if n := len(updated.(Model).entries); n != len(m.entries) {
		t.Errorf("entries changed while running: %d -> %d", len(m.entries), n)
	}
}

func TestShell_AppliesThemeAndPrompt(t *testing.T) {
	m := newShell(t)

	m = submit(t, m, "theme retro")
	if m.themeName != "retro" {
		t.Errorf("themeName = %q, want retro", m.themeName)
	}

	m = submit(t, m, "prompt {user} $ ")
	if got := m.prompt(); got != "neo $" {
		t.Errorf("prompt() = %q, want %q", got, "neo $")
	}
	if m.input.Prompt != "neo $" {
		t.Errorf("input prompt = %q", m.input.Prompt)
	}
}

func TestShell_History(t *testing.T) {
	m := newShell(t)
	m = submit(t, m, "ls")
	m = submit(t, m, "status")
	m = submit(t, m, "status")
	if len(m.history) != 2 {
		t.Fatalf("history = %v, want duplicates collapsed", m.history)
	}

	m.input.SetValue("draft")
	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "status"},
		{tea.KeyUp, "ls"},
		{tea.KeyUp, "ls"},
		{tea.KeyDown, "status"},
		{tea.KeyDown, "draft"},
	}
	for i, step := range steps {
		updated, _ := m.Update(tea.KeyMsg{Type: step.key})
		m = updated.(Model)
		if got := m.input.Value(); got != step.want {
			t.Errorf("step %d: input = %q, want %q", i, got, step.want)
		}
	}
}

func TestShell_ClearAndExit(t *testing.T) {
	m := newShell(t)
	m = submit(t, m, "ls")
	m = submit(t, m, "clear")
	if len(m.entries) != 0 {
		t.Errorf("entries after clear = %d", len(m.entries))
	}

	m.input.SetValue("exit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("exit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit should quit the program")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit the program")
	}
}

func TestShell_Header(t *testing.T) {
	m := newShell(t)
	view := m.View()
	if !strings.Contains(view, "neo") || !strings.Contains(view, "L1") {
		t.Errorf("View() header missing player info: %q", view)
	}
}
