// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     kmap
// Description: Knowledge Map, the per-player state machine that decides
//              which commands a player can see and call
// Author:      Nexus Root Team
// Created:     2026-03-08
// License:     MIT
// ============================================================================

// Package kmap implements the Knowledge Map. Every command name is in at
// most one of three sets: locked, unlocked or integrated. Names in none of
// them are hidden and answer exactly like locked ones. Transitions only
// move forward: locked or hidden to unlocked through discovery or a
// reward, unlocked to integrated through an explicit integrate.
package kmap

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// State of a command in the map
type State int

const (
	StateHidden State = iota
	StateLocked
	StateUnlocked
	StateIntegrated
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateIntegrated:
		return "integrated"
	default:
		return "hidden"
	}
}

// DefaultIntegrated are available to a fresh player and listed by default
var DefaultIntegrated = []string{
	"set", "ls", "cat", "print", "help", "status", "vc.status",
	"buy", "mine", "theme", "prompt", "integrate", "kmap",
}

// DefaultLocked exist but must be discovered first
var DefaultLocked = []string{
	"scan", "run", "hashcrack", "pivot", "thread spawn", "raw", "edit",
	"dos_attack", "vc.auto_defend",
}

// fragmentMarker matches a discovery marker; the name may be two words
var fragmentMarker = regexp.MustCompile(`CMD_DECLARE:[ \t]*([A-Za-z_][A-Za-z0-9_.]*)(?:[ \t]+([A-Za-z_][A-Za-z0-9_.]*))?`)

// Map is one player's Knowledge Map. It is safe for concurrent use.
type Map struct {
	mu sync.RWMutex

	integrated map[string]bool
	unlocked   map[string]bool
	locked     map[string]bool
	discovered map[string]bool
	fragments  map[string]int

	fragmentsToUnlock int
}

// Snapshot is the serialisable form of a Map
type Snapshot struct {
	Integrated []string       `json:"integrated"`
	Unlocked   []string       `json:"unlocked"`
	Locked     []string       `json:"locked"`
	Discovered []string       `json:"discovered,omitempty"`
	Fragments  map[string]int `json:"fragments,omitempty"`
}

// New returns a map holding the default command sets
func New(fragmentsToUnlock int) *Map {
	m := NewEmpty(fragmentsToUnlock)
	for _, c := range DefaultIntegrated {
		m.integrated[c] = true
	}
	for _, c := range DefaultLocked {
		m.locked[c] = true
	}
	return m
}

// NewEmpty returns a map where every command is hidden
func NewEmpty(fragmentsToUnlock int) *Map {
	if fragmentsToUnlock < 1 {
		fragmentsToUnlock = 1
	}
	return &Map{
		integrated:        make(map[string]bool),
		unlocked:          make(map[string]bool),
		locked:            make(map[string]bool),
		discovered:        make(map[string]bool),
		fragments:         make(map[string]int),
		fragmentsToUnlock: fragmentsToUnlock,
	}
}

// Restore rebuilds a map from a snapshot. A name listed in more than one
// set keeps the most advanced state.
func Restore(s Snapshot, fragmentsToUnlock int) *Map {
	m := NewEmpty(fragmentsToUnlock)
	for _, c := range s.Locked {
		m.locked[c] = true
	}
	for _, c := range s.Unlocked {
		delete(m.locked, c)
		m.unlocked[c] = true
	}
	for _, c := range s.Integrated {
		delete(m.locked, c)
		delete(m.unlocked, c)
		m.integrated[c] = true
	}
	for _, c := range s.Discovered {
		m.discovered[c] = true
	}
	for c, n := range s.Fragments {
		m.fragments[c] = n
	}
	return m
}

// Snapshot returns a sorted copy of the map's state
func (m *Map) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fragments := make(map[string]int, len(m.fragments))
	for c, n := range m.fragments {
		fragments[c] = n
	}
	return Snapshot{
		Integrated: sortedKeys(m.integrated),
		Unlocked:   sortedKeys(m.unlocked),
		Locked:     sortedKeys(m.locked),
		Discovered: sortedKeys(m.discovered),
		Fragments:  fragments,
	}
}

// State returns the state of cmd
func (m *Map) State(cmd string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked(cmd)
}

func (m *Map) stateLocked(cmd string) State {
	switch {
	case m.integrated[cmd]:
		return StateIntegrated
	case m.unlocked[cmd]:
		return StateUnlocked
	case m.locked[cmd]:
		return StateLocked
	default:
		return StateHidden
	}
}

// IsCommandAvailable reports whether cmd is unlocked or integrated
func (m *Map) IsCommandAvailable(cmd string) bool {
	s := m.State(cmd)
	return s == StateUnlocked || s == StateIntegrated
}

// IsDiscovered reports whether a fragment for cmd has been seen
func (m *Map) IsDiscovered(cmd string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.discovered[cmd]
}

// Fragments returns the fragment count for cmd
func (m *Map) Fragments(cmd string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fragments[cmd]
}

// Discover records one fragment for cmd and reports whether that fragment
// unlocked it. Commands that are already usable are left alone.
func (m *Map) Discover(cmd string) bool {
	return m.AddFragments(cmd, 1)
}

// AddFragments records n fragments, as granted by a mission reward, and
// reports whether cmd became unlocked.
func (m *Map) AddFragments(cmd string, n int) bool {
	if n <= 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.stateLocked(cmd)
	if state == StateUnlocked || state == StateIntegrated {
		return false
	}
	m.discovered[cmd] = true
	m.fragments[cmd] += n
	if m.fragments[cmd] < m.fragmentsToUnlock {
		return false
	}
	delete(m.locked, cmd)
	m.unlocked[cmd] = true
	return true
}

// Unlock moves a locked or hidden command to unlocked. It reports false
// when cmd was already usable.
func (m *Map) Unlock(cmd string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.stateLocked(cmd)
	if state == StateUnlocked || state == StateIntegrated {
		return false
	}
	delete(m.locked, cmd)
	m.unlocked[cmd] = true
	return true
}

// Integrate promotes an unlocked command into the default listing
func (m *Map) Integrate(cmd string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.stateLocked(cmd) {
	case StateIntegrated:
		return fmt.Errorf("'%s' is already integrated", cmd)
	case StateUnlocked:
		delete(m.unlocked, cmd)
		m.integrated[cmd] = true
		return nil
	default:
		return fmt.Errorf("'%s' is not unlocked", cmd)
	}
}

// Integrated returns the integrated commands, sorted
func (m *Map) Integrated() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.integrated)
}

// Unlocked returns the unlocked but not yet integrated commands, sorted
func (m *Map) Unlocked() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.unlocked)
}

// ScanForFragment looks for discovery markers in content and records a
// fragment for each command that is not yet usable. It returns the first
// such command. A two word marker is used only when that name is known to
// the map, so "CMD_DECLARE: thread spawn" finds "thread spawn" while
// "CMD_DECLARE: scan now" finds "scan".
func (m *Map) ScanForFragment(content string) (string, bool) {
	var first string
	for _, match := range fragmentMarker.FindAllStringSubmatch(content, -1) {
		name := m.resolveMarker(match[1], match[2])
		if m.IsCommandAvailable(name) {
			continue
		}
		m.Discover(name)
		if first == "" {
			first = name
		}
	}
	return first, first != ""
}

func (m *Map) resolveMarker(word, next string) string {
	if next != "" {
		joined := word + " " + next
		if m.State(joined) != StateHidden {
			return joined
		}
	}
	return word
}

// ParseMarkers returns the command names declared in content without
// touching any map
func ParseMarkers(content string) []string {
	var names []string
	for _, match := range fragmentMarker.FindAllStringSubmatch(content, -1) {
		names = append(names, strings.TrimSpace(match[1]))
	}
	return names
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
