// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     player
// Description: Player model, per-player locking and the player service
// Author:      Nexus Root Team
// Created:     2026-03-10
// License:     MIT
// ============================================================================

// Package player holds the live player objects. Each Player has two locks:
// the exec lock serialises command execution for that player, and mu guards
// its fields. Commands aimed at another player (such as a CPU lock) only
// take the target's mu, never its exec lock, so a long simulated scan by one
// player cannot block another.
package player

import (
	"regexp"
	"sort"
	"sync"
	"time"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/kmap"
)

// DefaultPromptFormat is the prompt of a fresh player
const DefaultPromptFormat = "{user}@nexus-root> "

// DefaultTheme is the theme of a fresh player
const DefaultTheme = "default"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]{2,20}$`)

// ValidateName checks the player name rules
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return nxerror.Newf(nxerror.CodeValidation,
			"invalid player name %q: use 2-20 letters, digits, '_' or '-'", name)
	}
	return nil
}

// Stats are the progression counters of a player
type Stats struct {
	Level                  int   `json:"level"`
	Experience             int   `json:"experience"`
	Credits                int   `json:"credits"`
	TotalCommandsExecuted  int64 `json:"total_commands_executed"`
	TotalScriptsExecuted   int64 `json:"total_scripts_executed"`
	TotalMissionsCompleted int64 `json:"total_missions_completed"`
}

// RequiredXP returns the experience needed to leave the current level
func (s Stats) RequiredXP() int {
	return s.Level * 100
}

// Settings are player preferences
type Settings struct {
	Theme        string `json:"theme"`
	PromptFormat string `json:"prompt_format"`
	AutoDefend   bool   `json:"auto_defend"`
}

// Player is one live player. Use the accessor methods; fields other than
// the identity are guarded by an internal lock.
type Player struct {
	exec sync.Mutex
	mu   sync.RWMutex

	ID        string
	Name      string
	VIP       bool
	CreatedAt time.Time

	lastLogin      time.Time
	online         bool
	stats          Stats
	settings       Settings
	cpuLockedUntil time.Time
	modules        map[string]string

	Computer *hardware.Computer
	KMap     *kmap.Map

	now func() time.Time
}

// Record is the persistent form of a Player
type Record struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	VIP            bool              `json:"is_vip"`
	CreatedAt      time.Time         `json:"created_at"`
	LastLogin      time.Time         `json:"last_login"`
	Online         bool              `json:"is_online"`
	Stats          Stats             `json:"stats"`
	Settings       Settings          `json:"settings"`
	CPULockedUntil *time.Time        `json:"cpu_locked_until,omitempty"`
	Computer       hardware.Snapshot `json:"virtual_computer"`
	KMap           kmap.Snapshot     `json:"knowledge_map"`
	Modules        map[string]string `json:"modules,omitempty"`
}

// Summary is the public view used by listings and the API
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Credits  int    `json:"credits"`
	VIP      bool   `json:"is_vip"`
	Online   bool   `json:"is_online"`
	Theme    string `json:"theme"`
	Commands int64  `json:"total_commands_executed"`
}

// Options configure a new player
type Options struct {
	StartingCredits   int
	FragmentsToUnlock int
	Hardware          hardware.Config
}

// New creates a level 1 player with default hardware and Knowledge Map
func New(id, name string, vip bool, opts Options) *Player {
	now := time.Now()
	return &Player{
		ID:        id,
		Name:      name,
		VIP:       vip,
		CreatedAt: now,
		lastLogin: now,
		stats:     Stats{Level: 1, Credits: opts.StartingCredits},
		settings:  Settings{Theme: DefaultTheme, PromptFormat: DefaultPromptFormat},
		modules:   make(map[string]string),
		Computer:  hardware.New(opts.Hardware),
		KMap:      kmap.New(opts.FragmentsToUnlock),
		now:       time.Now,
	}
}

// FromRecord rebuilds a live player from storage
func FromRecord(r Record, opts Options) *Player {
	p := &Player{
		ID:        r.ID,
		Name:      r.Name,
		VIP:       r.VIP,
		CreatedAt: r.CreatedAt,
		lastLogin: r.LastLogin,
		online:    r.Online,
		stats:     r.Stats,
		settings:  r.Settings,
		modules:   make(map[string]string, len(r.Modules)),
		Computer:  hardware.Restore(r.Computer, opts.Hardware),
		KMap:      kmap.Restore(r.KMap, opts.FragmentsToUnlock),
		now:       time.Now,
	}
	if p.stats.Level < 1 {
		p.stats.Level = 1
	}
	if p.settings.Theme == "" {
		p.settings.Theme = DefaultTheme
	}
	if p.settings.PromptFormat == "" {
		p.settings.PromptFormat = DefaultPromptFormat
	}
	if r.CPULockedUntil != nil {
		p.cpuLockedUntil = *r.CPULockedUntil
	}
	for name, src := range r.Modules {
		p.modules[name] = src
	}
	return p
}

// Record returns a consistent snapshot for persistence
func (p *Player) Record() Record {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r := Record{
		ID:        p.ID,
		Name:      p.Name,
		VIP:       p.VIP,
		CreatedAt: p.CreatedAt,
		LastLogin: p.lastLogin,
		Online:    p.online,
		Stats:     p.stats,
		Settings:  p.settings,
		Computer:  p.Computer.Snapshot(),
		KMap:      p.KMap.Snapshot(),
		Modules:   make(map[string]string, len(p.modules)),
	}
	if !p.cpuLockedUntil.IsZero() {
		until := p.cpuLockedUntil
		r.CPULockedUntil = &until
	}
	for name, src := range p.modules {
		r.Modules[name] = src
	}
	return r
}

// Summary returns the public view of the player
func (p *Player) Summary() Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Summary{
		ID:       p.ID,
		Name:     p.Name,
		Level:    p.stats.Level,
		Credits:  p.stats.Credits,
		VIP:      p.VIP,
		Online:   p.online,
		Theme:    p.settings.Theme,
		Commands: p.stats.TotalCommandsExecuted,
	}
}

// SetClock replaces the time source; used by tests
func (p *Player) SetClock(now func() time.Time) {
	p.mu.Lock()
	p.now = now
	p.mu.Unlock()
	p.Computer.SetClock(now)
}

// LockExec takes the per-player execution lock
func (p *Player) LockExec() { p.exec.Lock() }

// UnlockExec releases the execution lock
func (p *Player) UnlockExec() { p.exec.Unlock() }

// Stats returns a copy of the counters
func (p *Player) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// Level returns the current level
func (p *Player) Level() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats.Level
}

// Credits returns the credit balance
func (p *Player) Credits() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats.Credits
}

// Settings returns a copy of the preferences
func (p *Player) Settings() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// SetTheme changes the theme name
func (p *Player) SetTheme(name string) {
	p.mu.Lock()
	p.settings.Theme = name
	p.mu.Unlock()
}

// SetPromptFormat changes the prompt format
func (p *Player) SetPromptFormat(format string) {
	p.mu.Lock()
	p.settings.PromptFormat = format
	p.mu.Unlock()
}

// SetAutoDefend toggles the VIP auto defence
func (p *Player) SetAutoDefend(on bool) {
	p.mu.Lock()
	p.settings.AutoDefend = on
	p.mu.Unlock()
}

// Online reports whether the player has an open session
func (p *Player) Online() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online
}

func (p *Player) setOnline(on bool) {
	p.mu.Lock()
	p.online = on
	if on {
		p.lastLogin = p.now()
	}
	p.mu.Unlock()
}

// Debit removes amount credits or fails without changing the balance
func (p *Player) Debit(amount int) error {
	if amount < 0 {
		return nxerror.Newf(nxerror.CodeValidation, "invalid debit amount %d", amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stats.Credits < amount {
		return nxerror.Newf(nxerror.CodeInsufficientResources,
			"insufficient credits: need %d, have %d", amount, p.stats.Credits)
	}
	p.stats.Credits -= amount
	return nil
}

// Credit adds amount credits and returns the old and new balance
func (p *Player) Credit(amount int) (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	old := p.stats.Credits
	p.stats.Credits += amount
	if p.stats.Credits < 0 {
		p.stats.Credits = 0
	}
	return old, p.stats.Credits
}

// AddExperience adds xp and applies every level up it earns. It returns
// the level before and after.
func (p *Player) AddExperience(xp int) (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	old := p.stats.Level
	p.stats.Experience += xp
	for p.stats.Experience >= p.stats.RequiredXP() {
		p.stats.Experience -= p.stats.RequiredXP()
		p.stats.Level++
	}
	return old, p.stats.Level
}

// Upgrade buys the next tier of comp. Credits and tier change together or
// not at all.
func (p *Player) Upgrade(comp hardware.Component) (tier, cost int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cost = p.Computer.UpgradeCost(comp)
	if cost == 0 {
		return p.Computer.Tier(comp), 0, hardware.ErrMaxTier(comp)
	}
	if p.stats.Credits < cost {
		return p.Computer.Tier(comp), cost, nxerror.Newf(nxerror.CodeInsufficientResources,
			"insufficient credits. Need %d C.", cost)
	}
	tier, cost, err = p.Computer.Upgrade(comp)
	if err != nil {
		return tier, cost, err
	}
	p.stats.Credits -= cost
	return tier, cost, nil
}

// RecordCommand counts a successfully executed command
func (p *Player) RecordCommand() {
	p.mu.Lock()
	p.stats.TotalCommandsExecuted++
	p.mu.Unlock()
	p.Computer.RecordCommand()
}

// RecordScript counts an executed script
func (p *Player) RecordScript() {
	p.mu.Lock()
	p.stats.TotalScriptsExecuted++
	p.mu.Unlock()
}

// LockCPU vetoes command dispatch for d. A longer existing lock is kept.
func (p *Player) LockCPU(d time.Duration) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	until := p.now().Add(d)
	if until.After(p.cpuLockedUntil) {
		p.cpuLockedUntil = until
	}
	return p.cpuLockedUntil
}

// CPULockRemaining returns the time left on a CPU lock
func (p *Player) CPULockRemaining() (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cpuLockedUntil.IsZero() {
		return 0, false
	}
	left := p.cpuLockedUntil.Sub(p.now())
	if left <= 0 {
		return 0, false
	}
	return left, true
}

// SaveModule stores a NexusScript module under name
func (p *Player) SaveModule(name, source string) {
	p.mu.Lock()
	p.modules[name] = source
	p.mu.Unlock()
}

// Module returns the source of a stored module
func (p *Player) Module(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	src, ok := p.modules[name]
	return src, ok
}

// Modules returns the stored module names, sorted
func (p *Player) Modules() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.modules))
	for name := range p.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
