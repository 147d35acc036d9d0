// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     hardware
// Description: Virtual Computer with CPU, RAM, NIC and SSD tiers
// Author:      Nexus Root Team
// Created:     2026-03-09
// License:     MIT
// ============================================================================

// Package hardware models a player's virtual computer. Tiers change only
// through Upgrade; the credit side of an upgrade is handled by the player
// service, which holds the player lock around both halves.
package hardware

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

// Component identifies one hardware slot
type Component string

const (
	CPU Component = "cpu"
	RAM Component = "ram"
	NIC Component = "nic"
	SSD Component = "ssd"
)

// Components in display order
var Components = []Component{CPU, RAM, NIC, SSD}

// Label returns the upper-case name used in player messages
func (c Component) Label() string {
	return strings.ToUpper(string(c))
}

// ParseComponent resolves a component name case-insensitively
func ParseComponent(name string) (Component, error) {
	c := Component(strings.ToLower(strings.TrimSpace(name)))
	switch c {
	case CPU, RAM, NIC, SSD:
		return c, nil
	}
	return "", nxerror.Newf(nxerror.CodeValidation, "unknown component %q (cpu, ram, nic, ssd)", name)
}

const (
	DefaultMaxTier      = 10
	DefaultMiningReward = 100
	maxThreadsCap       = 5
)

// MaxSupportedTier bounds max_tier so upgrade costs fit in an int
const MaxSupportedTier = 30

var costBase = map[Component]int{
	CPU: 50,
	RAM: 50,
	NIC: 75,
	SSD: 25,
}

// SpeedMultiplier maps a CPU tier to a latency factor in [0.1, 1]
func SpeedMultiplier(tier int) float64 {
	return math.Max(0.1, 1.0-float64(tier-1)*0.1)
}

// MaxThreads maps a RAM tier to its thread capacity
func MaxThreads(tier int) int {
	n := (tier + 1) / 2
	if n > maxThreadsCap {
		return maxThreadsCap
	}
	if n < 1 {
		return 1
	}
	return n
}

// Bandwidth in Mbps for a NIC tier
func Bandwidth(tier int) int {
	return 10 * tier
}

// Capacity in GB for an SSD tier
func Capacity(tier int) int {
	return 100 * tier
}

// UpgradeCost is the price of moving c from tier to tier+1. It is zero
// once tier reaches maxTier.
func UpgradeCost(c Component, tier, maxTier int) int {
	if tier >= maxTier {
		return 0
	}
	return costBase[c] * (1 << (tier - 1))
}

// Config holds the tunables of a computer
type Config struct {
	MaxTier      int
	MiningReward int
}

// DefaultConfig returns the stock hardware configuration
func DefaultConfig() Config {
	return Config{
		MaxTier:      DefaultMaxTier,
		MiningReward: DefaultMiningReward,
	}
}

// Computer is one player's virtual computer. It is safe for concurrent use.
type Computer struct {
	mu sync.Mutex

	tiers   map[Component]int
	maxTier int

	activeThreads     int
	commandsProcessed int64

	miningEnd    time.Time
	miningReward int

	now func() time.Time
}

// Snapshot is the serialisable form of a Computer
type Snapshot struct {
	CPU               int        `json:"cpu"`
	RAM               int        `json:"ram"`
	NIC               int        `json:"nic"`
	SSD               int        `json:"ssd"`
	CommandsProcessed int64      `json:"total_commands_processed"`
	MiningEnd         *time.Time `json:"passive_mining_end_time,omitempty"`
}

// ComponentInfo describes one component for status output
type ComponentInfo struct {
	Component   Component `json:"component"`
	Tier        int       `json:"tier"`
	MaxTier     int       `json:"max_tier"`
	UpgradeCost int       `json:"upgrade_cost"`
	Detail      string    `json:"detail"`
}

// New returns a computer with every component at tier 1
func New(cfg Config) *Computer {
	if cfg.MaxTier < 1 {
		cfg.MaxTier = DefaultMaxTier
	}
	if cfg.MaxTier > MaxSupportedTier {
		cfg.MaxTier = MaxSupportedTier
	}
	if cfg.MiningReward <= 0 {
		cfg.MiningReward = DefaultMiningReward
	}
	return &Computer{
		tiers:        map[Component]int{CPU: 1, RAM: 1, NIC: 1, SSD: 1},
		maxTier:      cfg.MaxTier,
		miningReward: cfg.MiningReward,
		now:          time.Now,
	}
}

// Restore rebuilds a computer from a snapshot, clamping tiers into range
func Restore(s Snapshot, cfg Config) *Computer {
	c := New(cfg)
	for comp, tier := range map[Component]int{CPU: s.CPU, RAM: s.RAM, NIC: s.NIC, SSD: s.SSD} {
		c.tiers[comp] = clamp(tier, 1, c.maxTier)
	}
	c.commandsProcessed = s.CommandsProcessed
	if s.MiningEnd != nil {
		c.miningEnd = *s.MiningEnd
	}
	return c
}

// SetClock replaces the time source; used by tests
func (c *Computer) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Snapshot returns the persistent state
func (c *Computer) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		CPU:               c.tiers[CPU],
		RAM:               c.tiers[RAM],
		NIC:               c.tiers[NIC],
		SSD:               c.tiers[SSD],
		CommandsProcessed: c.commandsProcessed,
	}
	if !c.miningEnd.IsZero() {
		end := c.miningEnd
		s.MiningEnd = &end
	}
	return s
}

// Tier returns the current tier of comp
func (c *Computer) Tier(comp Component) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tiers[comp]
}

// MaxTier returns the tier ceiling
func (c *Computer) MaxTier() int {
	return c.maxTier
}

// SpeedMultiplier returns the CPU latency factor
func (c *Computer) SpeedMultiplier() float64 {
	return SpeedMultiplier(c.Tier(CPU))
}

// NetworkMultiplier scales network latency by NIC bandwidth, 1.0 at tier 1
func (c *Computer) NetworkMultiplier() float64 {
	return float64(Bandwidth(1)) / float64(Bandwidth(c.Tier(NIC)))
}

// MaxThreads returns the RAM thread capacity
func (c *Computer) MaxThreads() int {
	return MaxThreads(c.Tier(RAM))
}

// UpgradeCost returns the price of the next tier of comp, 0 at max tier
func (c *Computer) UpgradeCost(comp Component) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return UpgradeCost(comp, c.tiers[comp], c.maxTier)
}

// CanUpgrade reports whether comp is below max tier
func (c *Computer) CanUpgrade(comp Component) bool {
	return c.Tier(comp) < c.maxTier
}

// Upgrade raises comp by one tier and returns the new tier and its cost.
// It does not touch credits.
func (c *Computer) Upgrade(comp Component) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tier, ok := c.tiers[comp]
	if !ok {
		return 0, 0, nxerror.Newf(nxerror.CodeValidation, "unknown component %q", comp)
	}
	cost := UpgradeCost(comp, tier, c.maxTier)
	if cost == 0 {
		return tier, 0, ErrMaxTier(comp)
	}
	c.tiers[comp] = tier + 1
	return tier + 1, cost, nil
}

// ErrMaxTier is returned when a component cannot be upgraded further
func ErrMaxTier(comp Component) error {
	return nxerror.Newf(nxerror.CodeValidation, "%s is already at maximum tier", comp.Label())
}

// AcquireThread reserves a thread slot or fails when RAM capacity is used up
func (c *Computer) AcquireThread() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	limit := MaxThreads(c.tiers[RAM])
	if c.activeThreads >= limit {
		return nxerror.Newf(nxerror.CodeInsufficientResources,
			"Thread capacity reached (%d/%d). Upgrade RAM to spawn more threads.", c.activeThreads, limit)
	}
	c.activeThreads++
	return nil
}

// ReleaseThread frees a slot taken by AcquireThread
func (c *Computer) ReleaseThread() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeThreads > 0 {
		c.activeThreads--
	}
}

// ActiveThreads returns the number of reserved slots
func (c *Computer) ActiveThreads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeThreads
}

// RecordCommand counts a successfully processed command
func (c *Computer) RecordCommand() {
	c.mu.Lock()
	c.commandsProcessed++
	c.mu.Unlock()
}

// CommandsProcessed returns the processed command counter
func (c *Computer) CommandsProcessed() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandsProcessed
}

// StartMining begins a passive mining run of the given length
func (c *Computer) StartMining(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.miningEnd.IsZero() && now.Before(c.miningEnd) {
		return nxerror.New("passive mining already in progress", nxerror.CodeDuplicate)
	}
	c.miningEnd = now.Add(d)
	return nil
}

// CollectMining returns the reward and clears the run once it has
// finished. It returns false while mining or when idle.
func (c *Computer) CollectMining() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.miningEnd.IsZero() || c.now().Before(c.miningEnd) {
		return 0, false
	}
	c.miningEnd = time.Time{}
	return c.miningReward, true
}

// MiningRemaining returns the time left on an active run
func (c *Computer) MiningRemaining() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.miningEnd.IsZero() {
		return 0, false
	}
	remaining := c.miningEnd.Sub(c.now())
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

// IsMining reports whether a run is in progress or waiting to be collected
func (c *Computer) IsMining() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.miningEnd.IsZero()
}

// Info describes every component for status listings
func (c *Computer) Info() []ComponentInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ComponentInfo, 0, len(Components))
	for _, comp := range Components {
		tier := c.tiers[comp]
		info := ComponentInfo{
			Component:   comp,
			Tier:        tier,
			MaxTier:     c.maxTier,
			UpgradeCost: UpgradeCost(comp, tier, c.maxTier),
		}
		switch comp {
		case CPU:
			info.Detail = fmt.Sprintf("speed x%.1f", SpeedMultiplier(tier))
		case RAM:
			info.Detail = fmt.Sprintf("%d threads", MaxThreads(tier))
		case NIC:
			info.Detail = fmt.Sprintf("%d Mbps", Bandwidth(tier))
		case SSD:
			info.Detail = fmt.Sprintf("%d GB", Capacity(tier))
		}
		out = append(out, info)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
