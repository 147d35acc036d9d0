// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     command
// Description: Command registry, execution pipeline and game commands
// Author:      Nexus Root Team
// Created:     2026-03-13
// License:     MIT
// ============================================================================

// Package command is the outer shell around every line a player submits.
// The Engine splits the line on whitespace, checks the CPU lock, resolves
// the command, checks Knowledge Map, level, VIP and cost, debits credits,
// runs the handler and records the outcome. It never returns a Go error to
// its caller; every failure becomes a Result with Success false.
package command

import (
	"context"
	"time"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/script"
)

// Handler runs a command. A returned error becomes a failed Result.
type Handler func(ctx context.Context, x *Context) (*Result, error)

// Command is a registered top-level command
type Command struct {
	Name        string
	Description string
	Syntax      string
	// Key is the Knowledge Map entry gating the command; defaults to Name
	Key         string
	MinLevel    int
	RequiresVIP bool
	Cost        int
	Handler     Handler
}

// KMapKey returns the Knowledge Map key of c
func (c *Command) KMapKey() string {
	if c.Key != "" {
		return c.Key
	}
	return c.Name
}

// eligible checks the level and VIP requirements of c for p
func (c *Command) eligible(p *player.Player) error {
	if p.Level() < c.MinLevel {
		return ErrLevel(c.MinLevel)
	}
	if c.RequiresVIP && !p.VIP {
		return ErrVIP(c.Name)
	}
	return nil
}

// Context is created once per submitted line and discarded afterwards
type Context struct {
	RequestID string
	Player    *player.Player
	Args      []string
	// Raw is the line text after the command name, unsplit
	Raw       string
	Line      string
	StartedAt time.Time
	Session   *script.Session

	engine *Engine
}

// Result is what the pipeline returns to the transport
type Result struct {
	Success         bool                   `json:"success"`
	Output          string                 `json:"output"`
	Error           string                 `json:"error,omitempty"`
	Code            string                 `json:"code,omitempty"`
	ExecutionTimeMS float64                `json:"execution_time_ms"`
	Data            map[string]interface{} `json:"data,omitempty"`
}

// OK builds a successful result
func OK(output string, data map[string]interface{}) *Result {
	return &Result{Success: true, Output: output, Data: data}
}

// Availability describes one command for a player
type Availability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Syntax      string `json:"syntax"`
	Available   bool   `json:"available"`
	Reason      string `json:"reason,omitempty"`
	New         bool   `json:"new,omitempty"`
	RequiresVIP bool   `json:"requires_vip"`
	MinLevel    int    `json:"min_level"`
	Cost        int    `json:"resource_cost"`
}

// ErrCommandNotFound is returned for unknown and locked commands alike
func ErrCommandNotFound(name string) error {
	return nxerror.Newf(nxerror.CodeCommandNotFound, "Unknown command: %s", name)
}

// ErrLevel is returned when the player level is too low
func ErrLevel(level int) error {
	return nxerror.Newf(nxerror.CodeAuthorization, "Command requires level %d", level)
}

// ErrVIP is returned for VIP-only commands
func ErrVIP(name string) error {
	return nxerror.Newf(nxerror.CodeAuthorization, "Command '%s' requires VIP access", name)
}

// ErrCost is returned when the player cannot pay
func ErrCost(cost int) error {
	return nxerror.Newf(nxerror.CodeInsufficientResources, "Command costs %d credits", cost)
}

// ErrCPULocked is returned while a CPU lock is active
func ErrCPULocked(remaining time.Duration) error {
	secs := int((remaining + time.Second - 1) / time.Second)
	return nxerror.Newf(nxerror.CodeCPULocked, "CPU is locked. Time remaining: %ds", secs)
}

// usage builds a validation error carrying a usage line
func usage(syntax string) error {
	return nxerror.New("Usage: "+syntax, nxerror.CodeValidation)
}

// failf builds a validation error shown verbatim to the player
func failf(format string, args ...interface{}) error {
	return nxerror.Newf(nxerror.CodeValidation, format, args...)
}
