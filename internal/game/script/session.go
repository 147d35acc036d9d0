// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     script
// Description: NexusScript sessions and the builtin table bound to a player
// Author:      Nexus Root Team
// Created:     2026-03-12
// License:     MIT
// ============================================================================

// Package script connects the NexusScript interpreter to the game. A
// Session owns one player's variables across lines; every run gets a fresh
// Evaluator whose builtins are bound to that player and gated by the
// player's Knowledge Map.
package script

import (
	"context"
	"fmt"
	"strings"
	"sync"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	nxlog "github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/foundation/nexusscript/eval"
	"github.com/nexusroot/nexus/foundation/nexusscript/parser"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/world"
)

// Host carries the services builtins need
type Host struct {
	Players        *player.Service
	World          *world.Loader
	Latency        hardware.Latency
	Logger         *nxlog.Logger
	MaxInputLength int
	// Eligible reports why p may not use the command behind a Knowledge
	// Map key. Builtins sharing that key fail with the same message.
	Eligible func(p *player.Player, key string) error
}

// CurrentWorld returns the loaded world, or the embedded one
func (h *Host) CurrentWorld() *world.World {
	if h.World == nil {
		return world.Default()
	}
	return h.World.Current()
}

func (h *Host) logger() *nxlog.Logger {
	if h.Logger == nil {
		return nxlog.GetDefault()
	}
	return h.Logger
}

// Result is the outcome of running NexusScript source
type Result struct {
	Output      []string
	Value       eval.Value
	ParseErrors []string

	lastPrinted eval.Value
}

// Failed reports whether the source did not parse or ended in an error
func (r Result) Failed() bool {
	if len(r.ParseErrors) > 0 {
		return true
	}
	switch r.Value.(type) {
	case *eval.Error, *eval.NotFound:
		return true
	}
	return false
}

// Text renders printed lines followed by the final value. The final value
// is skipped when it is nil or was just printed.
func (r Result) Text() string {
	if len(r.ParseErrors) > 0 {
		return parser.FormatErrors(r.ParseErrors)
	}
	lines := append([]string(nil), r.Output...)
	if r.Value != nil && r.Value != eval.Value(eval.NilValue) && r.Value != r.lastPrinted {
		lines = append(lines, r.Value.Inspect())
	}
	return strings.Join(lines, "\n")
}

// output collects print calls of a single run
type output struct {
	mu          sync.Mutex
	lines       []string
	lastPrinted eval.Value
}

func (o *output) write(line string, v eval.Value) {
	o.mu.Lock()
	o.lines = append(o.lines, line)
	o.lastPrinted = v
	o.mu.Unlock()
}

// Session is one player's interactive NexusScript state
type Session struct {
	mu     sync.Mutex
	player *player.Player
	host   *Host
	env    *eval.Environment
}

// NewSession creates an empty session for p
func NewSession(p *player.Player, host *Host) *Session {
	return &Session{
		player: p,
		host:   host,
		env:    eval.NewEnvironment(),
	}
}

// Player returns the session's player
func (s *Session) Player() *player.Player {
	return s.player
}

// Environment returns the variables that persist across lines
func (s *Session) Environment() *eval.Environment {
	return s.env
}

// Exec runs source in the session scope. Nothing runs when it fails to parse.
func (s *Session) Exec(ctx context.Context, source string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, source, s.env)
}

// RunModule runs source in a copy of the session scope with $1..$n bound
// to args. Bindings made by the module do not leak back.
func (s *Session) RunModule(ctx context.Context, source string, args []string) Result {
	env := s.env.Clone()
	for i, a := range args {
		env.Set(fmt.Sprintf("$%d", i+1), &eval.String{Value: a})
	}
	env.Set("$argc", &eval.Number{Value: float64(len(args))})
	return s.run(ctx, source, env)
}

// Builtins lists the builtins the player can currently call
func (s *Session) Builtins() []*eval.Builtin {
	return s.evaluator(&output{}, s.env).Builtins()
}

func (s *Session) run(ctx context.Context, source string, env *eval.Environment) Result {
	program, errs := parser.Parse(source, parser.Options{
		Logger:         s.host.logger(),
		MaxInputLength: s.host.MaxInputLength,
	})
	if len(errs) > 0 {
		return Result{ParseErrors: errs, Value: eval.NilValue}
	}

	timer := s.host.logger().WithPlayer(s.player.ID).StartTimer("script").
		WithField("statements", len(program.Statements))
	out := &output{}
	value := s.evaluator(out, env).Eval(ctx, program)
	if errVal, ok := value.(*eval.Error); ok {
		timer.Fail(nxerror.New(errVal.Message, errVal.Code))
	} else {
		timer.Stop()
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	return Result{Output: out.lines, Value: value, lastPrinted: out.lastPrinted}
}

func (s *Session) evaluator(out *output, env *eval.Environment) *eval.Evaluator {
	return eval.New(eval.Options{
		Logger:      s.host.logger().WithPlayer(s.player.ID),
		Builtins:    newBuiltins(s.host, s.player, out),
		Gate:        s.player.KMap,
		Environment: env,
	})
}

// Manager hands out one Session per player
type Manager struct {
	mu       sync.Mutex
	host     *Host
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(host *Host) *Manager {
	return &Manager{host: host, sessions: make(map[string]*Session)}
}

// Host returns the shared builtin dependencies
func (m *Manager) Host() *Host {
	return m.host
}

// Session returns the session for p, creating it on first use
func (m *Manager) Session(p *player.Player) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[p.ID]
	if !ok || s.player != p {
		s = NewSession(p, m.host)
		m.sessions[p.ID] = s
	}
	return s
}

// Close drops the session of the player with id
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
