package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/pkg/core/logging"
)

// Registry maps command names to commands. Names may be two words
// ("thread spawn").
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	logger   *logging.Logger
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		logger:   logging.New("command-registry"),
	}
}

// Register adds cmd. Names must be unique.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil || strings.TrimSpace(cmd.Name) == "" {
		return nxerror.New("command name cannot be empty", nxerror.CodeValidation)
	}
	if cmd.Handler == nil {
		return nxerror.Newf(nxerror.CodeValidation, "command %s has no handler", cmd.Name)
	}
	if len(strings.Fields(cmd.Name)) > 2 {
		return nxerror.Newf(nxerror.CodeValidation, "command name %q has more than two words", cmd.Name)
	}
	if cmd.MinLevel < 1 {
		cmd.MinLevel = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name]; exists {
		return nxerror.Newf(nxerror.CodeDuplicate, "command %s already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	r.logger.Debug("Command registered", "command", cmd.Name, "level", cmd.MinLevel, "cost", cmd.Cost)
	return nil
}

// MustRegister is Register that panics; used for the built-in table
func (r *Registry) MustRegister(cmds ...*Command) {
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			panic(fmt.Sprintf("register %s: %v", c.Name, err))
		}
	}
}

// Get returns the command called name
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// Resolve finds the command addressed by fields. A two word name wins
// over a one word name. It returns the command and how many fields its
// name used.
func (r *Registry) Resolve(fields []string) (*Command, int, bool) {
	if len(fields) == 0 {
		return nil, 0, false
	}
	if len(fields) > 1 {
		if c, ok := r.Get(fields[0] + " " + fields[1]); ok {
			return c, 2, true
		}
	}
	c, ok := r.Get(fields[0])
	return c, 1, ok
}

// Eligible checks p against the level and VIP requirements of every
// command gated by the Knowledge Map key. Script builtins sharing the key
// are held to the same requirements.
func (r *Registry) Eligible(p *player.Player, key string) error {
	for _, c := range r.List() {
		if c.KMapKey() != key {
			continue
		}
		if err := c.eligible(p); err != nil {
			return err
		}
	}
	return nil
}

// List returns every command sorted by name
func (r *Registry) List() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of commands
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
