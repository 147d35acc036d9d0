package command

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/kmap"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/script"
	"github.com/nexusroot/nexus/pkg/core/logging"
)

// DefaultDOSLockDuration is how long dos_attack locks the target CPU
const DefaultDOSLockDuration = 30 * time.Second

// Options configures an Engine
type Options struct {
	Players  *player.Service
	Sessions *script.Manager
	Bus      events.Publisher
	// Registry defaults to a registry holding the built-in commands
	Registry        *Registry
	Metrics         *Metrics
	DOSLockDuration time.Duration
}

// Engine is the execution pipeline wrapped around every submitted line
type Engine struct {
	players  *player.Service
	sessions *script.Manager
	bus      events.Publisher
	registry *Registry
	metrics  *Metrics
	logger   *logging.Logger
	dosLock  time.Duration

	threads *threadTable

	// background threads run under base and stop on Close
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an engine
func NewEngine(opts Options) *Engine {
	if opts.Bus == nil {
		opts.Bus = events.Discard{}
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
		RegisterBuiltins(opts.Registry)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.DOSLockDuration <= 0 {
		opts.DOSLockDuration = DefaultDOSLockDuration
	}
	if opts.Sessions == nil {
		opts.Sessions = script.NewManager(&script.Host{
			Players: opts.Players,
			Latency: hardware.NewLatency(1),
		})
	}
	if host := opts.Sessions.Host(); host.Eligible == nil {
		host.Eligible = opts.Registry.Eligible
	}

	base, cancel := context.WithCancel(context.Background())
	return &Engine{
		players:  opts.Players,
		sessions: opts.Sessions,
		bus:      opts.Bus,
		registry: opts.Registry,
		metrics:  opts.Metrics,
		logger:   logging.New("command"),
		dosLock:  opts.DOSLockDuration,
		threads:  newThreadTable(),
		base:     base,
		cancel:   cancel,
	}
}

// Registry returns the command registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Players returns the player service
func (e *Engine) Players() *player.Service {
	return e.players
}

// Sessions returns the script session manager
func (e *Engine) Sessions() *script.Manager {
	return e.sessions
}

// Execute looks up playerName and runs line for that player
func (e *Engine) Execute(ctx context.Context, playerName, line string) *Result {
	start := time.Now()
	p, err := e.players.GetByName(ctx, playerName)
	if err != nil {
		return failure(err, time.Since(start))
	}
	if _, err := e.players.CollectMining(ctx, p); err != nil {
		e.logger.Warn("Collecting passive mining failed", "player", p.Name, "error", err)
	}
	return e.ExecuteFor(ctx, p, line)
}

// ExecuteFor runs line for p. Lines of the same player are serialized.
func (e *Engine) ExecuteFor(ctx context.Context, p *player.Player, line string) *Result {
	start := time.Now()

	p.LockExec()
	defer p.UnlockExec()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return failure(nxerror.New("No command specified", nxerror.CodeValidation), 0)
	}
	name := fields[0]

	if left, locked := p.CPULockRemaining(); locked {
		return e.reject(ctx, p, name, fields[1:], ErrCPULocked(left), start, true)
	}

	cmd, used, ok := e.registry.Resolve(fields)
	if !ok || !p.KMap.IsCommandAvailable(cmd.KMapKey()) {
		return e.reject(ctx, p, name, fields[1:], ErrCommandNotFound(name), start, true)
	}
	name = cmd.Name
	args := fields[used:]

	if err := cmd.eligible(p); err != nil {
		return e.reject(ctx, p, name, args, err, start, false)
	}
	if cmd.Cost > 0 {
		if err := p.Debit(cmd.Cost); err != nil {
			if nxerror.HasCode(err, nxerror.CodeInsufficientResources) {
				err = ErrCost(cmd.Cost)
			}
			return e.reject(ctx, p, name, args, err, start, true)
		}
		e.metrics.spent(name, cmd.Cost)
	}

	x := &Context{
		RequestID: uuid.NewString(),
		Player:    p,
		Args:      args,
		Raw:       afterFields(line, used),
		Line:      line,
		StartedAt: start,
		Session:   e.sessions.Session(p),
		engine:    e,
	}

	res, err := e.invoke(ctx, cmd, x)
	elapsed := time.Since(start)

	if err != nil {
		result := failure(err, elapsed)
		e.metrics.observe(name, "error", elapsed)
		e.logger.Error("Command failed", "player", p.Name, "command", name,
			"request_id", x.RequestID, "error", err)
		e.publish(ctx, p, name, args, false, elapsed, result.Error)
		e.save(ctx, p)
		return result
	}

	if res == nil {
		res = OK("", nil)
	}
	res.Success = true
	res.ExecutionTimeMS = millis(elapsed)

	p.RecordCommand()
	e.metrics.observe(name, "success", elapsed)
	e.logger.Audit("command executed", "player", p.Name, "command", name,
		"request_id", x.RequestID, "duration_ms", res.ExecutionTimeMS)
	e.publish(ctx, p, name, args, true, elapsed, "")
	e.save(ctx, p)
	return res
}

// invoke runs the handler and turns a panic into a script error
func (e *Engine) invoke(ctx context.Context, cmd *Command, x *Context) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Command panicked", "command", cmd.Name, "panic", r)
			res = nil
			err = nxerror.Newf(nxerror.CodeScriptExecution, "%s: internal error", cmd.Name)
		}
	}()
	return cmd.Handler(ctx, x)
}

// reject builds the result for a line that never reached its handler
func (e *Engine) reject(ctx context.Context, p *player.Player, name string, args []string, err error, start time.Time, announce bool) *Result {
	elapsed := time.Since(start)
	result := failure(err, elapsed)
	e.metrics.observe(name, "rejected", elapsed)
	e.logger.Debug("Command rejected", "player", p.Name, "command", name, "reason", result.Error)
	if announce {
		e.publish(ctx, p, name, args, false, elapsed, result.Error)
	}
	return result
}

func (e *Engine) publish(ctx context.Context, p *player.Player, name string, args []string, success bool, elapsed time.Duration, errMsg string) {
	data := map[string]interface{}{
		"player_id":         p.ID,
		"player_name":       p.Name,
		"command":           name,
		"args":              append([]string{}, args...),
		"success":           success,
		"execution_time_ms": millis(elapsed),
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	e.bus.Publish(ctx, events.New(events.CommandExecuted, "command_engine", data))
}

func (e *Engine) save(ctx context.Context, p *player.Player) {
	if e.players == nil {
		return
	}
	if err := e.players.Save(ctx, p); err != nil {
		e.logger.Error("Saving player after command failed", "player", p.Name, "error", err)
	}
}

// GetAvailableCommands lists the commands p knows about. Locked and hidden
// commands are left out; the rest carry the reason they cannot run now.
func (e *Engine) GetAvailableCommands(p *player.Player) []Availability {
	out := make([]Availability, 0)
	for _, c := range e.registry.List() {
		key := c.KMapKey()
		if !p.KMap.IsCommandAvailable(key) {
			continue
		}
		a := Availability{
			Name:        c.Name,
			Description: c.Description,
			Syntax:      c.Syntax,
			Available:   true,
			New:         p.KMap.State(key) == kmap.StateUnlocked,
			RequiresVIP: c.RequiresVIP,
			MinLevel:    c.MinLevel,
			Cost:        c.Cost,
		}
		if err := c.eligible(p); err != nil {
			a.Available, a.Reason = false, err.Error()
		} else if c.Cost > 0 && p.Credits() < c.Cost {
			a.Available, a.Reason = false, ErrCost(c.Cost).Error()
		}
		out = append(out, a)
	}
	return out
}

// Close stops background threads and waits for them
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}

// failure converts err into a failed result
func failure(err error, elapsed time.Duration) *Result {
	return &Result{
		Success:         false,
		Error:           err.Error(),
		Code:            string(nxerror.GetCode(err)),
		ExecutionTimeMS: millis(elapsed),
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// afterFields returns line with its first n whitespace separated fields
// and the following whitespace removed
func afterFields(line string, n int) string {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	for i := 0; i < n; i++ {
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	return strings.TrimRightFunc(rest, unicode.IsSpace)
}
