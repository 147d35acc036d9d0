package command

import (
	"context"
	"fmt"
	"strings"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/foundation/nexusscript/ast"
	"github.com/nexusroot/nexus/foundation/nexusscript/parser"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/script"
)

func scriptCommands() []*Command {
	return []*Command{
		{Name: "run", Description: "Executes a player-created NexusScript module", Syntax: "run <module_name> [args...]", Handler: cmdRun},
		{Name: "edit", Description: "Creates or shows a NexusScript module", Syntax: "edit <module_name> [source]", Handler: cmdEdit},
		{Name: "thread spawn", Description: "Executes a module as a separate, parallel process", Syntax: "thread spawn <module_name> [args...]", Handler: cmdThreadSpawn},
	}
}

func cmdRun(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) == 0 {
		return nil, usage("run <module_name> [args...]")
	}
	name := x.Args[0]
	source, err := x.module("run", name)
	if err != nil {
		return nil, err
	}

	r := x.Session.RunModule(ctx, source, x.Args[1:])
	x.engine.scriptFinished(ctx, x.Player, name, !r.Failed())
	if r.Failed() {
		return nil, scriptError(r)
	}
	return OK(r.Text(), map[string]interface{}{
		"module": name,
		"args":   x.Args[1:],
	}), nil
}

func cmdEdit(_ context.Context, x *Context) (*Result, error) {
	p := x.Player
	if len(x.Args) == 0 {
		modules := p.Modules()
		if len(modules) == 0 {
			return OK("No modules yet. Usage: edit <module_name> <source>", nil), nil
		}
		return OK("Modules: "+strings.Join(modules, ", "), map[string]interface{}{"modules": modules}), nil
	}

	name := x.Args[0]
	if len(x.Args) == 1 {
		source, err := x.module("edit", name)
		if err != nil {
			return nil, err
		}
		return OK(source, map[string]interface{}{"module": name}), nil
	}

	source := afterFields(x.Raw, 1)
	program, errs := parser.Parse(source, parser.Options{MaxInputLength: x.host().MaxInputLength})
	if len(errs) > 0 {
		return nil, nxerror.New(parser.FormatErrors(errs), nxerror.CodeParse)
	}
	p.SaveModule(name, source)

	calls := ast.CalledNames(program)
	out := fmt.Sprintf("Module '%s' saved (%d statements).", name, len(program.Statements))
	if len(calls) > 0 {
		out += "\nCalls: " + strings.Join(calls, ", ")
	}
	return OK(out, map[string]interface{}{
		"module":     name,
		"statements": len(program.Statements),
		"calls":      calls,
	}), nil
}

func cmdThreadSpawn(_ context.Context, x *Context) (*Result, error) {
	if len(x.Args) == 0 {
		return nil, usage("thread spawn <module_name> [args...]")
	}
	name := x.Args[0]
	source, err := x.module("thread spawn", name)
	if err != nil {
		return nil, err
	}
	p := x.Player
	if err := p.Computer.AcquireThread(); err != nil {
		return nil, err
	}

	pid := x.engine.spawn(x.Session, name, source, x.Args[1:])
	out := fmt.Sprintf("Spawning new thread %d for module %s with args: [%s]", pid, name, strings.Join(x.Args[1:], ", "))
	return OK(out, map[string]interface{}{
		"pid":     pid,
		"module":  name,
		"threads": p.Computer.ActiveThreads(),
	}), nil
}

// module returns the stored source of name
func (x *Context) module(cmd, name string) (string, error) {
	source, ok := x.Player.Module(name)
	if !ok {
		return "", nxerror.Newf(nxerror.CodeNotFound, "%s: module '%s' not found", cmd, name)
	}
	return source, nil
}

// spawn runs a module in the background. The caller holds a thread slot
// which is released when the module finishes.
func (e *Engine) spawn(s *script.Session, name, source string, args []string) int {
	p := s.Player()
	pid := e.threads.add(p.ID, name)
	e.metrics.threadStarted()
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()
		defer e.metrics.threadStopped()
		defer e.threads.remove(pid)
		defer p.Computer.ReleaseThread()

		ctx := e.base
		h := e.sessions.Host()
		if _, err := h.Latency.Simulate(ctx, script.ThreadWarmup, p.Computer.SpeedMultiplier(), p.VIP); err != nil {
			e.logger.Debug("Thread cancelled before start", "player", p.Name, "module", name, "pid", pid)
			return
		}
		r := s.RunModule(ctx, source, args)
		e.scriptFinished(ctx, p, name, !r.Failed())
		e.logger.Info("Thread finished", "player", p.Name, "module", name, "pid", pid,
			"failed", r.Failed())
	}()
	return pid
}

// scriptFinished records a module run and announces it
func (e *Engine) scriptFinished(ctx context.Context, p *player.Player, module string, success bool) {
	p.RecordScript()
	e.bus.Publish(ctx, events.New(events.ScriptExecuted, "command_engine", map[string]interface{}{
		"player_id":   p.ID,
		"player_name": p.Name,
		"module":      module,
		"success":     success,
	}))
}
