package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/foundation/nexusscript/eval"
	"github.com/nexusroot/nexus/internal/game/script"
	"github.com/nexusroot/nexus/internal/game/theme"
)

// RegisterBuiltins adds every game command to r
func RegisterBuiltins(r *Registry) {
	r.MustRegister(basicCommands()...)
	r.MustRegister(systemCommands()...)
	r.MustRegister(networkCommands()...)
	r.MustRegister(scriptCommands()...)
}

func basicCommands() []*Command {
	return []*Command{
		{Name: "help", Description: "Show available commands", Syntax: "help [command]", Handler: cmdHelp},
		{Name: "ls", Description: "List directory contents", Syntax: "ls [-la]", Handler: cmdLs},
		{Name: "cat", Description: "Display file contents", Syntax: "cat <filename>", Handler: cmdCat},
		{Name: "set", Description: "Declare a variable or instantiate a new object", Syntax: "set $var = [value]", Handler: cmdSet},
		{Name: "print", Description: "Evaluate and print a NexusScript expression", Syntax: "print <expression>", Handler: cmdPrint},
		{Name: "status", Description: "Show level, credits and passive mining", Syntax: "status", Handler: cmdStatus},
		{Name: "kmap", Description: "Show your Knowledge Map", Syntax: "kmap", Handler: cmdKMap},
		{Name: "integrate", Description: "Add an unlocked command to your default set", Syntax: "integrate <command>", Handler: cmdIntegrate},
		{Name: "theme", Description: "Show or change the terminal theme", Syntax: "theme [name]", Handler: cmdTheme},
		{Name: "prompt", Description: "Change the prompt format ({user} is your name)", Syntax: "prompt <format>", Handler: cmdPrompt},
	}
}

func cmdHelp(_ context.Context, x *Context) (*Result, error) {
	p := x.Player
	if len(x.Args) > 0 {
		name := x.Raw
		c, ok := x.engine.registry.Get(name)
		if !ok || !p.KMap.IsCommandAvailable(c.KMapKey()) {
			return nil, ErrCommandNotFound(name)
		}
		return OK(fmt.Sprintf("%s: %s\nSyntax: %s", c.Name, c.Description, c.Syntax), nil), nil
	}

	var b strings.Builder
	b.WriteString("Available commands:")
	for _, a := range x.engine.GetAvailableCommands(p) {
		fmt.Fprintf(&b, "\n  %-15s - %s", a.Name, a.Description)
		if a.New {
			b.WriteString(" [NEW]")
		}
	}
	return OK(b.String(), nil), nil
}

func cmdLs(_ context.Context, x *Context) (*Result, error) {
	long := false
	for _, a := range x.Args {
		switch a {
		case "-la", "-al", "-l", "--long":
			long = true
		default:
			return nil, failf("ls: invalid option %s", a)
		}
	}
	w := x.host().CurrentWorld()
	return OK(w.Listing(long), map[string]interface{}{"files": w.FileNames()}), nil
}

func cmdCat(_ context.Context, x *Context) (*Result, error) {
	if len(x.Args) == 0 {
		return nil, usage("cat <filename>")
	}
	name := x.Args[0]
	text, found, err := script.CatFile(x.host(), x.Player, name)
	if err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"type":     "file_content",
		"filename": name,
	}
	if found != "" {
		data["discovered"] = found
	}
	return OK(text, data), nil
}

func cmdSet(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) < 3 || x.Args[1] != "=" {
		return nil, usage("set $var = [value]")
	}
	name := x.Args[0]
	if !strings.HasPrefix(name, "$") {
		return nil, failf("Variable name must start with $")
	}

	r := x.Session.Exec(ctx, "set "+x.Raw)
	if r.Failed() {
		return nil, scriptError(r)
	}
	v, ok := x.Session.Environment().Get(name)
	if !ok {
		v = eval.NilValue
	}
	return OK(fmt.Sprintf("Variable %s set to %s", name, v.Inspect()), map[string]interface{}{
		"variable": name,
		"type":     string(v.Type()),
	}), nil
}

func cmdPrint(ctx context.Context, x *Context) (*Result, error) {
	if x.Raw == "" {
		return nil, usage("print <expression>")
	}
	source := "print(" + x.Raw + ")"
	if strings.HasPrefix(x.Raw, "(") {
		source = "print" + x.Raw
	}
	r := x.Session.Exec(ctx, source)
	if r.Failed() {
		return nil, scriptError(r)
	}
	return OK(r.Text(), nil), nil
}

func cmdStatus(ctx context.Context, x *Context) (*Result, error) {
	p := x.Player
	st := p.Stats()
	mining, err := script.MiningStatus(ctx, x.host(), p)
	if err != nil {
		return nil, err
	}
	// credits are read after MiningStatus so a payout is included
	out := fmt.Sprintf("Player: %s\nLevel: %d (XP %d/%d)\nCredits: %d C\nCommands executed: %d\n%s",
		p.Name, st.Level, st.Experience, st.RequiredXP(), p.Credits(), st.TotalCommandsExecuted, mining)
	return OK(out, map[string]interface{}{
		"level":   st.Level,
		"credits": p.Credits(),
		"vip":     p.VIP,
	}), nil
}

func cmdKMap(_ context.Context, x *Context) (*Result, error) {
	km := x.Player.KMap
	integrated := km.Integrated()
	unlocked := km.Unlocked()

	var b strings.Builder
	b.WriteString("KNOWLEDGE MAP")
	fmt.Fprintf(&b, "\nIntegrated: %s", joinOrNone(integrated))
	fmt.Fprintf(&b, "\nUnlocked:   %s", joinOrNone(unlocked))
	if len(unlocked) > 0 {
		b.WriteString("\nUse 'integrate <command>' to add unlocked commands to your default set.")
	}
	return OK(b.String(), map[string]interface{}{
		"integrated": integrated,
		"unlocked":   unlocked,
	}), nil
}

func cmdIntegrate(_ context.Context, x *Context) (*Result, error) {
	if x.Raw == "" {
		return nil, usage("integrate <command>")
	}
	if err := x.Player.KMap.Integrate(x.Raw); err != nil {
		return nil, failf("integrate: %s", err.Error())
	}
	return OK(fmt.Sprintf("'%s' integrated into your default command set.", x.Raw), nil), nil
}

func cmdTheme(_ context.Context, x *Context) (*Result, error) {
	p := x.Player
	if len(x.Args) == 0 {
		out := fmt.Sprintf("Current theme: %s\nAvailable themes: %s",
			p.Settings().Theme, strings.Join(theme.Names(), ", "))
		return OK(out, nil), nil
	}
	name := x.Args[0]
	if !theme.Exists(name) {
		return nil, nxerror.Newf(nxerror.CodeValidation, "theme: unknown theme '%s'", name)
	}
	p.SetTheme(name)
	return OK(fmt.Sprintf("Theme set to '%s'.", name), map[string]interface{}{"theme": name}), nil
}

func cmdPrompt(_ context.Context, x *Context) (*Result, error) {
	if x.Raw == "" {
		return nil, usage("prompt <format>")
	}
	x.Player.SetPromptFormat(x.Raw)
	return OK("Prompt format updated.", map[string]interface{}{"prompt_format": x.Raw}), nil
}

// host returns the dependencies shared with script builtins
func (x *Context) host() *script.Host {
	return x.engine.sessions.Host()
}

// scriptError turns a failed script result into a pipeline error
func scriptError(r script.Result) error {
	if len(r.ParseErrors) > 0 {
		return nxerror.New(r.Text(), nxerror.CodeParse)
	}
	switch v := r.Value.(type) {
	case *eval.NotFound:
		return nxerror.New(r.Text(), nxerror.CodeCommandNotFound)
	case *eval.Error:
		if v.Code != "" {
			return nxerror.New(r.Text(), v.Code)
		}
	}
	return nxerror.New(r.Text(), nxerror.CodeScriptExecution)
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
