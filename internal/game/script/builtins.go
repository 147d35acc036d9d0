package script

import (
	"context"
	"fmt"
	"sort"
	"strings"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/foundation/nexusscript/eval"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/theme"
)

// newBuiltins binds the builtin table to p. The Key of each builtin is the
// Knowledge Map command that unlocks it.
func newBuiltins(h *Host, p *player.Player, out *output) []*eval.Builtin {
	b := &binder{host: h, player: p, out: out}
	builtins := []*eval.Builtin{
		{Name: "print", Key: "print", Description: "Print values", Fn: b.print},
		{Name: "ls", Key: "ls", Description: "List files (-la for details)", Fn: b.ls},
		{Name: "cat", Key: "cat", Description: "Show a file", Fn: b.cat},
		{Name: "status", Key: "status", Description: "Show passive mining status", Fn: b.status},
		{Name: "help", Key: "help", Description: "List available functions", Fn: b.help},
		{Name: "set_theme", Key: "theme", Description: "Change the terminal theme", Fn: b.setTheme},
		{Name: "set_prompt", Key: "prompt", Description: "Change the prompt format", Fn: b.setPrompt},
		{Name: "mine_hash", Key: "mine", Description: "Start passive mining for N hours", Fn: b.mineHash},
		{Name: "ping", Key: "scan", Description: "Check whether a host answers", Fn: b.ping},
		{Name: "scan", Key: "scan", Description: "Scan a host for open ports", Fn: b.scan},
	}
	for _, bi := range builtins {
		bi.Fn = b.eligible(bi.Name, bi.Key, bi.Fn)
	}
	return builtins
}

type binder struct {
	host   *Host
	player *player.Player
	out    *output
}

// eligible applies the level and VIP requirements of the command behind key
func (b *binder) eligible(name, key string, fn eval.BuiltinFunction) eval.BuiltinFunction {
	if b.host.Eligible == nil || key == "" {
		return fn
	}
	return func(ctx context.Context, args []eval.Value, flags []string) eval.Value {
		if err := b.host.Eligible(b.player, key); err != nil {
			errVal := eval.NewError("%s: %s", name, err.Error())
			errVal.Code = nxerror.GetCode(err)
			return errVal
		}
		return fn(ctx, args, flags)
	}
}

func (b *binder) print(_ context.Context, args []eval.Value, _ []string) eval.Value {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = eval.ToString(a)
	}
	var last eval.Value = eval.NilValue
	if len(args) > 0 {
		last = args[len(args)-1]
	}
	b.out.write(strings.Join(parts, " "), last)
	return last
}

func (b *binder) ls(_ context.Context, _ []eval.Value, flags []string) eval.Value {
	long := false
	for _, f := range flags {
		switch f {
		case "-la", "-l", "-al", "--long":
			long = true
		default:
			return eval.NewError("ls: invalid option %s", f)
		}
	}
	return &eval.String{Value: b.host.CurrentWorld().Listing(long)}
}

func (b *binder) cat(_ context.Context, args []eval.Value, _ []string) eval.Value {
	if len(args) != 1 {
		return eval.NewError("cat: missing operand")
	}
	text, _, err := CatFile(b.host, b.player, eval.ToString(args[0]))
	if err != nil {
		return eval.NewError("%s", err.Error())
	}
	return &eval.String{Value: text}
}

func (b *binder) status(ctx context.Context, _ []eval.Value, _ []string) eval.Value {
	text, err := MiningStatus(ctx, b.host, b.player)
	if err != nil {
		return eval.NewError("status: %s", err.Error())
	}
	return &eval.String{Value: text}
}

func (b *binder) help(_ context.Context, _ []eval.Value, _ []string) eval.Value {
	visible := make([]*eval.Builtin, 0)
	for _, bi := range newBuiltins(b.host, b.player, b.out) {
		if b.player.KMap.IsCommandAvailable(bi.Key) {
			visible = append(visible, bi)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Name < visible[j].Name })

	var sb strings.Builder
	sb.WriteString("Available functions:")
	for _, bi := range visible {
		fmt.Fprintf(&sb, "\n  %-12s - %s", bi.Name, bi.Description)
	}
	return &eval.String{Value: sb.String()}
}

func (b *binder) setTheme(_ context.Context, args []eval.Value, _ []string) eval.Value {
	if len(args) == 0 {
		return eval.NewError("set_theme: missing operand")
	}
	name := eval.ToString(args[0])
	if !theme.Exists(name) {
		return eval.NewError("set_theme: unknown theme '%s'", name)
	}
	b.player.SetTheme(name)
	return &eval.String{Value: fmt.Sprintf("Theme set to '%s'.", name)}
}

func (b *binder) setPrompt(_ context.Context, args []eval.Value, _ []string) eval.Value {
	if len(args) == 0 {
		return eval.NewError("set_prompt: missing operand")
	}
	b.player.SetPromptFormat(eval.ToString(args[0]))
	return &eval.String{Value: "Prompt format updated."}
}

func (b *binder) mineHash(ctx context.Context, args []eval.Value, _ []string) eval.Value {
	if len(args) == 0 {
		return eval.NewError("mine_hash: missing operand")
	}
	hours, ok := eval.ToInt(args[0])
	if !ok {
		return eval.NewError("mine_hash: invalid duration")
	}
	text, err := StartMining(ctx, b.host, b.player, hours)
	if err != nil {
		return eval.NewError("mine_hash: %s", err.Error())
	}
	return &eval.String{Value: text}
}

func (b *binder) ping(_ context.Context, args []eval.Value, _ []string) eval.Value {
	addr, errVal := address("ping", args)
	if errVal != nil {
		return errVal
	}
	return &eval.String{Value: Ping(b.host, addr)}
}

func (b *binder) scan(ctx context.Context, args []eval.Value, _ []string) eval.Value {
	addr, errVal := address("scan", args)
	if errVal != nil {
		return errVal
	}
	text, _, err := Scan(ctx, b.host, b.player, addr)
	if err != nil {
		return eval.NewError("scan: %s", err.Error())
	}
	return &eval.String{Value: text}
}

// address accepts an IP object or a dotted string
func address(name string, args []eval.Value) (string, *eval.Error) {
	if len(args) != 1 {
		return "", eval.NewError("%s: expected 1 argument, got %d", name, len(args))
	}
	switch v := args[0].(type) {
	case *eval.IP:
		return v.Inspect(), nil
	case *eval.String:
		ip, err := eval.ParseIP(v.Value)
		if err != nil {
			return "", eval.NewError("%s: %s", name, err.Error())
		}
		return ip.Inspect(), nil
	default:
		return "", eval.NewError("%s: expected an IP, got %s", name, strings.ToLower(string(args[0].Type())))
	}
}
