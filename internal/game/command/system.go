package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/script"
)

func systemCommands() []*Command {
	return []*Command{
		{Name: "buy", Description: "Browse the hardware shop or upgrade a component", Syntax: "buy [cpu|ram|nic|ssd]", Handler: cmdBuy},
		{Name: "mine", Description: "Start passive hash mining", Syntax: "mine <hours>", Handler: cmdMine},
		{Name: "vc.status", Description: "Displays the current status of the virtual computer", Syntax: "vc.status", Handler: cmdVCStatus},
		{
			Name:        "vc.auto_defend",
			Description: "Enables or disables the automated defense system",
			Syntax:      "vc.auto_defend on|off",
			RequiresVIP: true,
			Handler:     cmdAutoDefend,
		},
		{Name: "dos_attack", Description: "Temporarily locks an opponent's CPU", Syntax: "dos_attack <target_player>", Handler: cmdDOSAttack},
	}
}

func cmdBuy(ctx context.Context, x *Context) (*Result, error) {
	p := x.Player
	if len(x.Args) == 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "HARDWARE SHOP (balance: %d C)", p.Credits())
		for _, info := range p.Computer.Info() {
			price := "MAX"
			if info.UpgradeCost > 0 {
				price = fmt.Sprintf("%d C", info.UpgradeCost)
			}
			fmt.Fprintf(&b, "\n  %-4s tier %2d/%d  %-12s upgrade: %s",
				info.Component.Label(), info.Tier, info.MaxTier, info.Detail, price)
		}
		return OK(b.String(), nil), nil
	}

	comp, err := hardware.ParseComponent(x.Args[0])
	if err != nil {
		return nil, nxerror.Newf(nxerror.CodeValidation, "buy: %s", err.Error())
	}
	tier, cost, err := x.engine.players.Upgrade(ctx, p, comp)
	if err != nil {
		return nil, nxerror.Newf(nxerror.GetCode(err), "buy: %s", err.Error())
	}
	out := fmt.Sprintf("Successfully upgraded %s to tier %d (-%d C).", comp.Label(), tier, cost)
	return OK(out, map[string]interface{}{
		"component": string(comp),
		"tier":      tier,
		"cost":      cost,
	}), nil
}

func cmdMine(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) != 1 {
		return nil, usage("mine <hours>")
	}
	hours, err := strconv.Atoi(x.Args[0])
	if err != nil {
		return nil, failf("mine: invalid duration")
	}
	out, err := script.StartMining(ctx, x.host(), x.Player, hours)
	if err != nil {
		return nil, nxerror.Newf(nxerror.GetCode(err), "mine: %s", err.Error())
	}
	return OK(out, map[string]interface{}{"duration_hours": hours}), nil
}

func cmdVCStatus(_ context.Context, x *Context) (*Result, error) {
	p := x.Player
	vc := p.Computer
	procs := x.engine.threads.list(p.ID)

	var b strings.Builder
	b.WriteString("VC HARDWARE STATUS:")
	for _, info := range vc.Info() {
		fmt.Fprintf(&b, "\n%-4s tier %d/%d  %s", info.Component.Label(), info.Tier, info.MaxTier, info.Detail)
	}
	active, capacity := vc.ActiveThreads(), vc.MaxThreads()
	fmt.Fprintf(&b, "\nCPU Load: [ %d%% ]", active*100/capacity)
	fmt.Fprintf(&b, "\nThreads: [ %d / %d ]", active, capacity)
	fmt.Fprintf(&b, "\nCommands processed: %d", vc.CommandsProcessed())
	b.WriteString("\n\nACTIVE PROCESSES:")
	b.WriteString("\nPID   NAME            UPTIME")
	for _, proc := range procs {
		fmt.Fprintf(&b, "\n%-5d %-15s %s", proc.PID, proc.Module, proc.uptime())
	}

	return OK(b.String(), map[string]interface{}{
		"hardware":       vc.Info(),
		"active_threads": active,
		"max_threads":    capacity,
	}), nil
}

func cmdAutoDefend(_ context.Context, x *Context) (*Result, error) {
	if len(x.Args) != 1 || (x.Args[0] != "on" && x.Args[0] != "off") {
		return nil, usage("vc.auto_defend on|off")
	}
	status := x.Args[0]
	x.Player.SetAutoDefend(status == "on")
	return OK(fmt.Sprintf("Automated defense system turned %s.", status), nil), nil
}

func cmdDOSAttack(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) != 1 {
		return nil, usage("dos_attack <target_player>")
	}
	name := x.Args[0]
	target, err := x.engine.players.GetByName(ctx, name)
	if err != nil {
		if nxerror.HasCode(err, nxerror.CodeNotFound) {
			return nil, nxerror.Newf(nxerror.CodeNotFound, "Player not found: %s", name)
		}
		return nil, err
	}
	if target.ID == x.Player.ID {
		return nil, failf("dos_attack: you cannot attack yourself")
	}
	if target.VIP && target.Settings().AutoDefend {
		return nil, failf("Attack blocked: %s's automated defense system is active.", target.Name)
	}

	// only the target's state lock is taken, never its exec lock
	if err := x.engine.players.LockCPU(ctx, target, x.engine.dosLock); err != nil {
		return nil, err
	}
	secs := int(x.engine.dosLock.Seconds())
	out := fmt.Sprintf("DoS attack launched against %s. Their CPU will be locked for %d seconds.", target.Name, secs)
	return OK(out, map[string]interface{}{
		"target":       target.Name,
		"lock_seconds": secs,
	}), nil
}
