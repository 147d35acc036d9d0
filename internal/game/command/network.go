package command

import (
	"context"
	"fmt"
	"strings"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/foundation/nexusscript/eval"
	"github.com/nexusroot/nexus/internal/game/script"
)

func networkCommands() []*Command {
	return []*Command{
		{Name: "scan", Description: "Scan network targets", Syntax: "scan <target>", MinLevel: 2, Handler: cmdScan},
		{Name: "hashcrack", Description: "Crack password hashes", Syntax: "hashcrack <hash>", MinLevel: 3, Cost: 10, Handler: cmdHashCrack},
		{Name: "pivot", Description: "Routes an attack through a compromised asset", Syntax: "pivot <compromised_server> <command>", Handler: cmdPivot},
		{Name: "raw", Description: "Sends custom, low-level data packets", Syntax: "raw send <target_ip> <data_packet>", Handler: cmdRaw},
	}
}

func cmdScan(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) == 0 {
		return nil, usage("scan <target>")
	}
	target := x.expand(x.Args[0])
	out, waited, err := script.Scan(ctx, x.host(), x.Player, target)
	if err != nil {
		return nil, err
	}

	w := x.host().CurrentWorld()
	services := make([]string, len(w.Ports))
	for i, port := range w.Ports {
		services[i] = port.Service
	}
	return OK(out, map[string]interface{}{
		"target":     target,
		"open_ports": w.PortNumbers(),
		"services":   services,
		"scan_time":  waited.Seconds(),
	}), nil
}

func cmdHashCrack(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) == 0 {
		return nil, usage("hashcrack <hash>")
	}
	hash := x.expand(x.Args[0])
	out, waited, err := script.HashCrack(ctx, x.host(), x.Player, hash)
	if err != nil {
		return nil, err
	}
	return OK(out, map[string]interface{}{
		"hash":       hash,
		"password":   script.CrackedPassword,
		"crack_time": waited.Seconds(),
	}), nil
}

func cmdPivot(_ context.Context, x *Context) (*Result, error) {
	if len(x.Args) < 2 {
		return nil, usage("pivot <compromised_server> <command>")
	}
	server := x.expand(x.Args[0])
	parts := make([]string, len(x.Args)-1)
	for i, a := range x.Args[1:] {
		parts[i] = x.expand(a)
	}
	command := strings.Join(parts, " ")
	return OK(fmt.Sprintf("Pivoting through %s to run: %s", server, command), map[string]interface{}{
		"server":  server,
		"command": command,
	}), nil
}

func cmdRaw(ctx context.Context, x *Context) (*Result, error) {
	if len(x.Args) < 3 || x.Args[0] != "send" {
		return nil, usage("raw send <target_ip> <data_packet>")
	}
	target := x.expand(x.Args[1])
	if _, err := eval.ParseIP(target); err != nil {
		return nil, nxerror.Newf(nxerror.CodeValidation, "raw: %s", err.Error())
	}
	packet := strings.Join(x.Args[2:], " ")

	p := x.Player
	h := x.host()
	if _, err := h.Latency.Simulate(ctx, script.PacketDelay, p.Computer.NetworkMultiplier(), p.VIP); err != nil {
		return nil, nxerror.Wrap(err, "raw send interrupted").WithCode(nxerror.CodeScriptExecution)
	}
	return OK(fmt.Sprintf("Sending raw data packet to %s: %s", target, packet), map[string]interface{}{
		"target": target,
		"bytes":  len(packet),
	}), nil
}

// expand replaces a $variable argument with its session value
func (x *Context) expand(arg string) string {
	if !strings.HasPrefix(arg, "$") || x.Session == nil {
		return arg
	}
	if v, ok := x.Session.Environment().Get(arg); ok {
		return eval.ToString(v)
	}
	return arg
}
