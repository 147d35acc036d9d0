package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	nxlog "github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/internal/game/player"
)

// Base delays before CPU scaling
const (
	ScanDelay      = 3 * time.Second
	HashCrackDelay = 5 * time.Second
	ThreadWarmup   = 1 * time.Second
	PacketDelay    = 500 * time.Millisecond
)

// CrackedPassword is what every hash cracks to
const CrackedPassword = "password123"

// CatFile reads name from the world and records any knowledge fragment it
// declares. It returns the text shown to the player and the command whose
// fragment was found, if any.
func CatFile(h *Host, p *player.Player, name string) (string, string, error) {
	content, ok := h.CurrentWorld().Read(name)
	if !ok {
		return "", "", nxerror.Newf(nxerror.CodeNotFound, "cat: %s: No such file or directory", name)
	}
	found, ok := p.KMap.ScanForFragment(content)
	if !ok {
		return content, "", nil
	}
	h.logger().Info("knowledge fragment discovered", nxlog.Fields{
		"player":  p.Name,
		"command": found,
		"file":    name,
	})
	return fmt.Sprintf("%s\n\n[Knowledge fragment for '%s' discovered!]", content, found), found, nil
}

// Scan simulates a port scan of target. The wait scales with the CPU tier
// and is skipped for VIP players.
func Scan(ctx context.Context, h *Host, p *player.Player, target string) (string, time.Duration, error) {
	d, err := h.Latency.Simulate(ctx, ScanDelay, p.Computer.SpeedMultiplier(), p.VIP)
	if err != nil {
		return "", d, nxerror.Wrap(err, "scan interrupted").WithCode(nxerror.CodeScriptExecution)
	}
	return h.CurrentWorld().ScanReport(target), d, nil
}

// HashCrack simulates cracking hash
func HashCrack(ctx context.Context, h *Host, p *player.Player, hash string) (string, time.Duration, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Cracking hash: %s\n", hash)
	if p.VIP {
		b.WriteString("Using quantum-enhanced algorithms...\n")
	} else {
		estimate := h.Latency.Delay(HashCrackDelay, p.Computer.SpeedMultiplier())
		fmt.Fprintf(&b, "Estimated time: %.1fs\n", estimate.Seconds())
	}
	d, err := h.Latency.Simulate(ctx, HashCrackDelay, p.Computer.SpeedMultiplier(), p.VIP)
	if err != nil {
		return "", d, nxerror.Wrap(err, "hashcrack interrupted").WithCode(nxerror.CodeScriptExecution)
	}
	fmt.Fprintf(&b, "Password found: %s", CrackedPassword)
	return b.String(), d, nil
}

// MiningStatus reports the passive mining state and pays out a finished run
func MiningStatus(ctx context.Context, h *Host, p *player.Player) (string, error) {
	if left, ok := p.Computer.MiningRemaining(); ok {
		return fmt.Sprintf("Passive mining in progress. Time remaining: %s", left.Round(time.Second)), nil
	}
	if !p.Computer.IsMining() {
		return "No passive mining in progress.", nil
	}
	if h.Players == nil {
		return "Passive mining complete.", nil
	}
	reward, err := h.Players.CollectMining(ctx, p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Passive mining complete. Collected %d credits.", reward), nil
}

// StartMining starts a passive mining run
func StartMining(ctx context.Context, h *Host, p *player.Player, hours int) (string, error) {
	if h.Players == nil {
		if err := p.Computer.StartMining(time.Duration(hours) * time.Hour); err != nil {
			return "", err
		}
	} else if err := h.Players.StartMining(ctx, p, hours); err != nil {
		return "", err
	}
	return fmt.Sprintf("Passive hash mining started for %d hours.", hours), nil
}

// Ping checks whether address answers on the virtual network
func Ping(h *Host, address string) string {
	if host, ok := h.CurrentWorld().Host(address); ok {
		return fmt.Sprintf("PING %s (%s): reply received", address, host.Hostname)
	}
	return fmt.Sprintf("PING %s: request timed out", address)
}
