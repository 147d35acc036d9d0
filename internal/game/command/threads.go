package command

import (
	"sort"
	"sync"
	"time"
)

// process is one background script thread
type process struct {
	PID       int
	PlayerID  string
	Module    string
	StartedAt time.Time
}

func (p process) uptime() time.Duration {
	return time.Since(p.StartedAt).Round(time.Second)
}

// threadTable tracks background threads of every player
type threadTable struct {
	mu      sync.Mutex
	nextPID int
	procs   map[int]process
}

func newThreadTable() *threadTable {
	return &threadTable{nextPID: 1, procs: make(map[int]process)}
}

func (t *threadTable) add(playerID, module string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	pid := t.nextPID
	t.nextPID++
	t.procs[pid] = process{PID: pid, PlayerID: playerID, Module: module, StartedAt: time.Now()}
	return pid
}

func (t *threadTable) remove(pid int) {
	t.mu.Lock()
	delete(t.procs, pid)
	t.mu.Unlock()
}

// list returns the threads of playerID ordered by pid
func (t *threadTable) list(playerID string) []process {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]process, 0)
	for _, p := range t.procs {
		if p.PlayerID == playerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}
