// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     health
// Description: Health check registry served on /health by the game server
// Author:      Nexus Root Team
// Created:     2026-03-06
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status is the health of one component or of the whole server
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// rank orders statuses from best to worst
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration_ns"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is a named health check
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type funcChecker struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

func (c funcChecker) Name() string                          { return c.name }
func (c funcChecker) Check(ctx context.Context) CheckResult { return c.fn(ctx) }

// NewChecker turns fn into a Checker called name
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return funcChecker{name: name, fn: fn}
}

// Report is the aggregated result served on /health
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Healthy reports whether no check failed
func (r *Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// String returns a one-line summary
func (r *Report) String() string {
	return fmt.Sprintf("%s %s: %s (up %s, %d checks)", r.Service, r.Version, r.Status, r.Uptime, len(r.Checks))
}

// Registry holds the checks of one service
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	started  time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		started:  time.Now(),
	}
}

// Register adds checker, replacing a checker of the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	r.checkers[checker.Name()] = checker
	r.mu.Unlock()
}

// RegisterFunc registers fn under name
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Unregister removes the checker called name
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.checkers, name)
	r.mu.Unlock()
}

// Check runs every checker concurrently. Results are sorted by name and
// the report takes the worst status seen.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = run(ctx, c)
		}(i, c)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	status := StatusHealthy
	for _, res := range results {
		if res.Status.rank() > status.rank() {
			status = res.Status
		}
	}
	return &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    status,
		Uptime:    time.Since(r.started).Round(time.Second).String(),
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// CheckWithTimeout runs Check bounded by timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// run executes c and fills in the bookkeeping fields. A panicking check
// counts as unhealthy.
func run(ctx context.Context, c Checker) (res CheckResult) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = CheckResult{Status: StatusUnhealthy, Message: fmt.Sprintf("check panicked: %v", p)}
		}
		if res.Name == "" {
			res.Name = c.Name()
		}
		if res.Status == "" {
			res.Status = StatusHealthy
		}
		res.Duration = time.Since(start)
		res.Timestamp = time.Now()
	}()
	return c.Check(ctx)
}

// Pinger is satisfied by *sql.DB and the player store
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingCheck reports unhealthy when p cannot be reached within timeout
func PingCheck(name string, p Pinger, timeout time.Duration) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := p.PingContext(ctx); err != nil {
			return CheckResult{Name: name, Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Name: name, Status: StatusHealthy, Message: "reachable"}
	})
}

// GaugeCheck reports degraded once value() exceeds limit. A limit of zero
// disables the threshold.
func GaugeCheck(name string, value func() int, limit int) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		v := value()
		result := CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Details: map[string]interface{}{"value": v, "limit": limit},
		}
		if limit > 0 && v > limit {
			result.Status = StatusDegraded
			result.Message = fmt.Sprintf("%d exceeds limit %d", v, limit)
		}
		return result
	})
}
