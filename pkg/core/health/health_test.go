package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

func TestRegistry_AggregatesStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
		{"no checks", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("nexus", "0.1.0")
			for i, s := range tt.statuses {
				status := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.CheckWithTimeout(time.Second)
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks = %d, want %d", len(report.Checks), len(tt.statuses))
			}
		})
	}
}

func TestRegistry_FillsNameAndTiming(t *testing.T) {
	registry := NewRegistry("nexus", "0.1.0")
	registry.RegisterFunc("engine", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	report := registry.Check(context.Background())
	if len(report.Checks) != 1 {
		t.Fatalf("Checks = %d, want 1", len(report.Checks))
	}
	if report.Checks[0].Name != "engine" {
		t.Errorf("Name = %q, want engine", report.Checks[0].Name)
	}
	if report.Checks[0].Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	if report.Service != "nexus" || report.Version != "0.1.0" {
		t.Errorf("report = %s", report)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("nexus", "0.1.0")
	registry.RegisterFunc("db", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	})
	registry.Unregister("db")

	if report := registry.Check(context.Background()); report.Status != StatusHealthy {
		t.Errorf("Status = %v after unregister", report.Status)
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck("database", fakePinger{}, time.Second).Check(context.Background())
	if ok.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", ok.Status)
	}

	bad := PingCheck("database", fakePinger{err: errors.New("database is locked")}, time.Second).Check(context.Background())
	if bad.Status != StatusUnhealthy || bad.Message != "database is locked" {
		t.Errorf("result = %+v", bad)
	}
}

func TestGaugeCheck(t *testing.T) {
	sessions := 3
	checker := GaugeCheck("sessions", func() int { return sessions }, 5)

	if r := checker.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("Status = %v under limit", r.Status)
	}
	sessions = 6
	if r := checker.Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("Status = %v over limit", r.Status)
	}
	unlimited := GaugeCheck("sessions", func() int { return 1000 }, 0)
	if r := unlimited.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("Status = %v with limit disabled", r.Status)
	}
}

func TestRegistry_SortsAndRecoversPanics(t *testing.T) {
	registry := NewRegistry("nexus", "0.1.0")
	registry.RegisterFunc("world", func(ctx context.Context) CheckResult {
		panic("boom")
	})
	registry.RegisterFunc("commands", func(ctx context.Context) CheckResult {
		return CheckResult{}
	})

	report := registry.Check(context.Background())
	if len(report.Checks) != 2 {
		t.Fatalf("Checks = %d, want 2", len(report.Checks))
	}
	if report.Checks[0].Name != "commands" || report.Checks[1].Name != "world" {
		t.Errorf("order = %s, %s", report.Checks[0].Name, report.Checks[1].Name)
	}
	if report.Checks[0].Status != StatusHealthy {
		t.Errorf("empty result status = %v, want healthy", report.Checks[0].Status)
	}
	if report.Checks[1].Status != StatusUnhealthy || report.Healthy() {
		t.Errorf("panicking check = %+v", report.Checks[1])
	}
}
