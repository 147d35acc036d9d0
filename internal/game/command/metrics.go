package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors fed by the Engine
type Metrics struct {
	commands      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	creditsSpent  *prometheus.CounterVec
	activeThreads prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// gets a private registry so several engines can live in one process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexus",
				Name:      "commands_total",
				Help:      "Commands dispatched by the execution pipeline",
			},
			[]string{"command", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "nexus",
				Name:      "command_duration_seconds",
				Help:      "Wall time of command handlers",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 3, 5, 10, 30},
			},
			[]string{"command"},
		),
		creditsSpent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexus",
				Name:      "credits_spent_total",
				Help:      "Credits debited as command costs",
			},
			[]string{"command"},
		),
		activeThreads: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "nexus",
				Name:      "active_threads",
				Help:      "Background script threads currently running",
			},
		),
	}
	reg.MustRegister(m.commands, m.duration, m.creditsSpent, m.activeThreads)
	return m
}

func (m *Metrics) observe(command, status string, d time.Duration) {
	m.commands.With(prometheus.Labels{"command": command, "status": status}).Inc()
	if status != "rejected" {
		m.duration.With(prometheus.Labels{"command": command}).Observe(d.Seconds())
	}
}

func (m *Metrics) spent(command string, credits int) {
	if credits > 0 {
		m.creditsSpent.With(prometheus.Labels{"command": command}).Add(float64(credits))
	}
}

func (m *Metrics) threadStarted() { m.activeThreads.Inc() }
func (m *Metrics) threadStopped() { m.activeThreads.Dec() }
