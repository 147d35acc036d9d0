package cmd

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/command"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/script"
	"github.com/nexusroot/nexus/internal/game/store"
	"github.com/nexusroot/nexus/internal/game/world"
	"github.com/nexusroot/nexus/pkg/core/config"
	"github.com/nexusroot/nexus/pkg/core/logging"
)

// app is the wired game: config, storage, event bus and command engine
type app struct {
	cfg      *config.Config
	bus      *events.Bus
	store    *store.SQLiteStore // nil when players live in memory
	players  *player.Service
	world    *world.Loader
	engine   *command.Engine
	registry *prometheus.Registry
	logger   *logging.Logger
}

// loadConfig reads --config, else NEXUS_CONFIG and the search paths
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newApp wires every component. quiet sends logs to io.Discard unless a
// log file is configured, which keeps the full-screen shell readable.
func newApp(quiet bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nxerror.Wrap(err, "failed to load config").WithCode(nxerror.CodeConfig)
	}

	logCfg := logging.LoggerConfig{
		ServiceName: "nexus",
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
		File:        cfg.General.LogFile,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if quiet && logCfg.File == "" {
		logCfg.Output = io.Discard
	}
	root, err := logging.NewLogger(logCfg)
	logging.SetRoot(root)
	logger := logging.New("nexus")
	if err != nil {
		logger.Warn("Log file unavailable, logging to stdout", "error", err)
	}

	a := &app{
		cfg:      cfg,
		bus:      events.NewBus(),
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var repo player.Repository = player.NewMemoryRepository()
	if path := cfg.DatabasePath(); path != "" {
		s, err := store.Open(store.Config{Path: path})
		if err != nil {
			return nil, err
		}
		a.store = s
		repo = s
		a.bus.Subscribe(events.CommandExecuted, s)
	}

	a.players = player.NewService(repo, a.bus, player.Config{
		StartingCredits:   cfg.Game.StartingCredits,
		FragmentsToUnlock: cfg.Game.FragmentsToUnlock,
		Hardware: hardware.Config{
			MaxTier:      cfg.Game.MaxTier,
			MiningReward: cfg.Game.MiningReward,
		},
		MiningMinHours: cfg.Game.MiningMinHours,
		MiningMaxHours: cfg.Game.MiningMaxHours,
	})

	a.world, err = world.NewLoader(cfg.Game.WorldFile)
	if err != nil {
		a.Close()
		return nil, nxerror.Wrap(err, "failed to load world").WithCode(nxerror.CodeConfig)
	}

	host := &script.Host{
		Players: a.players,
		World:   a.world,
		Latency: hardware.NewLatency(cfg.Game.LatencyScale),
		Logger:  logging.Root(),
	}
	a.engine = command.NewEngine(command.Options{
		Players:         a.players,
		Sessions:        script.NewManager(host),
		Bus:             a.bus,
		Metrics:         command.NewMetrics(a.registry),
		DOSLockDuration: cfg.Game.DOSLockDuration.Duration,
	})
	return a, nil
}

// player loads name, creating it when create is set
func (a *app) player(ctx context.Context, name string, create, vip bool) (*player.Player, error) {
	p, err := a.players.GetByName(ctx, name)
	if err == nil || !create || !nxerror.HasCode(err, nxerror.CodeNotFound) {
		return p, err
	}
	return a.players.Create(ctx, name, vip)
}

// Close stops background work and flushes players to storage
func (a *app) Close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.players != nil {
		if err := a.players.Close(context.Background()); err != nil {
			a.logger.Warn("Failed to close player service", "error", err)
		}
	}
	logging.CloseFiles()
}
