package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexusroot/nexus/internal/game/world"
	"github.com/nexusroot/nexus/internal/server"
	"github.com/nexusroot/nexus/pkg/core/health"
	"github.com/nexusroot/nexus/pkg/core/version"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket game server",
	Long: `Start the game server.

Endpoints:
  POST /api/v1/players                 create a player
  GET  /api/v1/players/{name}          player summary and commands
  GET  /api/v1/players/{name}/commands command history
  POST /api/v1/command                 run {"player", "command"}
  GET  /ws?player=<name>               interactive session
  GET  /health, /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.world.SetOnChange(func(w *world.World) {
		a.logger.Info("World updated", "files", len(w.Files))
	})
	if err := a.world.Watch(ctx); err != nil {
		a.logger.Warn("World hot reload disabled", "error", err)
	}

	cfg := a.cfg
	addr := serveAddr
	if addr == "" {
		addr = cfg.Address()
	}

	registry := health.NewRegistry("nexus", version.Server)
	opts := server.Options{
		Engine:         a.engine,
		Health:         registry,
		Gatherer:       a.registry,
		Bus:            a.bus,
		Addr:           addr,
		ReadTimeout:    cfg.Server.ReadTimeout.Duration,
		WriteTimeout:   cfg.Server.WriteTimeout.Duration,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if a.store != nil {
		opts.History = a.store
		registry.Register(health.PingCheck("database", a.store, 2*time.Second))
		registry.RegisterFunc("players", func(ctx context.Context) health.CheckResult {
			stats, err := a.store.Statistics(ctx)
			if err != nil {
				return health.CheckResult{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.CheckResult{Status: health.StatusHealthy, Details: stats}
		})
	}
	srv := server.New(opts)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	fmt.Printf("Nexus Root server listening on %s\n", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			printError("server stopped", err)
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}
