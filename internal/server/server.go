// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     server
// Description: HTTP and WebSocket transport for the command engine
// Author:      Nexus Root Team
// Created:     2026-03-15
// License:     MIT
// ============================================================================

// Package server exposes the command engine over a small JSON API and a
// WebSocket game session, plus /health and /metrics.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/command"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/store"
	"github.com/nexusroot/nexus/pkg/core/cache"
	"github.com/nexusroot/nexus/pkg/core/health"
	"github.com/nexusroot/nexus/pkg/core/logging"
	"github.com/nexusroot/nexus/pkg/core/version"
)

// HistoryReader returns the latest commands of a player
type HistoryReader interface {
	History(ctx context.Context, playerID string, limit int) ([]store.HistoryEntry, error)
}

// Options configure a Server
type Options struct {
	Engine *command.Engine
	// History backs GET /api/v1/players/{name}/commands; nil answers
	// with an empty list.
	History HistoryReader
	Health  *health.Registry
	// Gatherer is served on /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
	Bus      events.Publisher

	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RateLimit      float64 // commands per second per connection or HTTP player
	RateBurst      int
	AllowedOrigins []string
}

// Server is the game server
type Server struct {
	opts       Options
	engine     *command.Engine
	players    *player.Service
	health     *health.Registry
	bus        events.Publisher
	httpServer *http.Server
	upgrader   websocket.Upgrader
	logger     *logging.Logger

	// limiters throttle POST /api/v1/command per player
	limiters *cache.Cache[*rate.Limiter]

	connections atomic.Int64
}

// New creates a server around opts.Engine
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 10
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Bus == nil {
		opts.Bus = events.Discard{}
	}
	if opts.Health == nil {
		opts.Health = health.NewRegistry("nexus", version.Server)
	}

	s := &Server{
		opts:    opts,
		engine:  opts.Engine,
		players: opts.Engine.Players(),
		health:  opts.Health,
		bus:     opts.Bus,
		logger:  logging.New("server"),
	}
	s.limiters = cache.New[*rate.Limiter](cache.Config{TTL: 10 * time.Minute})
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.health.Register(health.GaugeCheck("websocket_connections", func() int {
		return int(s.connections.Load())
	}, 0))
	s.health.RegisterFunc("commands", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{
			Name:    "commands",
			Status:  health.StatusHealthy,
			Message: strconv.Itoa(s.engine.Registry().Len()) + " commands registered",
		}
	})

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the routed and logged HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/players", s.handleCreatePlayer)
	mux.HandleFunc("GET /api/v1/players", s.handleListPlayers)
	mux.HandleFunc("GET /api/v1/players/{name}", s.handleGetPlayer)
	mux.HandleFunc("GET /api/v1/players/{name}/commands", s.handlePlayerCommands)
	mux.HandleFunc("POST /api/v1/command", s.handleCommand)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	return loggingMiddleware(s.logger, mux)
}

// Start serves until the server is stopped
func (s *Server) Start() error {
	s.logger.Info("Starting game server", "addr", s.opts.Addr, "version", version.Server)
	s.bus.Publish(context.Background(), events.New(events.ServerStarted, "server", map[string]interface{}{
		"addr": s.opts.Addr,
	}))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return nxerror.Wrap(err, "http server failed").WithCode(nxerror.CodeInternal)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping game server")
	err := s.httpServer.Shutdown(ctx)
	s.limiters.Close()
	s.bus.Publish(ctx, events.New(events.ServerStopped, "server", nil))
	return err
}

type createPlayerRequest struct {
	Name string `json:"name"`
	VIP  bool   `json:"is_vip"`
}

type commandRequest struct {
	Player  string `json:"player"`
	Command string `json:"command"`
}

type playerResponse struct {
	player.Summary
	PromptFormat string                 `json:"prompt_format"`
	Commands     []command.Availability `json:"commands"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nxerror.New("invalid request body", nxerror.CodeValidation))
		return
	}
	p, err := s.players.Create(r.Context(), req.Name, req.VIP)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p.Summary())
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	list, err := s.players.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []player.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := s.players.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playerResponse{
		Summary:      p.Summary(),
		PromptFormat: p.Settings().PromptFormat,
		Commands:     s.engine.GetAvailableCommands(p),
	})
}

func (s *Server) handlePlayerCommands(w http.ResponseWriter, r *http.Request) {
	p, err := s.players.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	entries := []store.HistoryEntry{}
	if s.opts.History != nil {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := s.opts.History.History(r.Context(), p.ID, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if list != nil {
			entries = list
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nxerror.New("invalid request body", nxerror.CodeValidation))
		return
	}
	if req.Player == "" {
		writeError(w, nxerror.New("player is required", nxerror.CodeValidation))
		return
	}

	limiter := s.limiters.GetOrCreate(strings.ToLower(req.Player), s.newLimiter)
	if !limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "Too many commands. Slow down.",
			Code:  "RATE_LIMITED",
		})
		return
	}

	res := s.engine.Execute(r.Context(), req.Player, req.Command)
	status := http.StatusOK
	if !res.Success {
		status = nxerror.Code(res.Code).HTTPStatus()
	}
	writeJSON(w, status, res)
}

func (s *Server) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(s.opts.RateLimit), s.opts.RateBurst)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := nxerror.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: err.Error(), Code: string(code)})
}

// loggingMiddleware logs every request with its status and duration
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, nxerror.New("response writer cannot be hijacked", nxerror.CodeInternal)
	}
	return h.Hijack()
}
