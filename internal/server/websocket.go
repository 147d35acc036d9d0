package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/player"
)

const readTimeout = 120 * time.Second

// WSMessage is a frame sent by the client
type WSMessage struct {
	Type    string          `json:"type"`    // "command", "ping"
	Payload json.RawMessage `json:"payload"` // type specific
}

// WSCommandPayload carries one command line
type WSCommandPayload struct {
	Line string `json:"line"`
}

// WSResponse is a frame sent by the server
type WSResponse struct {
	Type    string      `json:"type"` // "welcome", "result", "error", "pong"
	Payload interface{} `json:"payload"`
}

// WSWelcomePayload greets a new session
type WSWelcomePayload struct {
	Player       player.Summary `json:"player"`
	PromptFormat string         `json:"prompt_format"`
}

// WSErrorPayload reports a transport level problem
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	s.logger.Warn("WebSocket origin rejected", "origin", origin)
	return false
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("player")
	if name == "" {
		writeError(w, nxerror.New("player query parameter is required", nxerror.CodeValidation))
		return
	}
	p, err := s.players.GetByName(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	s.serveSession(conn, p)
}

// serveSession runs the read loop of one player connection. Commands are
// executed in arrival order; the loop is the only writer on conn.
func (s *Server) serveSession(conn *websocket.Conn, p *player.Player) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.connections.Add(1)
	defer s.connections.Add(-1)

	if err := s.players.Login(ctx, p); err != nil {
		s.logger.Warn("Failed to mark player online", "player", p.Name, "error", err)
	}
	defer func() {
		if err := s.players.Logout(context.Background(), p); err != nil {
			s.logger.Warn("Failed to mark player offline", "player", p.Name, "error", err)
		}
	}()
	s.logger.Info("WebSocket session started", "player", p.Name, "remote", conn.RemoteAddr().String())

	limiter := s.newLimiter()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	s.send(conn, WSResponse{Type: "welcome", Payload: WSWelcomePayload{
		Player:       p.Summary(),
		PromptFormat: p.Settings().PromptFormat,
	}})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", "player", p.Name, "error", err)
			} else {
				s.logger.Info("WebSocket session closed", "player", p.Name)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "ping":
			s.send(conn, WSResponse{Type: "pong"})

		case "command":
			var payload WSCommandPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.sendError(conn, "invalid_payload", "Invalid command payload")
				continue
			}
			if !limiter.Allow() {
				s.sendError(conn, "rate_limited", "Too many commands. Slow down.")
				continue
			}
			s.send(conn, WSResponse{Type: "result", Payload: s.engine.Execute(ctx, p.Name, payload.Line)})

		default:
			s.sendError(conn, "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) send(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Debug("WebSocket write failed", "error", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, code, message string) {
	s.send(conn, WSResponse{Type: "error", Payload: WSErrorPayload{Code: code, Message: message}})
}
