package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	nxlog "github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/internal/game/command"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/internal/game/script"
	"github.com/nexusroot/nexus/internal/game/store"
	"github.com/nexusroot/nexus/pkg/core/logging"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	db, err := store.Open(store.Config{Path: filepath.Join(t.TempDir(), "nexus.db")})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bus := events.NewBus()
	bus.Subscribe(events.CommandExecuted, db)

	svc := player.NewService(db, bus, player.DefaultConfig())
	reg := prometheus.NewRegistry()
	engine := command.NewEngine(command.Options{
		Players: svc,
		Sessions: script.NewManager(&script.Host{
			Players: svc,
			Latency: hardware.Latency{Scale: 0},
			Logger:  nxlog.Discard(),
		}),
		Bus:     bus,
		Metrics: command.NewMetrics(reg),
	})
	t.Cleanup(engine.Close)

	opts.Engine = engine
	opts.History = db
	opts.Gatherer = reg
	opts.Bus = bus

	srv := httptest.NewServer(New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func createPlayer(t *testing.T, srv *httptest.Server, name string) {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/v1/players", createPlayerRequest{Name: name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create %s: status = %d", name, resp.StatusCode)
	}
	resp.Body.Close()
}

func TestServer_Players(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/players", createPlayerRequest{Name: "neo", VIP: true})
	var created player.Summary
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	decode(t, resp, &created)
	if created.Name != "neo" || !created.VIP || created.Level != 1 {
		t.Errorf("created = %+v", created)
	}

	resp = postJSON(t, srv.URL+"/api/v1/players", createPlayerRequest{Name: "NEO"})
	var dup errorResponse
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.StatusCode)
	}
	decode(t, resp, &dup)
	if dup.Code != "DUPLICATE" {
		t.Errorf("duplicate code = %q", dup.Code)
	}

	resp, err := http.Get(srv.URL + "/api/v1/players/neo")
	if err != nil {
		t.Fatal(err)
	}
	var got playerResponse
	decode(t, resp, &got)
	if got.ID != created.ID || got.PromptFormat == "" || len(got.Commands) == 0 {
		t.Errorf("player = %+v", got)
	}

	resp, err = http.Get(srv.URL + "/api/v1/players/ghost")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing player status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/v1/players")
	if err != nil {
		t.Fatal(err)
	}
	var list []player.Summary
	decode(t, resp, &list)
	if len(list) != 1 {
		t.Errorf("list = %+v", list)
	}
}

func TestServer_Command(t *testing.T) {
	srv := newTestServer(t, Options{})
	createPlayer(t, srv, "trinity")

	resp := postJSON(t, srv.URL+"/api/v1/command", commandRequest{Player: "trinity", Command: "ls"})
	var res command.Result
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	decode(t, resp, &res)
	if !res.Success || !strings.Contains(res.Output, "data.txt") {
		t.Errorf("ls = %+v", res)
	}

	resp = postJSON(t, srv.URL+"/api/v1/command", commandRequest{Player: "trinity", Command: "nmap"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown command status = %d, want 404", resp.StatusCode)
	}
	decode(t, resp, &res)
	if res.Success || res.Error != "Unknown command: nmap" || res.Code != "COMMAND_NOT_FOUND" {
		t.Errorf("nmap = %+v", res)
	}

	resp = postJSON(t, srv.URL+"/api/v1/command", commandRequest{Command: "ls"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing player status = %d, want 400", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/v1/players/trinity/commands")
	if err != nil {
		t.Fatal(err)
	}
	var history []store.HistoryEntry
	decode(t, resp, &history)
	if len(history) != 2 {
		t.Fatalf("history = %+v, want 2 entries", history)
	}
	commands := map[string]bool{}
	for _, h := range history {
		commands[h.Command] = h.Success
	}
	if ok, seen := commands["ls"]; !seen || !ok {
		t.Errorf("history = %+v", history)
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, Options{})
	createPlayer(t, srv, "tank")
	postJSON(t, srv.URL+"/api/v1/command", commandRequest{Player: "tank", Command: "status"}).Body.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
	var report map[string]interface{}
	decode(t, resp, &report)
	if report["status"] != "healthy" {
		t.Errorf("report = %v", report)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `nexus_commands_total{command="status",status="success"} 1`) {
		t.Errorf("metrics missing command counter:\n%s", body)
	}
}

func dial(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?player=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var welcome struct {
		Type    string           `json:"type"`
		Payload WSWelcomePayload `json:"payload"`
	}
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != "welcome" || welcome.Payload.Player.Name != name || !welcome.Payload.Player.Online {
		t.Fatalf("welcome = %+v", welcome)
	}
	return conn
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func sendCommand(t *testing.T, conn *websocket.Conn, line string) frame {
	t.Helper()
	payload, _ := json.Marshal(WSCommandPayload{Line: line})
	if err := conn.WriteJSON(WSMessage{Type: "command", Payload: payload}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func TestWebSocket_Session(t *testing.T) {
	srv := newTestServer(t, Options{})
	createPlayer(t, srv, "morpheus")
	conn := dial(t, srv, "morpheus")

	if err := conn.WriteJSON(WSMessage{Type: "ping"}); err != nil {
		t.Fatal(err)
	}
	var pong frame
	if err := conn.ReadJSON(&pong); err != nil || pong.Type != "pong" {
		t.Fatalf("pong = %+v, %v", pong, err)
	}

	f := sendCommand(t, conn, "cat log.txt")
	if f.Type != "result" {
		t.Fatalf("frame = %+v", f)
	}
	var res command.Result
	if err := json.Unmarshal(f.Payload, &res); err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Data["discovered"] != "scan" {
		t.Errorf("cat = %+v", res)
	}

	if err := conn.WriteJSON(WSMessage{Type: "launch"}); err != nil {
		t.Fatal(err)
	}
	var unknown frame
	if err := conn.ReadJSON(&unknown); err != nil || unknown.Type != "error" {
		t.Fatalf("unknown type frame = %+v, %v", unknown, err)
	}
}

func TestWebSocket_RateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})
	createPlayer(t, srv, "switch")
	conn := dial(t, srv, "switch")

	if f := sendCommand(t, conn, "status"); f.Type != "result" {
		t.Fatalf("first frame = %+v", f)
	}
	f := sendCommand(t, conn, "status")
	var e WSErrorPayload
	json.Unmarshal(f.Payload, &e)
	if f.Type != "error" || e.Code != "rate_limited" {
		t.Errorf("second frame = %s %+v", f.Type, e)
	}
}

func TestWebSocket_UnknownPlayer(t *testing.T) {
	srv := newTestServer(t, Options{})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?player=nobody"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Dial() succeeded for an unknown player")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestCheckOrigin(t *testing.T) {
	s := &Server{
		opts:   Options{AllowedOrigins: []string{"https://nexus.example"}},
		logger: logging.New("server-test"),
	}
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://nexus.example", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := s.checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestServer_CommandRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})
	createPlayer(t, srv, "dozer")

	resp := postJSON(t, srv.URL+"/api/v1/command", commandRequest{Player: "dozer", Command: "status"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first status = %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/v1/command", commandRequest{Player: "DOZER", Command: "status"})
	var e errorResponse
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", resp.StatusCode)
	}
	decode(t, resp, &e)
	if e.Code != "RATE_LIMITED" {
		t.Errorf("error = %+v", e)
	}
}
