package store

import (
	"context"
	"encoding/json"
	"time"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/events"
)

// HistoryEntry is one executed command line
type HistoryEntry struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	Command    string    `json:"command"`
	Args       []string  `json:"args,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Handle records a game.command_executed event. It makes the store usable
// as an events.Handler.
func (s *SQLiteStore) Handle(ctx context.Context, e events.Event) error {
	if e.Type != events.CommandExecuted {
		return nil
	}
	entry := HistoryEntry{
		ID:         e.ID,
		PlayerID:   e.String("player_id"),
		Command:    e.String("command"),
		Error:      e.String("error"),
		ExecutedAt: e.Timestamp,
	}
	if ok, isBool := e.Data["success"].(bool); isBool {
		entry.Success = ok
	}
	if ms, isFloat := e.Data["execution_time_ms"].(float64); isFloat {
		entry.DurationMS = ms
	}
	if args, isSlice := e.Data["args"].([]string); isSlice {
		entry.Args = args
	}
	return s.RecordCommand(ctx, entry)
}

// RecordCommand appends entry to the command history
func (s *SQLiteStore) RecordCommand(ctx context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	args, _ := json.Marshal(entry.Args)
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_history (id, player_id, command, args, success, error, duration_ms, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.PlayerID, entry.Command, string(args), entry.Success, entry.Error,
		entry.DurationMS, entry.ExecutedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nxerror.Wrap(err, "failed to record command").WithCode(nxerror.CodeDatabase)
	}
	return nil
}

// History returns the latest commands of playerID, newest first
func (s *SQLiteStore) History(ctx context.Context, playerID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_id, command, args, success, error, duration_ms, executed_at
		FROM command_history WHERE player_id = ?
		ORDER BY executed_at DESC LIMIT ?
	`, playerID, limit)
	if err != nil {
		return nil, nxerror.Wrap(err, "failed to query history").WithCode(nxerror.CodeDatabase)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			entry    HistoryEntry
			args     string
			errText  *string
			executed string
		)
		if err := rows.Scan(&entry.ID, &entry.PlayerID, &entry.Command, &args, &entry.Success,
			&errText, &entry.DurationMS, &executed); err != nil {
			return nil, nxerror.Wrap(err, "failed to scan history").WithCode(nxerror.CodeDatabase)
		}
		json.Unmarshal([]byte(args), &entry.Args)
		if errText != nil {
			entry.Error = *errText
		}
		entry.ExecutedAt, _ = time.Parse(time.RFC3339Nano, executed)
		out = append(out, entry)
	}
	return out, rows.Err()
}
