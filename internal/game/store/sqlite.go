// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     store
// Description: SQLite persistence for players and command history
// Author:      Nexus Root Team
// Created:     2026-03-14
// License:     MIT
// ============================================================================

// Package store persists players in SQLite. The full player record is kept
// as a JSON document next to a few indexed columns used for lookups and the
// leaderboard.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/player"
	"github.com/nexusroot/nexus/pkg/core/logging"
)

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{Path: "./data/nexus.db"}
}

// SQLiteStore implements player.Repository
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *logging.Logger
}

var _ player.Repository = (*SQLiteStore)(nil)

// Open opens or creates the database at cfg.Path
func Open(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg = DefaultConfig()
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, nxerror.Wrap(err, "failed to create data directory").WithCode(nxerror.CodeDatabase)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, nxerror.Wrap(err, "failed to open database").WithCode(nxerror.CodeDatabase)
	}
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, logger: logging.New("store")}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, nxerror.Wrap(err, "failed to initialize schema").WithCode(nxerror.CodeDatabase)
	}
	s.logger.Info("Player store opened", "path", cfg.Path)
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		is_vip INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		credits INTEGER NOT NULL DEFAULT 0,
		is_online INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS command_history (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		command TEXT NOT NULL,
		args TEXT,
		success INTEGER NOT NULL,
		error TEXT,
		duration_ms REAL NOT NULL DEFAULT 0,
		executed_at TEXT NOT NULL,
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_players_level ON players(level DESC, credits DESC);
	CREATE INDEX IF NOT EXISTS idx_history_player ON command_history(player_id, executed_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create stores a new player record
func (s *SQLiteStore) Create(ctx context.Context, r player.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return nxerror.Wrap(err, "failed to encode player").WithCode(nxerror.CodeInternal)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, is_vip, level, credits, is_online, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.VIP, r.Stats.Level, r.Stats.Credits, r.Online, string(data),
		r.CreatedAt.UTC().Format(time.RFC3339Nano), now)
	if err != nil {
		if isUnique(err) {
			return player.ErrDuplicate(r.Name)
		}
		return nxerror.Wrap(err, "failed to create player").WithCode(nxerror.CodeDatabase)
	}
	return nil
}

// Get loads a player by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (player.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT data FROM players WHERE id = ?`, id), id)
}

// GetByName loads a player by name, ignoring case
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (player.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT data FROM players WHERE name = ?`, name), name)
}

func (s *SQLiteStore) scanOne(row *sql.Row, key string) (player.Record, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return player.Record{}, player.ErrNotFound(key)
		}
		return player.Record{}, nxerror.Wrap(err, "failed to load player").WithCode(nxerror.CodeDatabase)
	}
	return decode(data)
}

// List returns every player ordered by name
func (s *SQLiteStore) List(ctx context.Context) ([]player.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, `SELECT data FROM players ORDER BY name COLLATE NOCASE`)
}

// Leaderboard returns the top players by level, then credits
func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]player.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, `SELECT data FROM players ORDER BY level DESC, credits DESC, name LIMIT ?`, limit)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...interface{}) ([]player.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nxerror.Wrap(err, "failed to query players").WithCode(nxerror.CodeDatabase)
	}
	defer rows.Close()

	var out []player.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, nxerror.Wrap(err, "failed to scan player").WithCode(nxerror.CodeDatabase)
		}
		r, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save overwrites an existing player record
func (s *SQLiteStore) Save(ctx context.Context, r player.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return nxerror.Wrap(err, "failed to encode player").WithCode(nxerror.CodeInternal)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE players
		SET name = ?, is_vip = ?, level = ?, credits = ?, is_online = ?, data = ?, updated_at = ?
		WHERE id = ?
	`, r.Name, r.VIP, r.Stats.Level, r.Stats.Credits, r.Online, string(data),
		time.Now().UTC().Format(time.RFC3339Nano), r.ID)
	if err != nil {
		return nxerror.Wrap(err, "failed to save player").WithCode(nxerror.CodeDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return player.ErrNotFound(r.ID)
	}
	return nil
}

// Delete removes a player and its history
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nxerror.Wrap(err, "failed to begin transaction").WithCode(nxerror.CodeDatabase)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM command_history WHERE player_id = ?`, id); err != nil {
		return nxerror.Wrap(err, "failed to delete history").WithCode(nxerror.CodeDatabase)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return nxerror.Wrap(err, "failed to delete player").WithCode(nxerror.CodeDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return player.ErrNotFound(id)
	}
	if err := tx.Commit(); err != nil {
		return nxerror.Wrap(err, "failed to commit delete").WithCode(nxerror.CodeDatabase)
	}
	return nil
}

// Statistics returns store-wide counters
func (s *SQLiteStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players, vips, online, commands int64
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_vip), 0), COALESCE(SUM(is_online), 0) FROM players
	`)
	if err := row.Scan(&players, &vips, &online); err != nil {
		return nil, nxerror.Wrap(err, "failed to count players").WithCode(nxerror.CodeDatabase)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM command_history`).Scan(&commands); err != nil {
		return nil, nxerror.Wrap(err, "failed to count history").WithCode(nxerror.CodeDatabase)
	}
	return map[string]interface{}{
		"players":  players,
		"vip":      vips,
		"online":   online,
		"commands": commands,
	}, nil
}

// PingContext checks that the database is reachable
func (s *SQLiteStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decode(data string) (player.Record, error) {
	var r player.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return player.Record{}, nxerror.Wrap(err, "corrupt player record").WithCode(nxerror.CodeDatabase)
	}
	return r, nil
}

func isUnique(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
