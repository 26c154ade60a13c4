// Package audit keeps an append-only SQLite log of every scoreboard change.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/notify"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

const defaultLimit = 50

// Entry is one logged change.
type Entry struct {
	ID          int64         `json:"id"`
	At          time.Time     `json:"at"`
	GameID      string        `json:"gameId,omitempty"`
	Key         string        `json:"key"`
	Action      string        `json:"action"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Link        string        `json:"link,omitempty"`
	Fields      []state.Field `json:"fields,omitempty"`
}

// Log persists changes in a SQLite database.
type Log struct {
	db *sql.DB
}

// Open creates the database and schema if needed.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS changes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ts          TEXT NOT NULL,
			game_id     TEXT NOT NULL,
			event_key   TEXT NOT NULL,
			action      TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT,
			link        TEXT,
			fields      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_game_id ON changes(game_id)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &Log{db: db}, nil
}

// Record appends ch.
func (l *Log) Record(ctx context.Context, ch notify.Change) error {
	var fields []byte
	if len(ch.Content.Fields) > 0 {
		var err error
		if fields, err = json.Marshal(ch.Content.Fields); err != nil {
			return fmt.Errorf("encode fields: %w", err)
		}
	}
	at := ch.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO changes (ts, game_id, event_key, action, title, description, link, fields)
		VALUES (?,?,?,?,?,?,?,?)`,
		at.UTC().Format(time.RFC3339Nano),
		ch.GameID,
		ch.Key,
		ch.Action,
		ch.Content.Title,
		ch.Content.Description,
		ch.Content.Link,
		string(fields),
	)
	if err != nil {
		return fmt.Errorf("insert change: %w", err)
	}
	return nil
}

// Recent returns up to limit changes, newest first. An empty gameID lists
// every game.
func (l *Log) Recent(ctx context.Context, gameID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	query := `SELECT id, ts, game_id, event_key, action, title, description, link, fields FROM changes`
	args := []any{}
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                        Entry
			ts                       string
			desc, link, fieldsColumn sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &e.GameID, &e.Key, &e.Action, &e.Title, &desc, &link, &fieldsColumn); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		if e.At, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse change time: %w", err)
		}
		e.Description, e.Link = desc.String, link.String
		if fieldsColumn.String != "" {
			if err := json.Unmarshal([]byte(fieldsColumn.String), &e.Fields); err != nil {
				return nil, fmt.Errorf("decode fields: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
