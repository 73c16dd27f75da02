// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: recorder/recorder.go
// Summary: SQLite-backed append-only log of classified stream elements.

package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"github.com/texelation/streamparse/streamparse"
)

const schema = `
CREATE TABLE IF NOT EXISTS elements (
	id          INTEGER PRIMARY KEY,
	session_id  TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	is_text     INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	raw_text    TEXT NOT NULL,
	text        TEXT NOT NULL,
	parameters  TEXT NOT NULL,
	recorded_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_elements_session_seq ON elements(session_id, seq);
`

// Recorder appends every StreamElement it is given to a SQLite database,
// tagged with a session ID and a monotonic sequence number so read-back can
// reproduce the order elements were recorded in even across sessions sharing
// one database file.
type Recorder struct {
	db        *sql.DB
	sessionID string

	mu  sync.Mutex
	seq int64
}

// Open creates (or reuses) a SQLite database at path and starts a new
// recording session against it. Each Recorder instance gets its own
// session ID so rows from concurrent or successive runs never interleave.
func Open(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("recorder: create directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("recorder: open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: connect: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: create schema: %w", err)
	}

	return &Recorder{db: db, sessionID: uuid.NewString()}, nil
}

// SessionID returns the ID this recorder tags every row with.
func (r *Recorder) SessionID() string { return r.sessionID }

// Record appends e as the next row of the current session.
func (r *Recorder) Record(e streamparse.StreamElement) error {
	params, err := json.Marshal(e.Parameters)
	if err != nil {
		return fmt.Errorf("recorder: marshal parameters: %w", err)
	}

	isText := 0
	if e.IsText {
		isText = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	_, err = r.db.Exec(
		"INSERT INTO elements (session_id, seq, is_text, kind, raw_text, text, parameters, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.sessionID, r.seq, isText, string(e.Kind), e.RawText, e.Text, string(params), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recorder: insert element: %w", err)
	}
	return nil
}

// Replay reads back every element recorded under sessionID, in the order
// it was recorded.
func (r *Recorder) Replay(sessionID string) ([]streamparse.StreamElement, error) {
	rows, err := r.db.Query(
		"SELECT is_text, kind, raw_text, text, parameters FROM elements WHERE session_id = ? ORDER BY seq ASC",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("recorder: query session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []streamparse.StreamElement
	for rows.Next() {
		var isText int
		var kind, rawText, text, paramsJSON string
		if err := rows.Scan(&isText, &kind, &rawText, &text, &paramsJSON); err != nil {
			return nil, fmt.Errorf("recorder: scan row: %w", err)
		}

		var params []string
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return nil, fmt.Errorf("recorder: unmarshal parameters: %w", err)
		}

		if isText == 1 {
			out = append(out, streamparse.NewTextElement(text))
		} else {
			out = append(out, streamparse.NewControlSequenceElement(rawText, streamparse.ControlSequenceType(kind), params))
		}
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (r *Recorder) Close() error { return r.db.Close() }
