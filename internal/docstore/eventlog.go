package docstore

import (
	"context"
	"database/sql"
	"time"
)

// Event is one row of the registry's append-only change trail.
type Event struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

const (
	EventDocumentRegistered = "document_registered"
	EventVersionCreated     = "version_created"
)

// EventLog appends registry changes to the event_log table. Appends are
// best-effort from the store's point of view; a failed append never fails
// the write it describes.
type EventLog struct{ db *sql.DB }

func NewEventLog(db *sql.DB) *EventLog { return &EventLog{db: db} }

func (l *EventLog) Append(ctx context.Context, typ, key, dataJSON string) error {
	if dataJSON == "" {
		dataJSON = "{}"
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, dataJSON, time.Now().Unix())
	return err
}

// Recent returns up to limit events, newest first.
func (l *EventLog) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, typ, key, data, created_at FROM event_log ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
