package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/examfoundry/examfoundry/internal/model"
)

// SQLStore persists documents and versions in sqlite or postgres. Question
// lists are stored as JSON columns; the schema lives in internal/db. Every
// successful write also lands in the event log.
type SQLStore struct {
	db     *sql.DB
	events *EventLog
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, events: NewEventLog(db)}
}

// Events exposes the store's change trail.
func (s *SQLStore) Events() *EventLog { return s.events }

func (s *SQLStore) PutDocument(ctx context.Context, doc model.AssessmentDocument) error {
	qj, err := json.Marshal(doc.Questions)
	if err != nil {
		return err
	}
	pj, err := json.Marshal(doc.Params)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO documents (id,title,kind,duration_minutes,total_points,questions_json,params_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, kind=EXCLUDED.kind,
		duration_minutes=EXCLUDED.duration_minutes, total_points=EXCLUDED.total_points,
		questions_json=EXCLUDED.questions_json, params_json=EXCLUDED.params_json`,
		doc.ID, doc.Title, string(doc.Kind), doc.DurationMinutes, doc.TotalPoints, string(qj), string(pj), time.Now().Unix())
	if err != nil {
		return err
	}
	if aerr := s.events.Append(ctx, EventDocumentRegistered, doc.ID, ""); aerr != nil {
		log.Printf("event log append failed: %v", aerr)
	}
	return nil
}

func (s *SQLStore) GetDocument(ctx context.Context, id string) (model.AssessmentDocument, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,kind,duration_minutes,total_points,questions_json,params_json FROM documents WHERE id=$1`, id)
	var doc model.AssessmentDocument
	var kind, qjson, pjson string
	if err := row.Scan(&doc.ID, &doc.Title, &kind, &doc.DurationMinutes, &doc.TotalPoints, &qjson, &pjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AssessmentDocument{}, ErrNotFound
		}
		return model.AssessmentDocument{}, err
	}
	doc.Kind = model.DocumentKind(kind)
	if err := json.Unmarshal([]byte(qjson), &doc.Questions); err != nil {
		return model.AssessmentDocument{}, fmt.Errorf("decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(pjson), &doc.Params); err != nil {
		return model.AssessmentDocument{}, fmt.Errorf("decode params: %w", err)
	}
	return doc, nil
}

func (s *SQLStore) PutVersion(ctx context.Context, v model.Version) error {
	if _, err := s.GetDocument(ctx, v.DocumentID); err != nil {
		return err
	}
	qj, err := json.Marshal(v.Questions)
	if err != nil {
		return err
	}
	// rely on the (document_id, letter) primary key for the uniqueness
	// invariant rather than a racy read-then-write
	_, err = s.db.ExecContext(ctx, `INSERT INTO versions (document_id,letter,questions_json,created_at)
		VALUES ($1,$2,$3,$4)`,
		v.DocumentID, string(v.Letter), string(qj), time.Now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLetter
		}
		return err
	}
	if aerr := s.events.Append(ctx, EventVersionCreated, v.DocumentID, `{"letter":"`+string(v.Letter)+`"}`); aerr != nil {
		log.Printf("event log append failed: %v", aerr)
	}
	return nil
}

func (s *SQLStore) ListVersions(ctx context.Context, documentID string) ([]model.Version, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT letter,questions_json FROM versions WHERE document_id=$1 ORDER BY letter`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Version
	for rows.Next() {
		var letter, qjson string
		if err := rows.Scan(&letter, &qjson); err != nil {
			return nil, err
		}
		v := model.Version{DocumentID: documentID, Letter: model.VersionLetter(letter)}
		if err := json.Unmarshal([]byte(qjson), &v.Questions); err != nil {
			return nil, fmt.Errorf("decode version %s: %w", letter, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// isUniqueViolation matches the constraint error text of both supported
// drivers (sqlite "UNIQUE constraint failed", postgres SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key")
}
