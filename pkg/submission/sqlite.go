package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	survey_id TEXT NOT NULL,
	session_id TEXT,
	answers TEXT NOT NULL,
	submitted_at TIMESTAMP NOT NULL,
	duration_seconds INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_submissions_survey ON submissions(survey_id, submitted_at);
`

// SQLiteSink persists payloads as JSON rows.
type SQLiteSink struct {
	db    *sql.DB
	owned bool
	now   func() time.Time
}

var _ Sink = (*SQLiteSink)(nil)

// OpenSQLite opens (creating if needed) the database at path and returns a
// sink that closes it on Close.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, errors.New("submission: database path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("submission: open %s: %w", path, err)
	}
	sink, err := NewSQLiteSink(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	sink.owned = true
	return sink, nil
}

// NewSQLiteSink wraps an open database and runs the table migration.
func NewSQLiteSink(db *sql.DB) (*SQLiteSink, error) {
	if db == nil {
		return nil, errors.New("submission: database is nil")
	}
	s := &SQLiteSink{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("submission: migrate: %w", err)
	}
	return nil
}

// Close closes the database when the sink opened it.
func (s *SQLiteSink) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Store inserts payload, assigning an id and submission time when unset.
func (s *SQLiteSink) Store(ctx context.Context, payload Payload) error {
	if payload.SurveyID == "" {
		return errors.New("submission: survey id is required")
	}
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	if payload.SubmittedAt.IsZero() {
		payload.SubmittedAt = s.now().UTC()
	}
	answers, err := json.Marshal(payload.Answers)
	if err != nil {
		return fmt.Errorf("submission: encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, survey_id, session_id, answers, submitted_at, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payload.ID, payload.SurveyID, payload.SessionID, string(answers), payload.SubmittedAt, payload.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("submission: insert: %w", err)
	}
	return nil
}

// List returns the stored payloads of a survey, oldest first.
func (s *SQLiteSink) List(ctx context.Context, surveyID string) ([]Payload, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, survey_id, session_id, answers, submitted_at, duration_seconds
		 FROM submissions WHERE survey_id = ? ORDER BY submitted_at, id`, surveyID,
	)
	if err != nil {
		return nil, fmt.Errorf("submission: list: %w", err)
	}
	defer rows.Close()

	var out []Payload
	for rows.Next() {
		var (
			p         Payload
			sessionID sql.NullString
			answers   string
		)
		if err := rows.Scan(&p.ID, &p.SurveyID, &sessionID, &answers, &p.SubmittedAt, &p.DurationSeconds); err != nil {
			return nil, fmt.Errorf("submission: scan: %w", err)
		}
		if sessionID.Valid {
			p.SessionID = sessionID.String
		}
		if err := json.Unmarshal([]byte(answers), &p.Answers); err != nil {
			return nil, fmt.Errorf("submission: decode answers of %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("submission: list: %w", err)
	}
	return out, nil
}
