package leads

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/fullstock/internal/store"
	"github.com/HerbHall/fullstock/pkg/models"
)

// Outcome is the result of one submission attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Submission is one entry in the submission log.
type Submission struct {
	ID        string      `json:"id"`
	Lead      models.Lead `json:"lead"`
	Outcome   Outcome     `json:"outcome"`
	RecordID  string      `json:"record_id,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// SubmissionRepository stores submission attempts.
type SubmissionRepository interface {
	// Record inserts s. An empty ID is replaced with a UUID and a zero
	// CreatedAt with the current time.
	Record(ctx context.Context, s *Submission) error

	// List returns the most recent submissions, newest first.
	List(ctx context.Context, limit int) ([]Submission, error)

	// Count returns the number of submissions with the given outcome.
	Count(ctx context.Context, outcome Outcome) (int, error)
}

// Compile-time interface guard.
var _ SubmissionRepository = (*SQLiteSubmissionRepository)(nil)

// SQLiteSubmissionRepository implements SubmissionRepository using SQLite.
type SQLiteSubmissionRepository struct {
	db *sql.DB
}

// NewSQLiteSubmissionRepository runs the leads migrations and returns a
// repository over st.
func NewSQLiteSubmissionRepository(ctx context.Context, st store.Store) (*SQLiteSubmissionRepository, error) {
	if err := st.Migrate(ctx, "leads", submissionMigrations); err != nil {
		return nil, fmt.Errorf("leads migrations: %w", err)
	}
	return &SQLiteSubmissionRepository{db: st.DB()}, nil
}

func (r *SQLiteSubmissionRepository) Record(ctx context.Context, s *Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads_submissions
			(id, name, company, position, email, outcome, record_id, reason, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Lead.Name, s.Lead.Company, s.Lead.Position, s.Lead.Email,
		string(s.Outcome), s.RecordID, s.Reason, s.Error, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record submission %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteSubmissionRepository) List(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, company, position, email, outcome, record_id, reason, error, created_at
		FROM leads_submissions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]Submission, 0)
	for rows.Next() {
		var s Submission
		var outcome string
		if err := rows.Scan(&s.ID, &s.Lead.Name, &s.Lead.Company, &s.Lead.Position, &s.Lead.Email,
			&outcome, &s.RecordID, &s.Reason, &s.Error, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		s.Outcome = Outcome(outcome)
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (r *SQLiteSubmissionRepository) Count(ctx context.Context, outcome Outcome) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads_submissions WHERE outcome = ?`, string(outcome),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// submissionMigrations defines the schema for leads_submissions.
var submissionMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create leads_submissions table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE leads_submissions (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL,
					company    TEXT NOT NULL,
					position   TEXT NOT NULL,
					email      TEXT NOT NULL,
					outcome    TEXT NOT NULL,
					record_id  TEXT NOT NULL DEFAULT '',
					reason     TEXT NOT NULL DEFAULT '',
					error      TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`CREATE INDEX idx_leads_submissions_created ON leads_submissions(created_at)`)
			return err
		},
	},
}
