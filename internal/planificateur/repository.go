package planificateur

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pass-accompagnement/backend/internal/db"
)

// Repository defines persistence for scheduled jobs.
type Repository interface {
	// Add durably schedules one invocation.
	Add(ctx context.Context, jobType string, dateExecution time.Time, contenu interface{}) error
	// TakeDue removes and returns jobs due at now, oldest first.
	TakeDue(ctx context.Context, now time.Time, limit int) ([]ScheduledJob, error)
}

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a scheduled-job repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// Add durably schedules one invocation. contenu is stored as JSON.
func (r *PostgresRepository) Add(ctx context.Context, jobType string, dateExecution time.Time, contenu interface{}) error {
	raw, err := json.Marshal(contenu)
	if err != nil {
		return err
	}
	_, err = db.From(ctx, r.conn).ExecContext(ctx, `
		INSERT INTO scheduled_job (type, date_execution, contenu)
		VALUES ($1, $2, $3)`, jobType, dateExecution.UTC(), raw)
	return err
}

// TakeDue removes and returns jobs due at now, oldest first. Deletion and read
// happen in one statement so two workers never take the same job.
func (r *PostgresRepository) TakeDue(ctx context.Context, now time.Time, limit int) ([]ScheduledJob, error) {
	rows, err := db.From(ctx, r.conn).QueryContext(ctx, `
		DELETE FROM scheduled_job
		WHERE id IN (
			SELECT id FROM scheduled_job
			WHERE date_execution <= $1
			ORDER BY date_execution
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, type, date_execution, contenu`, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScheduledJob
	for rows.Next() {
		var j ScheduledJob
		var raw []byte
		if err := rows.Scan(&j.ID, &j.Type, &j.DateExecution, &raw); err != nil {
			return nil, err
		}
		j.Contenu = json.RawMessage(raw)
		out = append(out, j)
	}
	return out, rows.Err()
}
