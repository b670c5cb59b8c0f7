package repository

import (
	"context"
	"database/sql"

	"pass-accompagnement/backend/internal/audit/domain"
	"pass-accompagnement/backend/internal/db"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns an audit log repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// Create persists the audit log entry.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		INSERT INTO audit_log (acteur_id, acteur_type, action, cible_type, cible_id, resultat, details, date_action)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, '')::jsonb, $8)`,
		a.ActeurID, a.ActeurType, a.Action, a.CibleType, a.CibleID, a.Resultat, a.Details, a.DateAction)
	return err
}

// ListByActeur returns audit logs for the actor, newest first,
// paginated by limit and offset.
func (r *PostgresRepository) ListByActeur(ctx context.Context, acteurID string, limit, offset int) ([]*domain.AuditLog, error) {
	rows, err := db.From(ctx, r.conn).QueryContext(ctx, `
		SELECT id, acteur_id, acteur_type, action, COALESCE(cible_type, ''),
			COALESCE(cible_id, ''), resultat, COALESCE(details::text, ''), date_action
		FROM audit_log WHERE acteur_id = $1
		ORDER BY date_action DESC LIMIT $2 OFFSET $3`, acteurID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		if err := rows.Scan(&a.ID, &a.ActeurID, &a.ActeurType, &a.Action,
			&a.CibleType, &a.CibleID, &a.Resultat, &a.Details, &a.DateAction); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
