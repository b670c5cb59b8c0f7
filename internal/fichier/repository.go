// Package fichier stores attachment metadata.
package fichier

import (
	"context"
	"database/sql"
	"time"

	"pass-accompagnement/backend/internal/db"
)

// Fichier is an attachment uploaded in the chat.
type Fichier struct {
	ID           string
	IDJeune      string
	Nom          string
	MimeType     string
	DateCreation time.Time
}

// Repository defines persistence for attachment metadata.
type Repository interface {
	// ListOlderThan returns non-deleted fichiers created before the limit.
	ListOlderThan(ctx context.Context, limit time.Time) ([]Fichier, error)
	// SoftDelete marks the fichier deleted.
	SoftDelete(ctx context.Context, id string) error
}

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a fichier repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// ListOlderThan returns non-deleted fichiers created before the limit.
func (r *PostgresRepository) ListOlderThan(ctx context.Context, limit time.Time) ([]Fichier, error) {
	rows, err := db.From(ctx, r.conn).QueryContext(ctx, `
		SELECT id, COALESCE(id_jeune, ''), nom, mime_type, date_creation
		FROM fichier
		WHERE date_suppression IS NULL AND date_creation < $1
		ORDER BY date_creation`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Fichier
	for rows.Next() {
		var f Fichier
		if err := rows.Scan(&f.ID, &f.IDJeune, &f.Nom, &f.MimeType, &f.DateCreation); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SoftDelete marks the fichier deleted.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx,
		`UPDATE fichier SET date_suppression = $2 WHERE id = $1 AND date_suppression IS NULL`,
		id, time.Now().UTC())
	return err
}
