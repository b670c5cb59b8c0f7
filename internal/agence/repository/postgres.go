package repository

import (
	"context"
	"database/sql"
	"errors"

	"pass-accompagnement/backend/internal/agence/domain"
	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/db"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns an agence repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// GetByID returns the agence for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Agence, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx, `
		SELECT id, nom, structure, COALESCE(code_departement, ''), timezone
		FROM agence WHERE id = $1`, id)
	return scanAgence(row)
}

// GetByIDAndStructure returns the agence only if it belongs to the structure; nil otherwise.
func (r *PostgresRepository) GetByIDAndStructure(ctx context.Context, id string, structure core.Structure) (*domain.Agence, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx, `
		SELECT id, nom, structure, COALESCE(code_departement, ''), timezone
		FROM agence WHERE id = $1 AND structure = $2`, id, string(structure))
	return scanAgence(row)
}

func scanAgence(row *sql.Row) (*domain.Agence, error) {
	var a domain.Agence
	var structure string
	err := row.Scan(&a.ID, &a.Nom, &structure, &a.CodeDepartement, &a.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Structure = core.Structure(structure)
	return &a, nil
}
