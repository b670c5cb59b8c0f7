package repository

import (
	"context"
	"database/sql"

	"pass-accompagnement/backend/internal/archivejeune/domain"
	"pass-accompagnement/backend/internal/db"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns an archive repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// Create writes one archive snapshot. Snapshots are append-only.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Metadonnees) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		INSERT INTO archive_jeune (id_jeune, email, prenom, nom, structure, dispositif,
			date_creation, date_premiere_connexion, motif, commentaire, date_archivage)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`,
		m.IDJeune, m.Email, m.Prenom, m.Nom, string(m.Structure), string(m.Dispositif),
		m.DateCreation, m.DatePremiereConnexion, m.Motif, m.Commentaire, m.DateArchivage)
	return err
}
