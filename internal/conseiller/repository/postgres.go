package repository

import (
	"context"
	"database/sql"
	"errors"

	"pass-accompagnement/backend/internal/conseiller/domain"
	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/db"
)

const conseillerColumns = `id, prenom, nom, COALESCE(email, ''), structure,
	COALESCE(id_agence, ''), date_creation, date_derniere_connexion`

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a conseiller repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// GetByID returns the conseiller for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Conseiller, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx,
		`SELECT `+conseillerColumns+` FROM conseiller WHERE id = $1`, id)
	return scanConseiller(row)
}

// ListByAgence returns every conseiller of the agence, ordered by id.
func (r *PostgresRepository) ListByAgence(ctx context.Context, idAgence string) ([]*domain.Conseiller, error) {
	rows, err := db.From(ctx, r.conn).QueryContext(ctx,
		`SELECT `+conseillerColumns+` FROM conseiller WHERE id_agence = $1 ORDER BY id`, idAgence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Conseiller
	for rows.Next() {
		c, err := scanConseillerRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateAgence moves the conseiller to the given agence.
func (r *PostgresRepository) UpdateAgence(ctx context.Context, idConseiller, idAgence string) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx,
		`UPDATE conseiller SET id_agence = $2 WHERE id = $1`, idConseiller, idAgence)
	return err
}

// ContactsByStructure returns mailing-list contacts for conseillers of the structure with an email.
func (r *PostgresRepository) ContactsByStructure(ctx context.Context, structure core.Structure) ([]domain.Contact, error) {
	rows, err := db.From(ctx, r.conn).QueryContext(ctx,
		`SELECT prenom, nom, email FROM conseiller WHERE structure = $1 AND email IS NOT NULL ORDER BY email`,
		string(structure))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.Prenom, &c.Nom, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountSansEmail counts conseillers of the structure with no email on file.
func (r *PostgresRepository) CountSansEmail(ctx context.Context, structure core.Structure) (int, error) {
	var n int
	err := db.From(ctx, r.conn).QueryRowContext(ctx,
		`SELECT count(*) FROM conseiller WHERE structure = $1 AND email IS NULL`,
		string(structure)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func scanConseillerRow(row interface{ Scan(dest ...interface{}) error }) (*domain.Conseiller, error) {
	var c domain.Conseiller
	var structure string
	var derniereConnexion sql.NullTime
	err := row.Scan(&c.ID, &c.Prenom, &c.Nom, &c.Email, &structure,
		&c.IDAgence, &c.DateCreation, &derniereConnexion)
	if err != nil {
		return nil, err
	}
	c.Structure = core.Structure(structure)
	if derniereConnexion.Valid {
		t := derniereConnexion.Time
		c.DateDerniereConnexion = &t
	}
	return &c, nil
}

func scanConseiller(row *sql.Row) (*domain.Conseiller, error) {
	c, err := scanConseillerRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
