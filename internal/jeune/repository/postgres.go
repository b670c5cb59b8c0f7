package repository

import (
	"context"
	"database/sql"
	"errors"

	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/db"
	"pass-accompagnement/backend/internal/jeune/domain"
)

const jeuneColumns = `id, prenom, nom, COALESCE(email, ''), structure, dispositif,
	COALESCE(id_conseiller, ''), COALESCE(id_conseiller_initial, ''),
	COALESCE(id_authentification, ''), COALESCE(push_notification_token, ''),
	date_creation, date_premiere_connexion`

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a jeune repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// GetByID returns the jeune for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Jeune, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx,
		`SELECT `+jeuneColumns+` FROM jeune WHERE id = $1`, id)
	return scanJeune(row)
}

// GetByEmail returns the jeune for email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Jeune, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx,
		`SELECT `+jeuneColumns+` FROM jeune WHERE email = $1`, email)
	return scanJeune(row)
}

// Create persists the jeune. The jeune must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, j *domain.Jeune) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		INSERT INTO jeune (id, prenom, nom, email, structure, dispositif,
			id_conseiller, id_conseiller_initial, id_authentification,
			push_notification_token, date_creation, date_premiere_connexion)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6,
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''),
			NULLIF($10, ''), $11, $12)`,
		j.ID, j.Prenom, j.Nom, j.Email, string(j.Structure), string(j.Dispositif),
		j.IDConseiller, j.IDConseillerInitial, j.IDAuthentification,
		j.PushNotificationToken, j.DateCreation, j.DatePremiereConnexion)
	return err
}

// Delete removes the jeune row and its animation-collective inscriptions.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	q := db.From(ctx, r.conn)
	if _, err := q.ExecContext(ctx,
		`DELETE FROM animation_collective_jeune WHERE id_jeune = $1`, id); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `DELETE FROM jeune WHERE id = $1`, id)
	return err
}

// CountWithPushToken counts jeunes holding a push token, optionally filtered by structure.
func (r *PostgresRepository) CountWithPushToken(ctx context.Context, structure *core.Structure) (int, error) {
	query := `SELECT count(*) FROM jeune WHERE push_notification_token IS NOT NULL`
	args := []interface{}{}
	if structure != nil {
		query += ` AND structure = $1`
		args = append(args, string(*structure))
	}
	var n int
	if err := db.From(ctx, r.conn).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListWithPushToken pages jeunes holding a push token, ordered by id so that a
// resumable offset cursor sees a stable sequence.
func (r *PostgresRepository) ListWithPushToken(ctx context.Context, structure *core.Structure, limit, offset int) ([]*domain.Jeune, error) {
	query := `SELECT ` + jeuneColumns + ` FROM jeune WHERE push_notification_token IS NOT NULL`
	args := []interface{}{}
	if structure != nil {
		query += ` AND structure = $1`
		args = append(args, string(*structure))
	}
	query += ` ORDER BY id`
	args = append(args, limit, offset)
	if structure != nil {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	rows, err := db.From(ctx, r.conn).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Jeune
	for rows.Next() {
		j, err := scanJeuneRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJeuneRow(row rowScanner) (*domain.Jeune, error) {
	var j domain.Jeune
	var structure, dispositif string
	var premiereConnexion sql.NullTime
	err := row.Scan(&j.ID, &j.Prenom, &j.Nom, &j.Email, &structure, &dispositif,
		&j.IDConseiller, &j.IDConseillerInitial, &j.IDAuthentification,
		&j.PushNotificationToken, &j.DateCreation, &premiereConnexion)
	if err != nil {
		return nil, err
	}
	j.Structure = core.Structure(structure)
	j.Dispositif = core.Dispositif(dispositif)
	if premiereConnexion.Valid {
		t := premiereConnexion.Time
		j.DatePremiereConnexion = &t
	}
	return &j, nil
}

func scanJeune(row *sql.Row) (*domain.Jeune, error) {
	j, err := scanJeuneRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return j, nil
}
