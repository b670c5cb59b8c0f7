package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/db"
	"pass-accompagnement/backend/internal/featureflip/domain"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a feature-flip repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// BeneficiaireWithFeature returns the eligibility projection for the jeune if a
// flag row for tag matches its current-or-initial conseiller's email; nil otherwise.
func (r *PostgresRepository) BeneficiaireWithFeature(ctx context.Context, tag domain.Tag, idJeune string) (*domain.BeneficiaireMigration, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx, `
		SELECT j.id, j.structure, c.structure
		FROM jeune j
		JOIN conseiller c ON c.id = COALESCE(j.id_conseiller_initial, j.id_conseiller)
		JOIN feature_flip ff ON ff.email_conseiller = c.email
		WHERE ff.feature_tag = $1 AND j.id = $2`, string(tag), idJeune)
	var b domain.BeneficiaireMigration
	var structure, structureRattachement string
	if err := row.Scan(&b.ID, &structure, &structureRattachement); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	b.Structure = core.Structure(structure)
	b.StructureConseillerRattachement = core.Structure(structureRattachement)
	return &b, nil
}

// ConseillerWithFeature returns the eligibility projection for the conseiller if
// a flag row for tag matches its email directly; nil otherwise.
func (r *PostgresRepository) ConseillerWithFeature(ctx context.Context, tag domain.Tag, idConseiller string) (*domain.ConseillerMigration, error) {
	row := db.From(ctx, r.conn).QueryRowContext(ctx, `
		SELECT c.id, c.structure
		FROM conseiller c
		JOIN feature_flip ff ON ff.email_conseiller = c.email
		WHERE ff.feature_tag = $1 AND c.id = $2`, string(tag), idConseiller)
	var c domain.ConseillerMigration
	var structure string
	if err := row.Scan(&c.ID, &structure); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Structure = core.Structure(structure)
	return &c, nil
}

// BeneficiairesWithFeature returns one projection per jeune whose resolved
// conseiller carries a flag row for tag.
func (r *PostgresRepository) BeneficiairesWithFeature(ctx context.Context, tag domain.Tag) ([]domain.BeneficiaireMigration, error) {
	rows, err := db.From(ctx, r.conn).QueryContext(ctx, `
		SELECT j.id, j.structure, c.structure
		FROM jeune j
		JOIN conseiller c ON c.id = COALESCE(j.id_conseiller_initial, j.id_conseiller)
		JOIN feature_flip ff ON ff.email_conseiller = c.email
		WHERE ff.feature_tag = $1`, string(tag))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.BeneficiaireMigration
	for rows.Next() {
		var b domain.BeneficiaireMigration
		var structure, structureRattachement string
		if err := rows.Scan(&b.ID, &structure, &structureRattachement); err != nil {
			return nil, err
		}
		b.Structure = core.Structure(structure)
		b.StructureConseillerRattachement = core.Structure(structureRattachement)
		out = append(out, b)
	}
	return out, rows.Err()
}

// BulkInsert adds one flag row per email, deduplicating the input and relying
// on the (feature_tag, email_conseiller) unique index for rows already present.
func (r *PostgresRepository) BulkInsert(ctx context.Context, tag domain.Tag, emails []string) error {
	deduped := dedupEmails(emails)
	if len(deduped) == 0 {
		return nil
	}
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		INSERT INTO feature_flip (feature_tag, email_conseiller)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (feature_tag, email_conseiller) DO NOTHING`,
		string(tag), pq.Array(deduped))
	return err
}

// DeleteByTag removes every flag row of the tag.
func (r *PostgresRepository) DeleteByTag(ctx context.Context, tag domain.Tag) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx,
		`DELETE FROM feature_flip WHERE feature_tag = $1`, string(tag))
	return err
}

// DeleteByTagAndEmails removes the flag rows of the tag for the given emails.
func (r *PostgresRepository) DeleteByTagAndEmails(ctx context.Context, tag domain.Tag, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		DELETE FROM feature_flip
		WHERE feature_tag = $1 AND email_conseiller = ANY($2)`,
		string(tag), pq.Array(dedupEmails(emails)))
	return err
}

func dedupEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
