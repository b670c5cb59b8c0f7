package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"pass-accompagnement/backend/internal/animationcollective/domain"
	"pass-accompagnement/backend/internal/db"
)

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns an animation-collective repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// ListByAgenceAvecSupprimes returns every session of the agence, soft-deleted
// included, with inscriptions loaded.
func (r *PostgresRepository) ListByAgenceAvecSupprimes(ctx context.Context, idAgence string) ([]*domain.AnimationCollective, error) {
	q := db.From(ctx, r.conn)
	rows, err := q.QueryContext(ctx, `
		SELECT id, titre, id_agence, id_conseiller_createur,
			date_debut, date_fin, date_cloture, date_suppression
		FROM animation_collective WHERE id_agence = $1 ORDER BY id`, idAgence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AnimationCollective
	byID := map[string]*domain.AnimationCollective{}
	for rows.Next() {
		var ac domain.AnimationCollective
		var cloture, suppression sql.NullTime
		if err := rows.Scan(&ac.ID, &ac.Titre, &ac.IDAgence, &ac.IDConseillerCreateur,
			&ac.DateDebut, &ac.DateFin, &cloture, &suppression); err != nil {
			return nil, err
		}
		if cloture.Valid {
			t := cloture.Time
			ac.DateCloture = &t
		}
		if suppression.Valid {
			t := suppression.Time
			ac.DateSuppression = &t
		}
		out = append(out, &ac)
		byID[ac.ID] = &ac
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i, ac := range out {
		ids[i] = ac.ID
	}
	inscrits, err := q.QueryContext(ctx, `
		SELECT acj.id_animation_collective, j.id, j.prenom, j.nom, COALESCE(j.id_conseiller, '')
		FROM animation_collective_jeune acj
		JOIN jeune j ON j.id = acj.id_jeune
		WHERE acj.id_animation_collective = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer inscrits.Close()
	for inscrits.Next() {
		var idAC string
		var i domain.Inscrit
		if err := inscrits.Scan(&idAC, &i.IDJeune, &i.Prenom, &i.Nom, &i.IDConseiller); err != nil {
			return nil, err
		}
		if ac, ok := byID[idAC]; ok {
			ac.Inscrits = append(ac.Inscrits, i)
		}
	}
	return out, inscrits.Err()
}

// UpdateAgence moves the session to another agence.
func (r *PostgresRepository) UpdateAgence(ctx context.Context, idAnimationCollective, idAgence string) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx,
		`UPDATE animation_collective SET id_agence = $2 WHERE id = $1`,
		idAnimationCollective, idAgence)
	return err
}

// DesinscrireJeunes removes the given jeunes from the session.
func (r *PostgresRepository) DesinscrireJeunes(ctx context.Context, idAnimationCollective string, idsJeunes []string) error {
	if len(idsJeunes) == 0 {
		return nil
	}
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		DELETE FROM animation_collective_jeune
		WHERE id_animation_collective = $1 AND id_jeune = ANY($2)`,
		idAnimationCollective, pq.Array(idsJeunes))
	return err
}
