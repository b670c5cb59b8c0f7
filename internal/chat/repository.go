// Package chat stores the jeune/conseiller message history.
package chat

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"pass-accompagnement/backend/internal/db"
)

// Repository defines persistence for chat messages.
type Repository interface {
	// DeleteByJeune wipes the whole history of a jeune.
	DeleteByJeune(ctx context.Context, idJeune string) error
	// AddStatutMessage appends a system status message to the jeune's history,
	// e.g. when an attachment expires.
	AddStatutMessage(ctx context.Context, idJeune, contenu string) error
}

type PostgresRepository struct {
	conn *sql.DB
}

// NewPostgresRepository returns a chat repository backed by the given db.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// DeleteByJeune wipes the whole history of a jeune.
func (r *PostgresRepository) DeleteByJeune(ctx context.Context, idJeune string) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx,
		`DELETE FROM chat_message WHERE id_jeune = $1`, idJeune)
	return err
}

// AddStatutMessage appends a system status message to the jeune's history.
func (r *PostgresRepository) AddStatutMessage(ctx context.Context, idJeune, contenu string) error {
	_, err := db.From(ctx, r.conn).ExecContext(ctx, `
		INSERT INTO chat_message (id, id_jeune, contenu, date_envoi)
		VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), idJeune, contenu, time.Now().UTC())
	return err
}
