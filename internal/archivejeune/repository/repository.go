package repository

import (
	"context"

	"pass-accompagnement/backend/internal/archivejeune/domain"
)

// Repository persists archive snapshots.
type Repository interface {
	Create(ctx context.Context, m *domain.Metadonnees) error
}
