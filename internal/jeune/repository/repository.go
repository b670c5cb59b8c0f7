package repository

import (
	"context"

	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/jeune/domain"
)

// Repository defines persistence for jeunes.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Jeune, error)
	GetByEmail(ctx context.Context, email string) (*domain.Jeune, error)
	Create(ctx context.Context, j *domain.Jeune) error
	Delete(ctx context.Context, id string) error
	// CountWithPushToken counts jeunes holding a push token, optionally filtered
	// by structure (nil for all).
	CountWithPushToken(ctx context.Context, structure *core.Structure) (int, error)
	// ListWithPushToken pages jeunes holding a push token, ordered by id.
	ListWithPushToken(ctx context.Context, structure *core.Structure, limit, offset int) ([]*domain.Jeune, error)
}
