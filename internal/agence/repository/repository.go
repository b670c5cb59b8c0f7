package repository

import (
	"context"

	"pass-accompagnement/backend/internal/agence/domain"
	"pass-accompagnement/backend/internal/core"
)

// Repository defines persistence for agences.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Agence, error)
	// GetByIDAndStructure returns the agence only if it belongs to the given
	// structure; nil otherwise.
	GetByIDAndStructure(ctx context.Context, id string, structure core.Structure) (*domain.Agence, error)
}
