package repository

import (
	"context"

	"pass-accompagnement/backend/internal/animationcollective/domain"
)

// Repository defines persistence for animations collectives.
type Repository interface {
	// ListByAgenceAvecSupprimes returns every session of the agence, soft-deleted
	// included, with inscriptions loaded.
	ListByAgenceAvecSupprimes(ctx context.Context, idAgence string) ([]*domain.AnimationCollective, error)
	UpdateAgence(ctx context.Context, idAnimationCollective, idAgence string) error
	DesinscrireJeunes(ctx context.Context, idAnimationCollective string, idsJeunes []string) error
}
