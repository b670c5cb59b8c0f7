package repository

import (
	"context"

	"pass-accompagnement/backend/internal/conseiller/domain"
	"pass-accompagnement/backend/internal/core"
)

// Repository defines persistence for conseillers.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Conseiller, error)
	ListByAgence(ctx context.Context, idAgence string) ([]*domain.Conseiller, error)
	UpdateAgence(ctx context.Context, idConseiller, idAgence string) error
	// ContactsByStructure returns mailing-list contacts for every conseiller of
	// the structure that has an email.
	ContactsByStructure(ctx context.Context, structure core.Structure) ([]domain.Contact, error)
	// CountSansEmail counts conseillers of the structure with no email on file.
	CountSansEmail(ctx context.Context, structure core.Structure) (int, error)
}
