package repository

import (
	"context"

	"pass-accompagnement/backend/internal/featureflip/domain"
)

// Repository defines the feature-flip queries and support mutations.
//
// Eligibility queries resolve a jeune to a conseiller email through
// COALESCE(id_conseiller_initial, id_conseiller) and match that email against
// the flag rows of a tag. They are read-only and return nil when no row matches.
type Repository interface {
	BeneficiaireWithFeature(ctx context.Context, tag domain.Tag, idJeune string) (*domain.BeneficiaireMigration, error)
	ConseillerWithFeature(ctx context.Context, tag domain.Tag, idConseiller string) (*domain.ConseillerMigration, error)
	BeneficiairesWithFeature(ctx context.Context, tag domain.Tag) ([]domain.BeneficiaireMigration, error)

	// BulkInsert adds one flag row per email, suppressing duplicates. Inserting
	// an already-present (tag, email) pair is a no-op.
	BulkInsert(ctx context.Context, tag domain.Tag, emails []string) error
	DeleteByTag(ctx context.Context, tag domain.Tag) error
	DeleteByTagAndEmails(ctx context.Context, tag domain.Tag, emails []string) error
}
