package service

import (
	"context"
	"fmt"
	"time"

	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/featureflip/domain"
	"pass-accompagnement/backend/internal/featureflip/repository"
)

// FeatureFlipService resolves feature activation and migration eligibility.
//
// The migration date is read once at construction; when unconfigured, date
// lookups return nil regardless of flag state. Eligibility is always recomputed
// from the current flag rows and conseiller graph, never stored.
type FeatureFlipService struct {
	repo          repository.Repository
	migrationDate *time.Time
}

// NewFeatureFlipService returns a FeatureFlipService. migrationDate may be nil.
func NewFeatureFlipService(repo repository.Repository, migrationDate *time.Time) *FeatureFlipService {
	return &FeatureFlipService{repo: repo, migrationDate: migrationDate}
}

// IsActive reports whether the tag is active for the utilisateur: any flag row
// found through the type-matched lookup. An unknown tag simply finds no row and
// yields false, never an error.
func (s *FeatureFlipService) IsActive(ctx context.Context, tag domain.Tag, utilisateur core.UtilisateurFeature) (bool, error) {
	switch utilisateur.Type {
	case core.UtilisateurJeune:
		b, err := s.repo.BeneficiaireWithFeature(ctx, tag, utilisateur.ID)
		if err != nil {
			return false, err
		}
		return b != nil, nil
	case core.UtilisateurConseiller:
		c, err := s.repo.ConseillerWithFeature(ctx, tag, utilisateur.ID)
		if err != nil {
			return false, err
		}
		return c != nil, nil
	default:
		return false, fmt.Errorf("type utilisateur %q: %w", utilisateur.Type, core.ErrDroitsInsuffisants)
	}
}

// MigrationDateIfEligible returns the configured migration date when the
// utilisateur carries the MIGRATION flag and passes the structure rule, nil
// otherwise. A missing configured date yields nil even when the flag is active.
func (s *FeatureFlipService) MigrationDateIfEligible(ctx context.Context, utilisateur core.UtilisateurFeature) (*time.Time, error) {
	if s.migrationDate == nil {
		return nil, nil
	}
	switch utilisateur.Type {
	case core.UtilisateurJeune:
		b, err := s.repo.BeneficiaireWithFeature(ctx, domain.TagMigration, utilisateur.ID)
		if err != nil {
			return nil, err
		}
		if b == nil || !b.EstEligible() {
			return nil, nil
		}
	case core.UtilisateurConseiller:
		c, err := s.repo.ConseillerWithFeature(ctx, domain.TagMigration, utilisateur.ID)
		if err != nil {
			return nil, err
		}
		if c == nil || !c.EstEligible() {
			return nil, nil
		}
	default:
		return nil, nil
	}
	d := *s.migrationDate
	return &d, nil
}

// IdsBeneficiairesAMigrer returns the ids of every jeune eligible for
// migration. Set semantics: no duplicates, no ordering guarantee.
func (s *FeatureFlipService) IdsBeneficiairesAMigrer(ctx context.Context) ([]string, error) {
	beneficiaires, err := s.repo.BeneficiairesWithFeature(ctx, domain.TagMigration)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(beneficiaires))
	ids := make([]string, 0, len(beneficiaires))
	for _, b := range beneficiaires {
		if !b.EstEligible() || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		ids = append(ids, b.ID)
	}
	return ids, nil
}
