package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/featureflip/domain"
)

type memFeatureFlipRepo struct {
	beneficiaires map[string]*domain.BeneficiaireMigration
	conseillers   map[string]*domain.ConseillerMigration
	bulk          []domain.BeneficiaireMigration
}

func (r *memFeatureFlipRepo) BeneficiaireWithFeature(ctx context.Context, tag domain.Tag, idJeune string) (*domain.BeneficiaireMigration, error) {
	return r.beneficiaires[string(tag)+"/"+idJeune], nil
}

func (r *memFeatureFlipRepo) ConseillerWithFeature(ctx context.Context, tag domain.Tag, idConseiller string) (*domain.ConseillerMigration, error) {
	return r.conseillers[string(tag)+"/"+idConseiller], nil
}

func (r *memFeatureFlipRepo) BeneficiairesWithFeature(ctx context.Context, tag domain.Tag) ([]domain.BeneficiaireMigration, error) {
	return r.bulk, nil
}

func (r *memFeatureFlipRepo) BulkInsert(ctx context.Context, tag domain.Tag, emails []string) error {
	return nil
}

func (r *memFeatureFlipRepo) DeleteByTag(ctx context.Context, tag domain.Tag) error { return nil }

func (r *memFeatureFlipRepo) DeleteByTagAndEmails(ctx context.Context, tag domain.Tag, emails []string) error {
	return nil
}

func parisMidnight(t *testing.T, day string) *time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	d, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		t.Fatalf("ParseInLocation: %v", err)
	}
	return &d
}

func TestIsActive_NoRow(t *testing.T) {
	svc := NewFeatureFlipService(&memFeatureFlipRepo{
		beneficiaires: map[string]*domain.BeneficiaireMigration{},
		conseillers:   map[string]*domain.ConseillerMigration{},
	}, nil)

	active, err := svc.IsActive(context.Background(), domain.Tag("TAG_INCONNU"),
		core.UtilisateurFeature{ID: "j1", Type: core.UtilisateurJeune})
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Error("tag with no row must be inactive")
	}
}

func TestIsActive_Beneficiaire(t *testing.T) {
	repo := &memFeatureFlipRepo{
		beneficiaires: map[string]*domain.BeneficiaireMigration{
			"DEMARCHES_IA/j1": {ID: "j1", Structure: core.StructureMilo, StructureConseillerRattachement: core.StructureMilo},
		},
		conseillers: map[string]*domain.ConseillerMigration{},
	}
	svc := NewFeatureFlipService(repo, nil)

	active, err := svc.IsActive(context.Background(), domain.TagDemarchesIA,
		core.UtilisateurFeature{ID: "j1", Type: core.UtilisateurJeune})
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Error("flag row present, tag should be active regardless of structure")
	}
}

func TestIsActive_Conseiller(t *testing.T) {
	repo := &memFeatureFlipRepo{
		beneficiaires: map[string]*domain.BeneficiaireMigration{},
		conseillers: map[string]*domain.ConseillerMigration{
			"MIGRATION/c1": {ID: "c1", Structure: core.StructureMilo},
		},
	}
	svc := NewFeatureFlipService(repo, nil)

	active, err := svc.IsActive(context.Background(), domain.TagMigration,
		core.UtilisateurFeature{ID: "c1", Type: core.UtilisateurConseiller})
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Error("conseiller flag row present, tag should be active")
	}
}

func TestMigrationDateIfEligible_Beneficiaire(t *testing.T) {
	date := parisMidnight(t, "2025-11-20")
	cases := []struct {
		name     string
		row      *domain.BeneficiaireMigration
		wantDate bool
	}{
		{"eligible", &domain.BeneficiaireMigration{ID: "j1",
			Structure:                       core.StructurePoleEmploi,
			StructureConseillerRattachement: core.StructurePoleEmploi}, true},
		{"structure jeune non éligible", &domain.BeneficiaireMigration{ID: "j1",
			Structure:                       core.StructureMilo,
			StructureConseillerRattachement: core.StructurePoleEmploi}, false},
		{"structure rattachement non éligible", &domain.BeneficiaireMigration{ID: "j1",
			Structure:                       core.StructurePoleEmploi,
			StructureConseillerRattachement: core.StructureMilo}, false},
		{"pas de flag", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memFeatureFlipRepo{
				beneficiaires: map[string]*domain.BeneficiaireMigration{},
				conseillers:   map[string]*domain.ConseillerMigration{},
			}
			if tc.row != nil {
				repo.beneficiaires["MIGRATION/j1"] = tc.row
			}
			svc := NewFeatureFlipService(repo, date)
			got, err := svc.MigrationDateIfEligible(context.Background(),
				core.UtilisateurFeature{ID: "j1", Type: core.UtilisateurJeune})
			if err != nil {
				t.Fatalf("MigrationDateIfEligible: %v", err)
			}
			if tc.wantDate && (got == nil || !got.Equal(*date)) {
				t.Errorf("want %v, got %v", date, got)
			}
			if !tc.wantDate && got != nil {
				t.Errorf("want nil, got %v", got)
			}
		})
	}
}

func TestMigrationDateIfEligible_Conseiller(t *testing.T) {
	date := parisMidnight(t, "2025-11-20")
	repo := &memFeatureFlipRepo{
		beneficiaires: map[string]*domain.BeneficiaireMigration{},
		conseillers: map[string]*domain.ConseillerMigration{
			"MIGRATION/c1": {ID: "c1", Structure: core.StructurePoleEmploi},
			"MIGRATION/c2": {ID: "c2", Structure: core.StructureMilo},
		},
	}
	svc := NewFeatureFlipService(repo, date)

	got, err := svc.MigrationDateIfEligible(context.Background(),
		core.UtilisateurFeature{ID: "c1", Type: core.UtilisateurConseiller})
	if err != nil {
		t.Fatalf("MigrationDateIfEligible: %v", err)
	}
	if got == nil || !got.Equal(*date) {
		t.Errorf("eligible conseiller: want %v, got %v", date, got)
	}

	got, err = svc.MigrationDateIfEligible(context.Background(),
		core.UtilisateurFeature{ID: "c2", Type: core.UtilisateurConseiller})
	if err != nil {
		t.Fatalf("MigrationDateIfEligible: %v", err)
	}
	if got != nil {
		t.Errorf("non-eligible structure: want nil, got %v", got)
	}
}

func TestMigrationDateIfEligible_DateNonConfiguree(t *testing.T) {
	repo := &memFeatureFlipRepo{
		beneficiaires: map[string]*domain.BeneficiaireMigration{
			"MIGRATION/j1": {ID: "j1",
				Structure:                       core.StructurePoleEmploi,
				StructureConseillerRattachement: core.StructurePoleEmploi},
		},
		conseillers: map[string]*domain.ConseillerMigration{},
	}
	svc := NewFeatureFlipService(repo, nil)

	got, err := svc.MigrationDateIfEligible(context.Background(),
		core.UtilisateurFeature{ID: "j1", Type: core.UtilisateurJeune})
	if err != nil {
		t.Fatalf("MigrationDateIfEligible: %v", err)
	}
	if got != nil {
		t.Errorf("no configured date: want nil, got %v", got)
	}
}

func TestIdsBeneficiairesAMigrer(t *testing.T) {
	repo := &memFeatureFlipRepo{
		bulk: []domain.BeneficiaireMigration{
			{ID: "j1", Structure: core.StructurePoleEmploi, StructureConseillerRattachement: core.StructurePoleEmploi},
			{ID: "j2", Structure: core.StructureMilo, StructureConseillerRattachement: core.StructurePoleEmploi},
			{ID: "j3", Structure: core.StructurePoleEmploi, StructureConseillerRattachement: core.StructureMilo},
			{ID: "j4", Structure: core.StructurePoleEmploi, StructureConseillerRattachement: core.StructurePoleEmploi},
			{ID: "j1", Structure: core.StructurePoleEmploi, StructureConseillerRattachement: core.StructurePoleEmploi},
		},
	}
	svc := NewFeatureFlipService(repo, nil)

	ids, err := svc.IdsBeneficiairesAMigrer(context.Background())
	if err != nil {
		t.Fatalf("IdsBeneficiairesAMigrer: %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "j1" || ids[1] != "j4" {
		t.Errorf("ids éligibles: %v", ids)
	}
}
