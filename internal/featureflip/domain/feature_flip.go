package domain

import "pass-accompagnement/backend/internal/core"

// Tag names a feature flag. Flags target a conseiller email; a jeune follows
// the flag of its current-or-initial conseiller.
type Tag string

const (
	TagMigration   Tag = "MIGRATION"
	TagDemarchesIA Tag = "DEMARCHES_IA"
)

// BeneficiaireMigration is the eligibility projection for a jeune: its own
// structure and the structure of the conseiller it is attached to.
type BeneficiaireMigration struct {
	ID                              string
	Structure                       core.Structure
	StructureConseillerRattachement core.Structure
}

// EstEligible applies the migration rule: both the jeune's structure and the
// rattachement conseiller's structure must be the eligible one.
func (b BeneficiaireMigration) EstEligible() bool {
	return b.Structure == core.StructureMigrationEligible &&
		b.StructureConseillerRattachement == core.StructureMigrationEligible
}

// ConseillerMigration is the eligibility projection for a conseiller.
type ConseillerMigration struct {
	ID        string
	Structure core.Structure
}

// EstEligible applies the migration rule for conseillers: own structure only.
func (c ConseillerMigration) EstEligible() bool {
	return c.Structure == core.StructureMigrationEligible
}
