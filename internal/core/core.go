// Package core holds the organizational vocabulary shared by every feature:
// partner structures, accompaniment dispositifs, and the caller reference used
// for feature-flag lookups.
package core

// Structure is the partner network an account is affiliated with.
type Structure string

const (
	StructurePoleEmploi               Structure = "POLE_EMPLOI"
	StructureMilo                     Structure = "MILO"
	StructurePoleEmploiBRSA           Structure = "POLE_EMPLOI_BRSA"
	StructurePoleEmploiAIJ            Structure = "POLE_EMPLOI_AIJ"
	StructureConseilDept              Structure = "CONSEIL_DEPT"
	StructureAvenirPro                Structure = "AVENIR_PRO"
	StructureFTAccompagnementIntensif Structure = "FT_ACCOMPAGNEMENT_INTENSIF"
	StructureFTAccompagnementGlobal   Structure = "FT_ACCOMPAGNEMENT_GLOBAL"
	StructureFTEquipEmploiRecrut      Structure = "FT_EQUIP_EMPLOI_RECRUT"
)

// StructureMigrationEligible is the one structure whose accounts can migrate
// to the new platform. Eligibility is always recomputed against this constant,
// never stored.
const StructureMigrationEligible = StructurePoleEmploi

// Structures lists every known structure, in a stable order.
func Structures() []Structure {
	return []Structure{
		StructurePoleEmploi,
		StructureMilo,
		StructurePoleEmploiBRSA,
		StructurePoleEmploiAIJ,
		StructureConseilDept,
		StructureAvenirPro,
		StructureFTAccompagnementIntensif,
		StructureFTAccompagnementGlobal,
		StructureFTEquipEmploiRecrut,
	}
}

// Valid reports whether s is a known structure.
func (s Structure) Valid() bool {
	for _, known := range Structures() {
		if s == known {
			return true
		}
	}
	return false
}

// Dispositif is the accompaniment scheme a jeune is enrolled in.
type Dispositif string

const (
	DispositifCEJ   Dispositif = "CEJ"
	DispositifPACEA Dispositif = "PACEA"
)

// UtilisateurType discriminates the kind of account behind a request.
type UtilisateurType string

const (
	UtilisateurJeune      UtilisateurType = "JEUNE"
	UtilisateurConseiller UtilisateurType = "CONSEILLER"
	UtilisateurSupport    UtilisateurType = "SUPPORT"
)

// UtilisateurFeature identifies the subject of a feature-flag lookup.
// It is built per request at the boundary and never persisted.
type UtilisateurFeature struct {
	ID   string
	Type UtilisateurType
}
