package domain

import (
	"time"

	"pass-accompagnement/backend/internal/core"
)

// Closed set of archival motifs; conseiller-initiated archival may also supply
// a free-form motif from the mobile app's list.
const (
	MotifSuppressionSupport   = "Support : demande de suppression du compte"
	MotifSuppressionMigration = "Archivage automatique suite à la migration du compte"
)

// Fixed comments attached to support and migration archivals.
const (
	CommentaireSuppressionSupport = "Pour des raisons techniques nous avons procédé à l'archivage de votre compte."
	CommentaireMigration          = "Compte archivé dans le cadre de la migration vers France Travail"
)

// Metadonnees is the immutable snapshot written once at archival time. The live
// jeune row is deleted right after.
type Metadonnees struct {
	IDJeune               string
	Email                 string
	Prenom                string
	Nom                   string
	Structure             core.Structure
	Dispositif            core.Dispositif
	DateCreation          time.Time
	DatePremiereConnexion *time.Time
	Motif                 string
	Commentaire           string
	DateArchivage         time.Time
}
