package domain

import (
	"time"

	"pass-accompagnement/backend/internal/core"
)

// Conseiller is a counselor account. A conseiller belongs to at most one agence.
type Conseiller struct {
	ID                    string
	Prenom                string
	Nom                   string
	Email                 string
	Structure             core.Structure
	IDAgence              string
	DateCreation          time.Time
	DateDerniereConnexion *time.Time
}

// Contact is the projection pushed to the per-structure mailing lists.
type Contact struct {
	Prenom string
	Nom    string
	Email  string
}
