package domain

import (
	"time"

	"pass-accompagnement/backend/internal/core"
)

// Jeune is a beneficiary account. IDConseiller points at the current conseiller,
// IDConseillerInitial at the one who created the account; eligibility joins
// resolve through COALESCE(id_conseiller_initial, id_conseiller).
type Jeune struct {
	ID                    string
	Prenom                string
	Nom                   string
	Email                 string
	Structure             core.Structure
	Dispositif            core.Dispositif
	IDConseiller          string
	IDConseillerInitial   string
	IDAuthentification    string
	PushNotificationToken string
	DateCreation          time.Time
	DatePremiereConnexion *time.Time
}
