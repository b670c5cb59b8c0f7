package domain

import "time"

// AnimationCollective is a group session hosted by an agence. DateSuppression
// marks soft deletion; deleted sessions still carry inscriptions that need
// bookkeeping during an agency transfer.
type AnimationCollective struct {
	ID                   string
	Titre                string
	IDAgence             string
	IDConseillerCreateur string
	DateDebut            time.Time
	DateFin              time.Time
	DateCloture          *time.Time
	DateSuppression      *time.Time
	Inscrits             []Inscrit
}

// Inscrit is a beneficiary enrolled in a session, with the conseiller they
// currently belong to.
type Inscrit struct {
	IDJeune      string
	Prenom       string
	Nom          string
	IDConseiller string
}
