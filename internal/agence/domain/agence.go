package domain

import "pass-accompagnement/backend/internal/core"

// Agence is a local agency of one partner network.
type Agence struct {
	ID              string
	Nom             string
	Structure       core.Structure
	CodeDepartement string
	Timezone        string
}

// Transfer outcome labels surfaced in the support report.
const (
	AgenceTransfereeOui = "OUI (le conseiller était créateur)"
	AgenceTransfereeNon = "NON (le conseiller n'était pas le créateur)"
)

// JeuneDesinscrit identifies a beneficiary unenrolled from a session during a transfer.
type JeuneDesinscrit struct {
	ID     string `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
}

// InfoTransfert is the per-session outcome of an agency transfer.
type InfoTransfert struct {
	IDAnimationCollective string            `json:"idAnimationCollective"`
	Titre                 string            `json:"titre"`
	AgenceTransferee      string            `json:"agenceTransferee"`
	JeunesDesinscrits     []JeuneDesinscrit `json:"jeunesDesinscrits"`
}

// ChangementAgence is the report returned after a conseiller changed agence.
type ChangementAgence struct {
	EmailConseiller  string          `json:"emailConseiller"`
	IDAncienneAgence string          `json:"idAncienneAgence"`
	IDNouvelleAgence string          `json:"idNouvelleAgence"`
	InfosTransfert   []InfoTransfert `json:"infosTransfertAnimationsCollectives"`
}

// FusionAgences is the report returned after merging two agences' conseillers.
type FusionAgences struct {
	IDAgenceSource      string             `json:"idAgenceSource"`
	IDAgenceCible       string             `json:"idAgenceCible"`
	ConseillersDeplaces []ChangementAgence `json:"conseillersDeplaces"`
	Echecs              []string           `json:"echecs"`
}
