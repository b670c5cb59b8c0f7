package domain

import "time"

// AuditLog is one recorded support or conseiller command.
type AuditLog struct {
	ID         int64
	ActeurID   string
	ActeurType string
	Action     string
	CibleType  string
	CibleID    string
	Resultat   string
	Details    string
	DateAction time.Time
}

// Resultat values.
const (
	ResultatSucces = "SUCCES"
	ResultatEchec  = "ECHEC"
)
