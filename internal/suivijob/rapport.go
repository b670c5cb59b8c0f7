// Package suivijob emits job execution reports, best-effort, to Kafka and Loki.
package suivijob

import "time"

// Rapport is the outcome of one job invocation.
type Rapport struct {
	JobType   string         `json:"jobType"`
	Succes    bool           `json:"succes"`
	DateDebut time.Time      `json:"dateDebut"`
	DateFin   time.Time      `json:"dateFin"`
	NbTraites int            `json:"nbTraites"`
	NbErreurs int            `json:"nbErreurs"`
	Resultat  map[string]any `json:"resultat,omitempty"`
	Erreur    string         `json:"erreur,omitempty"`
}

// Duree returns the job's wall-clock duration.
func (r Rapport) Duree() time.Duration {
	return r.DateFin.Sub(r.DateDebut)
}
