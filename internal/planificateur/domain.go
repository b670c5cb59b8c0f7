// Package planificateur schedules delayed jobs and computes business-hour slots.
package planificateur

import (
	"encoding/json"
	"time"
)

// Job types known to the worker.
const (
	JobNotifierBeneficiaires   = "NOTIFIER_BENEFICIAIRES"
	JobMajMailingLists         = "MAJ_MAILING_LISTS"
	JobNettoyerPiecesJointes   = "NETTOYER_PIECES_JOINTES"
	JobArchiverJeunesMigration = "ARCHIVER_JEUNES_MIGRATION"
)

// ScheduledJob is one durably scheduled invocation.
type ScheduledJob struct {
	ID            int64
	Type          string
	DateExecution time.Time
	Contenu       json.RawMessage
}

// Cursor resumes a paginated batch job across invocations. The job processes
// one page, then re-enqueues itself with the advanced cursor.
type Cursor struct {
	TaillePopulationTotale int `json:"taillePopulationTotale"`
	NbTraites              int `json:"nbTraites"`
	Offset                 int `json:"offset"`
	BatchSize              int `json:"batchSize"`
}

// Avance returns the cursor advanced past a page of n processed records.
func (c Cursor) Avance(n int) Cursor {
	c.NbTraites += n
	c.Offset += c.BatchSize
	return c
}

// Termine reports whether the whole population has been processed.
func (c Cursor) Termine() bool {
	return c.Offset >= c.TaillePopulationTotale
}

// DefaultBatchSize is a quarter of the population, at least 1.
func DefaultBatchSize(population int) int {
	size := population / 4
	if size < 1 {
		size = 1
	}
	return size
}
