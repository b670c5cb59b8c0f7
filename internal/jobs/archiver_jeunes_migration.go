package jobs

import (
	"context"
	"log"
	"time"

	archivedomain "pass-accompagnement/backend/internal/archivejeune/domain"
	"pass-accompagnement/backend/internal/planificateur"
	"pass-accompagnement/backend/internal/suivijob"
)

// EligibleLister computes the ids of jeunes to migrate.
type EligibleLister interface {
	IdsBeneficiairesAMigrer(ctx context.Context) ([]string, error)
}

// Archiver archives one jeune.
type Archiver interface {
	Archive(ctx context.Context, idJeune, motif, commentaire string) error
}

// ArchiverJeunesMigrationJob archives every migration-eligible jeune.
type ArchiverJeunesMigrationJob struct {
	eligibles EligibleLister
	archiver  Archiver
	now       func() time.Time
}

// NewArchiverJeunesMigrationJob returns the job. now may be nil.
func NewArchiverJeunesMigrationJob(eligibles EligibleLister, archiver Archiver, now func() time.Time) *ArchiverJeunesMigrationJob {
	if now == nil {
		now = time.Now
	}
	return &ArchiverJeunesMigrationJob{eligibles: eligibles, archiver: archiver, now: now}
}

// Execute archives eligible jeunes sequentially with the fixed migration
// motif and commentaire. One jeune's failure is counted and does not abort
// the rest of the batch.
func (j *ArchiverJeunesMigrationJob) Execute(ctx context.Context) suivijob.Rapport {
	rapport := suivijob.Rapport{JobType: planificateur.JobArchiverJeunesMigration, DateDebut: j.now().UTC()}

	ids, err := j.eligibles.IdsBeneficiairesAMigrer(ctx)
	if err != nil {
		return echec(rapport, j.now, err)
	}

	for _, id := range ids {
		if err := j.archiver.Archive(ctx, id, archivedomain.MotifSuppressionMigration, archivedomain.CommentaireMigration); err != nil {
			log.Printf("jobs: archive jeune %s failed: %v", id, err)
			rapport.NbErreurs++
			continue
		}
		rapport.NbTraites++
	}

	rapport.Resultat = map[string]any{"nbEligibles": len(ids)}
	rapport.Succes = rapport.NbErreurs == 0
	rapport.DateFin = j.now().UTC()
	return rapport
}
