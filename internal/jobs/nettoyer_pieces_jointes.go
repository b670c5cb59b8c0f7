package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"pass-accompagnement/backend/internal/fichier"
	"pass-accompagnement/backend/internal/planificateur"
	"pass-accompagnement/backend/internal/suivijob"
)

// Attachments older than this are expired.
const ageMaxPiecesJointes = 4 * 30 * 24 * time.Hour

// FichierRepo is the subset of the fichier repository used by the cleanup job.
type FichierRepo interface {
	ListOlderThan(ctx context.Context, limit time.Time) ([]fichier.Fichier, error)
	SoftDelete(ctx context.Context, id string) error
}

// ChatStatut appends an expiry status message to the owner's chat.
type ChatStatut interface {
	AddStatutMessage(ctx context.Context, idJeune, contenu string) error
}

// NettoyerPiecesJointesJob expires attachments older than four months.
type NettoyerPiecesJointesJob struct {
	fichiers FichierRepo
	chat     ChatStatut
	now      func() time.Time
}

// NewNettoyerPiecesJointesJob returns the job. now may be nil.
func NewNettoyerPiecesJointesJob(fichiers FichierRepo, chat ChatStatut, now func() time.Time) *NettoyerPiecesJointesJob {
	if now == nil {
		now = time.Now
	}
	return &NettoyerPiecesJointesJob{fichiers: fichiers, chat: chat, now: now}
}

// Execute soft-deletes expired fichiers and notifies the owner's chat.
// Per-file failures are counted and do not stop the rest.
func (j *NettoyerPiecesJointesJob) Execute(ctx context.Context) suivijob.Rapport {
	rapport := suivijob.Rapport{JobType: planificateur.JobNettoyerPiecesJointes, DateDebut: j.now().UTC()}

	limite := j.now().Add(-ageMaxPiecesJointes)
	expires, err := j.fichiers.ListOlderThan(ctx, limite)
	if err != nil {
		return echec(rapport, j.now, err)
	}

	for _, f := range expires {
		if err := j.fichiers.SoftDelete(ctx, f.ID); err != nil {
			log.Printf("jobs: delete fichier %s failed: %v", f.ID, err)
			rapport.NbErreurs++
			continue
		}
		if f.IDJeune != "" {
			statut := fmt.Sprintf("La pièce jointe %s a expiré et a été supprimée", f.Nom)
			if err := j.chat.AddStatutMessage(ctx, f.IDJeune, statut); err != nil {
				log.Printf("jobs: statut fichier %s failed: %v", f.ID, err)
				rapport.NbErreurs++
				continue
			}
		}
		rapport.NbTraites++
	}

	rapport.Succes = rapport.NbErreurs == 0
	rapport.DateFin = j.now().UTC()
	return rapport
}
