package jobs

import (
	"context"
	"log"
	"time"

	conseillerdomain "pass-accompagnement/backend/internal/conseiller/domain"
	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/planificateur"
	"pass-accompagnement/backend/internal/suivijob"
)

// ConseillerContacts is the subset of the conseiller repository used by the
// mailing-list job.
type ConseillerContacts interface {
	ContactsByStructure(ctx context.Context, structure core.Structure) ([]conseillerdomain.Contact, error)
	CountSansEmail(ctx context.Context, structure core.Structure) (int, error)
}

// MailingListReplacer replaces the contacts of one Brevo list.
type MailingListReplacer interface {
	ReplaceMailingList(ctx context.Context, listID int64, contacts []conseillerdomain.Contact) error
}

// MajMailingListsJob refreshes the per-structure conseiller mailing lists.
type MajMailingListsJob struct {
	conseillers ConseillerContacts
	mailer      MailingListReplacer
	listes      map[core.Structure]int64
	now         func() time.Time
}

// NewMajMailingListsJob returns the job. now may be nil.
func NewMajMailingListsJob(conseillers ConseillerContacts, mailer MailingListReplacer, listes map[core.Structure]int64, now func() time.Time) *MajMailingListsJob {
	if now == nil {
		now = time.Now
	}
	return &MajMailingListsJob{conseillers: conseillers, mailer: mailer, listes: listes, now: now}
}

// Execute replaces each configured list. Per-structure failures are counted
// and do not stop the remaining structures.
func (j *MajMailingListsJob) Execute(ctx context.Context) suivijob.Rapport {
	rapport := suivijob.Rapport{JobType: planificateur.JobMajMailingLists, DateDebut: j.now().UTC()}
	resultat := map[string]any{}
	totalSansEmail := 0

	for _, structure := range core.Structures() {
		listID, ok := j.listes[structure]
		if !ok || listID == 0 {
			continue
		}
		contacts, err := j.conseillers.ContactsByStructure(ctx, structure)
		if err != nil {
			log.Printf("jobs: contacts %s failed: %v", structure, err)
			rapport.NbErreurs++
			continue
		}
		if err := j.mailer.ReplaceMailingList(ctx, listID, contacts); err != nil {
			log.Printf("jobs: mailing list %s failed: %v", structure, err)
			rapport.NbErreurs++
			continue
		}
		sansEmail, err := j.conseillers.CountSansEmail(ctx, structure)
		if err != nil {
			log.Printf("jobs: count sans email %s failed: %v", structure, err)
			rapport.NbErreurs++
			continue
		}
		totalSansEmail += sansEmail
		resultat[string(structure)] = len(contacts)
		rapport.NbTraites += len(contacts)
	}

	resultat["conseillersSansEmail"] = totalSansEmail
	rapport.Resultat = resultat
	rapport.Succes = rapport.NbErreurs == 0
	rapport.DateFin = j.now().UTC()
	return rapport
}
