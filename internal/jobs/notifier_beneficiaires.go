// Package jobs holds the batch jobs run by the worker.
package jobs

import (
	"context"
	"log"
	"time"

	"pass-accompagnement/backend/internal/core"
	jeunedomain "pass-accompagnement/backend/internal/jeune/domain"
	"pass-accompagnement/backend/internal/notification"
	"pass-accompagnement/backend/internal/planificateur"
	"pass-accompagnement/backend/internal/suivijob"
)

// JeuneLister is the subset of the jeune repository used by the notify job.
type JeuneLister interface {
	CountWithPushToken(ctx context.Context, structure *core.Structure) (int, error)
	ListWithPushToken(ctx context.Context, structure *core.Structure, limit, offset int) ([]*jeunedomain.Jeune, error)
}

// PushSender delivers one notification.
type PushSender interface {
	Send(ctx context.Context, n notification.Notification) error
}

// Scheduler durably re-enqueues the next page.
type Scheduler interface {
	Add(ctx context.Context, jobType string, dateExecution time.Time, contenu interface{}) error
}

// NotifierContenu is the payload carried between invocations of the notify job.
type NotifierContenu struct {
	Titre     string              `json:"titre"`
	Corps     string              `json:"corps"`
	Structure *core.Structure     `json:"structure,omitempty"`
	Cursor    planificateur.Cursor `json:"cursor"`
}

// NotifierBeneficiairesJob pushes one notification to every jeune holding a
// push token, one bounded page per invocation. The next page is deferred to the
// next business-hours slot.
type NotifierBeneficiairesJob struct {
	jeunes    JeuneLister
	push      PushSender
	scheduler Scheduler
	loc       *time.Location
	// delaiEntreEnvois spaces out sends so the gateway is not flooded.
	delaiEntreEnvois time.Duration
	now              func() time.Time
	sleep            func(time.Duration)
}

// NewNotifierBeneficiairesJob returns the job. now and sleep may be nil.
func NewNotifierBeneficiairesJob(jeunes JeuneLister, push PushSender, scheduler Scheduler, loc *time.Location, delaiEntreEnvois time.Duration, now func() time.Time) *NotifierBeneficiairesJob {
	if now == nil {
		now = time.Now
	}
	return &NotifierBeneficiairesJob{
		jeunes:           jeunes,
		push:             push,
		scheduler:        scheduler,
		loc:              loc,
		delaiEntreEnvois: delaiEntreEnvois,
		now:              now,
		sleep:            time.Sleep,
	}
}

// Execute processes one page. A fresh contenu (zero cursor) sizes the batch at
// a quarter of the current population. Per-send failures are logged and
// counted; a failed page listing aborts without advancing state so a re-trigger
// resumes at the same offset.
func (j *NotifierBeneficiairesJob) Execute(ctx context.Context, contenu NotifierContenu) suivijob.Rapport {
	rapport := suivijob.Rapport{JobType: planificateur.JobNotifierBeneficiaires, DateDebut: j.now().UTC()}

	cursor := contenu.Cursor
	if cursor.TaillePopulationTotale == 0 {
		population, err := j.jeunes.CountWithPushToken(ctx, contenu.Structure)
		if err != nil {
			return echec(rapport, j.now, err)
		}
		cursor = planificateur.Cursor{
			TaillePopulationTotale: population,
			BatchSize:              planificateur.DefaultBatchSize(population),
		}
		if population == 0 {
			rapport.Succes = true
			rapport.DateFin = j.now().UTC()
			return rapport
		}
	}

	page, err := j.jeunes.ListWithPushToken(ctx, contenu.Structure, cursor.BatchSize, cursor.Offset)
	if err != nil {
		return echec(rapport, j.now, err)
	}

	for i, jeune := range page {
		if i > 0 && j.delaiEntreEnvois > 0 {
			j.sleep(j.delaiEntreEnvois)
		}
		n := notification.Notification{Token: jeune.PushNotificationToken, Titre: contenu.Titre, Corps: contenu.Corps}
		if err := j.push.Send(ctx, n); err != nil {
			log.Printf("jobs: notify jeune %s failed: %v", jeune.ID, err)
			rapport.NbErreurs++
			continue
		}
		rapport.NbTraites++
	}

	cursor = cursor.Avance(len(page))
	if !cursor.Termine() && len(page) > 0 {
		next := contenu
		next.Cursor = cursor
		slot := planificateur.NextBusinessSlot(j.now().Add(j.delaiEntreEnvois), j.loc)
		if err := j.scheduler.Add(ctx, planificateur.JobNotifierBeneficiaires, slot, next); err != nil {
			return echec(rapport, j.now, err)
		}
	}

	rapport.Succes = rapport.NbErreurs == 0
	rapport.DateFin = j.now().UTC()
	rapport.Resultat = map[string]any{
		"nbTraitesTotal": cursor.NbTraites,
		"population":     cursor.TaillePopulationTotale,
		"termine":        cursor.Termine() || len(page) == 0,
	}
	return rapport
}

func echec(rapport suivijob.Rapport, now func() time.Time, err error) suivijob.Rapport {
	rapport.Succes = false
	rapport.Erreur = err.Error()
	rapport.DateFin = now().UTC()
	return rapport
}
