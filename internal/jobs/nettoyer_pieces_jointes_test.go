package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pass-accompagnement/backend/internal/fichier"
)

type memFichierRepo struct {
	fichiers []fichier.Fichier
	deleted  []string
	failFor  map[string]bool
}

func (r *memFichierRepo) ListOlderThan(ctx context.Context, limit time.Time) ([]fichier.Fichier, error) {
	var out []fichier.Fichier
	for _, f := range r.fichiers {
		if f.DateCreation.Before(limit) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFichierRepo) SoftDelete(ctx context.Context, id string) error {
	if r.failFor[id] {
		return errors.New("db error")
	}
	r.deleted = append(r.deleted, id)
	return nil
}

type memChatStatut struct {
	messages map[string][]string
}

func (r *memChatStatut) AddStatutMessage(ctx context.Context, idJeune, contenu string) error {
	if r.messages == nil {
		r.messages = map[string][]string{}
	}
	r.messages[idJeune] = append(r.messages[idJeune], contenu)
	return nil
}

func TestNettoyerPiecesJointes(t *testing.T) {
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	repo := &memFichierRepo{fichiers: []fichier.Fichier{
		{ID: "f1", IDJeune: "j1", Nom: "cv.pdf", DateCreation: now.Add(-5 * 30 * 24 * time.Hour)},
		{ID: "f2", IDJeune: "j2", Nom: "lettre.pdf", DateCreation: now.Add(-24 * time.Hour)},
	}}
	chat := &memChatStatut{}
	job := NewNettoyerPiecesJointesJob(repo, chat, func() time.Time { return now })

	rapport := job.Execute(context.Background())
	if !rapport.Succes || rapport.NbTraites != 1 {
		t.Fatalf("rapport: %+v", rapport)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "f1" {
		t.Errorf("deleted: %v", repo.deleted)
	}
	msgs := chat.messages["j1"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "cv.pdf") {
		t.Errorf("chat messages: %v", msgs)
	}
	if len(chat.messages["j2"]) != 0 {
		t.Error("recent fichier must not trigger a status message")
	}
}

func TestNettoyerPiecesJointes_ErreurParFichierComptee(t *testing.T) {
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	old := now.Add(-5 * 30 * 24 * time.Hour)
	repo := &memFichierRepo{
		fichiers: []fichier.Fichier{
			{ID: "f1", IDJeune: "j1", Nom: "a.pdf", DateCreation: old},
			{ID: "f2", IDJeune: "j2", Nom: "b.pdf", DateCreation: old},
		},
		failFor: map[string]bool{"f1": true},
	}
	chat := &memChatStatut{}
	job := NewNettoyerPiecesJointesJob(repo, chat, func() time.Time { return now })

	rapport := job.Execute(context.Background())
	if rapport.Succes {
		t.Error("a failed fichier should mark the report failed")
	}
	if rapport.NbErreurs != 1 || rapport.NbTraites != 1 {
		t.Errorf("rapport: erreurs=%d traités=%d", rapport.NbErreurs, rapport.NbTraites)
	}
}
