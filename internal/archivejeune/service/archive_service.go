package service

import (
	"context"
	"fmt"
	"time"

	"pass-accompagnement/backend/internal/archivejeune/domain"
	"pass-accompagnement/backend/internal/core"
	jeunedomain "pass-accompagnement/backend/internal/jeune/domain"
)

// JeuneRepo is the subset of the jeune repository used by the service.
type JeuneRepo interface {
	GetByID(ctx context.Context, id string) (*jeunedomain.Jeune, error)
	Delete(ctx context.Context, id string) error
}

// ArchiveRepo persists archive snapshots.
type ArchiveRepo interface {
	Create(ctx context.Context, m *domain.Metadonnees) error
}

// IDPClient deletes the account on the identity provider.
type IDPClient interface {
	DeleteUtilisateur(ctx context.Context, idAuthentification string) error
}

// ChatRepo wipes the jeune's message history.
type ChatRepo interface {
	DeleteByJeune(ctx context.Context, idJeune string) error
}

// Mailer sends the archival notification.
type Mailer interface {
	EnvoyerEmailArchivage(ctx context.Context, email, prenom, nom string) error
}

// ArchiveService archives beneficiary accounts.
//
// Archival spans the relational store, the identity provider, and the chat
// store; it cannot be atomic. The snapshot is written first so that a failure
// midway leaves a durable trace and a retry completes the remaining deletions
// (at-least-once semantics).
type ArchiveService struct {
	jeunes   JeuneRepo
	archives ArchiveRepo
	idp      IDPClient
	chat     ChatRepo
	mailer   Mailer
	now      func() time.Time
}

// NewArchiveService returns an ArchiveService. now may be nil; then time.Now is used.
func NewArchiveService(jeunes JeuneRepo, archives ArchiveRepo, idp IDPClient, chat ChatRepo, mailer Mailer, now func() time.Time) *ArchiveService {
	if now == nil {
		now = time.Now
	}
	return &ArchiveService{jeunes: jeunes, archives: archives, idp: idp, chat: chat, mailer: mailer, now: now}
}

// Archive archives the jeune: snapshot, identity-provider deletion, jeune row
// deletion, chat wipe, then the notification email. A missing jeune returns
// not-found with no side effects.
func (s *ArchiveService) Archive(ctx context.Context, idJeune, motif, commentaire string) error {
	if motif == "" {
		return core.NewBadCommand("motif est obligatoire")
	}
	j, err := s.jeunes.GetByID(ctx, idJeune)
	if err != nil {
		return err
	}
	if j == nil {
		return core.NewNotFound("jeune", idJeune)
	}

	snapshot := &domain.Metadonnees{
		IDJeune:               j.ID,
		Email:                 j.Email,
		Prenom:                j.Prenom,
		Nom:                   j.Nom,
		Structure:             j.Structure,
		Dispositif:            j.Dispositif,
		DateCreation:          j.DateCreation,
		DatePremiereConnexion: j.DatePremiereConnexion,
		Motif:                 motif,
		Commentaire:           commentaire,
		DateArchivage:         s.now().UTC(),
	}
	if err := s.archives.Create(ctx, snapshot); err != nil {
		return fmt.Errorf("archive snapshot jeune %s: %w", idJeune, err)
	}
	if err := s.idp.DeleteUtilisateur(ctx, j.IDAuthentification); err != nil {
		return fmt.Errorf("delete idp account jeune %s: %w", idJeune, err)
	}
	if err := s.jeunes.Delete(ctx, j.ID); err != nil {
		return fmt.Errorf("delete jeune %s: %w", idJeune, err)
	}
	if err := s.chat.DeleteByJeune(ctx, j.ID); err != nil {
		return fmt.Errorf("delete chat jeune %s: %w", idJeune, err)
	}
	if err := s.mailer.EnvoyerEmailArchivage(ctx, j.Email, j.Prenom, j.Nom); err != nil {
		return fmt.Errorf("archival email jeune %s: %w", idJeune, err)
	}
	return nil
}
