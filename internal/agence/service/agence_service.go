package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"pass-accompagnement/backend/internal/agence/domain"
	acdomain "pass-accompagnement/backend/internal/animationcollective/domain"
	conseillerdomain "pass-accompagnement/backend/internal/conseiller/domain"
	"pass-accompagnement/backend/internal/core"
)

// ConseillerRepo is the subset of the conseiller repository used by the service.
type ConseillerRepo interface {
	GetByID(ctx context.Context, id string) (*conseillerdomain.Conseiller, error)
	ListByAgence(ctx context.Context, idAgence string) ([]*conseillerdomain.Conseiller, error)
	UpdateAgence(ctx context.Context, idConseiller, idAgence string) error
}

// AgenceRepo is the subset of the agence repository used by the service.
type AgenceRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Agence, error)
	GetByIDAndStructure(ctx context.Context, id string, structure core.Structure) (*domain.Agence, error)
}

// AnimationRepo is the subset of the animation-collective repository used by the service.
type AnimationRepo interface {
	ListByAgenceAvecSupprimes(ctx context.Context, idAgence string) ([]*acdomain.AnimationCollective, error)
	UpdateAgence(ctx context.Context, idAnimationCollective, idAgence string) error
	DesinscrireJeunes(ctx context.Context, idAnimationCollective string, idsJeunes []string) error
}

// Transactor runs fn inside a database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AgenceService moves conseillers between agences, cascading to the group
// sessions of the agence they leave.
type AgenceService struct {
	conseillers ConseillerRepo
	agences     AgenceRepo
	animations  AnimationRepo
	tx          Transactor
}

// NewAgenceService returns an AgenceService.
func NewAgenceService(conseillers ConseillerRepo, agences AgenceRepo, animations AnimationRepo, tx Transactor) *AgenceService {
	return &AgenceService{conseillers: conseillers, agences: agences, animations: animations, tx: tx}
}

// ChangeConseillerAgence moves the conseiller to idNouvelleAgence. Each session
// of the old agence is settled first: sessions the conseiller created follow to
// the new agence and lose the other conseillers' jeunes; sessions created by
// someone else keep their agence and lose the moving conseiller's jeunes. The
// conseiller row is saved only after every session has been processed. Sessions
// are independent of each other and handled concurrently, each in its own
// transaction.
func (s *AgenceService) ChangeConseillerAgence(ctx context.Context, idConseiller, idNouvelleAgence string) (*domain.ChangementAgence, error) {
	c, err := s.conseillers.GetByID(ctx, idConseiller)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, core.NewNotFound("conseiller", idConseiller)
	}
	if c.IDAgence == "" {
		return nil, core.NewBadCommand("le conseiller n'a pas d'agence")
	}
	target, err := s.agences.GetByIDAndStructure(ctx, idNouvelleAgence, c.Structure)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, core.NewNotFound("agence", idNouvelleAgence)
	}
	if target.ID == c.IDAgence {
		return nil, core.NewBadCommand("le conseiller est déjà dans cette agence")
	}

	sessions, err := s.animations.ListByAgenceAvecSupprimes(ctx, c.IDAgence)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.InfoTransfert, len(sessions))
	g, gctx := errgroup.WithContext(ctx)
	for i, session := range sessions {
		i, session := i, session
		g.Go(func() error {
			return s.tx.InTx(gctx, func(txCtx context.Context) error {
				info, err := s.transfererSession(txCtx, session, idConseiller, target.ID)
				if err != nil {
					return err
				}
				infos[i] = info
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.conseillers.UpdateAgence(ctx, idConseiller, target.ID); err != nil {
		return nil, err
	}

	return &domain.ChangementAgence{
		EmailConseiller:  c.Email,
		IDAncienneAgence: c.IDAgence,
		IDNouvelleAgence: target.ID,
		InfosTransfert:   infos,
	}, nil
}

func (s *AgenceService) transfererSession(ctx context.Context, session *acdomain.AnimationCollective, idConseiller, idNouvelleAgence string) (domain.InfoTransfert, error) {
	info := domain.InfoTransfert{
		IDAnimationCollective: session.ID,
		Titre:                 session.Titre,
		JeunesDesinscrits:     []domain.JeuneDesinscrit{},
	}
	estCreateur := session.IDConseillerCreateur == idConseiller

	var aDesinscrire []acdomain.Inscrit
	if estCreateur {
		// The session follows its creator; jeunes of other conseillers no longer
		// share an agence with it.
		info.AgenceTransferee = domain.AgenceTransfereeOui
		for _, inscrit := range session.Inscrits {
			if inscrit.IDConseiller != idConseiller {
				aDesinscrire = append(aDesinscrire, inscrit)
			}
		}
		if err := s.animations.UpdateAgence(ctx, session.ID, idNouvelleAgence); err != nil {
			return info, err
		}
	} else {
		// The session stays; the moving conseiller's jeunes follow him out.
		info.AgenceTransferee = domain.AgenceTransfereeNon
		for _, inscrit := range session.Inscrits {
			if inscrit.IDConseiller == idConseiller {
				aDesinscrire = append(aDesinscrire, inscrit)
			}
		}
	}

	if len(aDesinscrire) > 0 {
		ids := make([]string, len(aDesinscrire))
		for i, inscrit := range aDesinscrire {
			ids[i] = inscrit.IDJeune
			info.JeunesDesinscrits = append(info.JeunesDesinscrits, domain.JeuneDesinscrit{
				ID:     inscrit.IDJeune,
				Nom:    inscrit.Nom,
				Prenom: inscrit.Prenom,
			})
		}
		if err := s.animations.DesinscrireJeunes(ctx, session.ID, ids); err != nil {
			return info, err
		}
	}
	return info, nil
}

// FusionnerAgences moves every conseiller of the source agence to the target
// agence. Per-conseiller failures are logged and skipped so one bad record does
// not block the merge.
func (s *AgenceService) FusionnerAgences(ctx context.Context, idAgenceSource, idAgenceCible string) (*domain.FusionAgences, error) {
	if idAgenceSource == idAgenceCible {
		return nil, core.NewBadCommand("les agences source et cible sont identiques")
	}
	cible, err := s.agences.GetByID(ctx, idAgenceCible)
	if err != nil {
		return nil, err
	}
	if cible == nil {
		return nil, core.NewNotFound("agence", idAgenceCible)
	}
	conseillers, err := s.conseillers.ListByAgence(ctx, idAgenceSource)
	if err != nil {
		return nil, err
	}
	rapport := &domain.FusionAgences{
		IDAgenceSource:      idAgenceSource,
		IDAgenceCible:       idAgenceCible,
		ConseillersDeplaces: []domain.ChangementAgence{},
		Echecs:              []string{},
	}
	for _, c := range conseillers {
		changement, err := s.ChangeConseillerAgence(ctx, c.ID, idAgenceCible)
		if err != nil {
			log.Printf("agence: fusion %s -> %s: conseiller %s skipped: %v", idAgenceSource, idAgenceCible, c.ID, err)
			rapport.Echecs = append(rapport.Echecs, fmt.Sprintf("%s: %v", c.ID, err))
			continue
		}
		rapport.ConseillersDeplaces = append(rapport.ConseillersDeplaces, *changement)
	}
	return rapport, nil
}
