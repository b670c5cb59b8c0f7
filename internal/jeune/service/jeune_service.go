package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"pass-accompagnement/backend/internal/conseiller/domain"
	"pass-accompagnement/backend/internal/core"
	jeunedomain "pass-accompagnement/backend/internal/jeune/domain"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// JeuneRepo is the subset of the jeune repository used by the service.
type JeuneRepo interface {
	GetByEmail(ctx context.Context, email string) (*jeunedomain.Jeune, error)
	Create(ctx context.Context, j *jeunedomain.Jeune) error
}

// ConseillerRepo is the subset of the conseiller repository used by the service.
type ConseillerRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Conseiller, error)
}

// CreerJeuneCommand is the validated payload for creating a jeune under a
// France Travail conseiller.
type CreerJeuneCommand struct {
	IDConseiller string
	Prenom       string
	Nom          string
	Email        string
	Dispositif   core.Dispositif
}

// JeuneService creates beneficiary accounts.
type JeuneService struct {
	jeunes      JeuneRepo
	conseillers ConseillerRepo
	now         func() time.Time
}

// NewJeuneService returns a JeuneService. now may be nil; then time.Now is used.
func NewJeuneService(jeunes JeuneRepo, conseillers ConseillerRepo, now func() time.Time) *JeuneService {
	if now == nil {
		now = time.Now
	}
	return &JeuneService{jeunes: jeunes, conseillers: conseillers, now: now}
}

// CreerJeunePoleEmploi creates a jeune attached to a POLE_EMPLOI conseiller.
// The conseiller becomes both the current and the initial conseiller.
func (s *JeuneService) CreerJeunePoleEmploi(ctx context.Context, cmd CreerJeuneCommand) (*jeunedomain.Jeune, error) {
	if err := validateCreerJeune(&cmd); err != nil {
		return nil, err
	}
	c, err := s.conseillers.GetByID(ctx, cmd.IDConseiller)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, core.NewNotFound("conseiller", cmd.IDConseiller)
	}
	if c.Structure != core.StructurePoleEmploi {
		return nil, core.NewBadCommand("le conseiller n'est pas un conseiller France Travail")
	}
	existing, err := s.jeunes.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, core.NewBadCommand("un jeune avec cet email existe déjà")
	}
	j := &jeunedomain.Jeune{
		ID:                  uuid.New().String(),
		Prenom:              cmd.Prenom,
		Nom:                 cmd.Nom,
		Email:               cmd.Email,
		Structure:           core.StructurePoleEmploi,
		Dispositif:          cmd.Dispositif,
		IDConseiller:        c.ID,
		IDConseillerInitial: c.ID,
		DateCreation:        s.now().UTC(),
	}
	if err := s.jeunes.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func validateCreerJeune(cmd *CreerJeuneCommand) error {
	cmd.Prenom = strings.TrimSpace(cmd.Prenom)
	cmd.Nom = strings.TrimSpace(cmd.Nom)
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	if cmd.IDConseiller == "" {
		return core.NewBadCommand("idConseiller est obligatoire")
	}
	if cmd.Prenom == "" || cmd.Nom == "" {
		return core.NewBadCommand("prenom et nom sont obligatoires")
	}
	if !emailPattern.MatchString(cmd.Email) {
		return core.NewBadCommand("email invalide")
	}
	if cmd.Dispositif == "" {
		cmd.Dispositif = core.DispositifCEJ
	}
	if cmd.Dispositif != core.DispositifCEJ && cmd.Dispositif != core.DispositifPACEA {
		return core.NewBadCommand("dispositif invalide")
	}
	return nil
}
