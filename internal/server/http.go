// Package server exposes the HTTP surface: feature lookups, jeune creation,
// archival, and the support commands. Handlers stay thin: authorize the
// caller, call the domain service, audit, respond.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	agencedomain "pass-accompagnement/backend/internal/agence/domain"
	"pass-accompagnement/backend/internal/core"
	ffdomain "pass-accompagnement/backend/internal/featureflip/domain"
	jeunedomain "pass-accompagnement/backend/internal/jeune/domain"
	jeuneservice "pass-accompagnement/backend/internal/jeune/service"
	"pass-accompagnement/backend/internal/security"
	"pass-accompagnement/backend/internal/server/middleware"
	"pass-accompagnement/backend/internal/suivijob"
)

// FeatureFlips resolves feature activation and migration dates.
type FeatureFlips interface {
	IsActive(ctx context.Context, tag ffdomain.Tag, utilisateur core.UtilisateurFeature) (bool, error)
	MigrationDateIfEligible(ctx context.Context, utilisateur core.UtilisateurFeature) (*time.Time, error)
}

// FeatureFlipAdmin covers the support mutations on flag rows.
type FeatureFlipAdmin interface {
	BulkInsert(ctx context.Context, tag ffdomain.Tag, emails []string) error
	DeleteByTag(ctx context.Context, tag ffdomain.Tag) error
	DeleteByTagAndEmails(ctx context.Context, tag ffdomain.Tag, emails []string) error
}

// Jeunes creates beneficiary accounts.
type Jeunes interface {
	CreerJeunePoleEmploi(ctx context.Context, cmd jeuneservice.CreerJeuneCommand) (*jeunedomain.Jeune, error)
}

// Archives runs the archival sequence for one jeune.
type Archives interface {
	Archive(ctx context.Context, idJeune, motif, commentaire string) error
}

// Agences covers the agency transfer commands.
type Agences interface {
	ChangeConseillerAgence(ctx context.Context, idConseiller, idNouvelleAgence string) (*agencedomain.ChangementAgence, error)
	FusionnerAgences(ctx context.Context, idAgenceSource, idAgenceCible string) (*agencedomain.FusionAgences, error)
}

// MigrationArchiver runs the bulk migration archival and reports its outcome.
type MigrationArchiver interface {
	Execute(ctx context.Context) suivijob.Rapport
}

// Authorizer gates commands on the caller's identity.
type Authorizer interface {
	RequireSupport(ctx context.Context, caller security.Utilisateur) error
	RequireConseillerDuJeune(ctx context.Context, caller security.Utilisateur, idJeune string) error
	RequireAuthenticated(ctx context.Context, caller security.Utilisateur) error
}

// AuditLogger records support and conseiller commands. Best effort.
type AuditLogger interface {
	LogEvent(ctx context.Context, acteur security.Utilisateur, action, cibleType, cibleID, resultat, details string)
}

// Pinger is the liveness probe against the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Verifier     *security.Verifier
	Authz        Authorizer
	FeatureFlips FeatureFlips
	FlagAdmin    FeatureFlipAdmin
	Jeunes       Jeunes
	Archives     Archives
	Agences      Agences
	Migration    MigrationArchiver
	Audit        AuditLogger
	DB           Pinger
	Emitter      suivijob.Emitter
}

// Server holds the wired handlers.
type Server struct {
	deps Deps
}

// NewServer returns a Server over the given dependencies.
func NewServer(deps Deps) *Server {
	return &Server{deps: deps}
}

// Router builds the chi router. Everything except /health requires a valid
// Bearer token; /support routes additionally require a support account.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.deps.Verifier))

		r.Get("/jeunes/{idJeune}/features/{tag}", s.handleFeatureActive)
		r.Get("/utilisateurs/date-migration", s.handleDateMigration)
		r.Post("/jeunes/{idJeune}/archiver", s.handleArchiverJeune)
		r.Post("/conseillers/pole-emploi/jeunes", s.handleCreerJeune)

		r.Route("/support", func(r chi.Router) {
			r.Post("/conseillers/{idConseiller}/agence", s.handleChangerAgence)
			r.Post("/agences/fusionner", s.handleFusionnerAgences)
			r.Post("/jeunes/{idJeune}/archiver", s.handleArchiverJeuneSupport)
			r.Post("/feature-flips", s.handleFeatureFlips)
			r.Post("/migrations/archiver-jeunes", s.handleArchiverJeunesMigration)
		})
	})

	return otelhttp.NewHandler(r, "http.server")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.DB.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
