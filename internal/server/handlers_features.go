package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pass-accompagnement/backend/internal/core"
	ffdomain "pass-accompagnement/backend/internal/featureflip/domain"
	"pass-accompagnement/backend/internal/server/middleware"
)

type featureActiveResponse struct {
	Tag   string `json:"tag"`
	Actif bool   `json:"actif"`
}

// GET /jeunes/{idJeune}/features/{tag}
//
// A jeune may only check its own flags; a conseiller only those of its jeunes.
func (s *Server) handleFeatureActive(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UtilisateurFromContext(r.Context())
	if !ok {
		writeError(w, core.ErrDroitsInsuffisants)
		return
	}
	idJeune := chi.URLParam(r, "idJeune")
	tag := ffdomain.Tag(chi.URLParam(r, "tag"))

	switch caller.Type {
	case core.UtilisateurJeune:
		if caller.ID != idJeune {
			writeError(w, core.ErrDroitsInsuffisants)
			return
		}
	case core.UtilisateurConseiller:
		if err := s.deps.Authz.RequireConseillerDuJeune(r.Context(), caller, idJeune); err != nil {
			writeError(w, err)
			return
		}
	case core.UtilisateurSupport:
		// support reads anything
	default:
		writeError(w, core.ErrDroitsInsuffisants)
		return
	}

	actif, err := s.deps.FeatureFlips.IsActive(r.Context(), tag, core.UtilisateurFeature{
		ID:   idJeune,
		Type: core.UtilisateurJeune,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, featureActiveResponse{Tag: string(tag), Actif: actif})
}

type dateMigrationResponse struct {
	DateMigration *time.Time `json:"dateMigration"`
}

// GET /utilisateurs/date-migration
//
// Returns the cutover date when the caller carries the MIGRATION flag and
// passes the structure rule, null otherwise.
func (s *Server) handleDateMigration(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UtilisateurFromContext(r.Context())
	if !ok {
		writeError(w, core.ErrDroitsInsuffisants)
		return
	}
	if err := s.deps.Authz.RequireAuthenticated(r.Context(), caller); err != nil {
		writeError(w, err)
		return
	}
	date, err := s.deps.FeatureFlips.MigrationDateIfEligible(r.Context(), core.UtilisateurFeature{
		ID:   caller.ID,
		Type: caller.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dateMigrationResponse{DateMigration: date})
}
