package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auditdomain "pass-accompagnement/backend/internal/audit/domain"
	"pass-accompagnement/backend/internal/core"
	jeuneservice "pass-accompagnement/backend/internal/jeune/service"
	"pass-accompagnement/backend/internal/server/middleware"
)

type creerJeunePayload struct {
	IDConseiller string `json:"idConseiller"`
	Prenom       string `json:"prenom"`
	Nom          string `json:"nom"`
	Email        string `json:"email"`
	Dispositif   string `json:"dispositif"`
}

type jeuneResponse struct {
	ID           string `json:"id"`
	Prenom       string `json:"prenom"`
	Nom          string `json:"nom"`
	IDConseiller string `json:"idConseiller"`
}

// POST /conseillers/pole-emploi/jeunes
func (s *Server) handleCreerJeune(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UtilisateurFromContext(r.Context())
	if !ok {
		writeError(w, core.ErrDroitsInsuffisants)
		return
	}
	if caller.Type != core.UtilisateurConseiller && caller.Type != core.UtilisateurSupport {
		writeError(w, core.ErrDroitsInsuffisants)
		return
	}

	var payload creerJeunePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	jeune, err := s.deps.Jeunes.CreerJeunePoleEmploi(r.Context(), jeuneservice.CreerJeuneCommand{
		IDConseiller: payload.IDConseiller,
		Prenom:       payload.Prenom,
		Nom:          payload.Nom,
		Email:        payload.Email,
		Dispositif:   core.Dispositif(payload.Dispositif),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.deps.Audit.LogEvent(r.Context(), caller, "CREER_JEUNE", "jeune", jeune.ID,
		auditdomain.ResultatSucces, "")
	writeJSON(w, http.StatusCreated, jeuneResponse{
		ID:           jeune.ID,
		Prenom:       jeune.Prenom,
		Nom:          jeune.Nom,
		IDConseiller: jeune.IDConseiller,
	})
}

type archiverJeunePayload struct {
	Motif       string `json:"motif"`
	Commentaire string `json:"commentaire"`
}

// POST /jeunes/{idJeune}/archiver
//
// Conseiller-initiated archival; the caller must be the jeune's conseiller.
func (s *Server) handleArchiverJeune(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UtilisateurFromContext(r.Context())
	if !ok {
		writeError(w, core.ErrDroitsInsuffisants)
		return
	}
	idJeune := chi.URLParam(r, "idJeune")
	if err := s.deps.Authz.RequireConseillerDuJeune(r.Context(), caller, idJeune); err != nil {
		writeError(w, err)
		return
	}

	var payload archiverJeunePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := s.deps.Archives.Archive(r.Context(), idJeune, payload.Motif, payload.Commentaire); err != nil {
		writeError(w, err)
		return
	}

	s.deps.Audit.LogEvent(r.Context(), caller, "ARCHIVER_JEUNE", "jeune", idJeune,
		auditdomain.ResultatSucces, payload.Motif)
	writeJSON(w, http.StatusNoContent, nil)
}
