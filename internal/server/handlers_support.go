package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	archivedomain "pass-accompagnement/backend/internal/archivejeune/domain"
	auditdomain "pass-accompagnement/backend/internal/audit/domain"
	"pass-accompagnement/backend/internal/core"
	ffdomain "pass-accompagnement/backend/internal/featureflip/domain"
	"pass-accompagnement/backend/internal/security"
	"pass-accompagnement/backend/internal/server/middleware"
	"pass-accompagnement/backend/internal/suivijob"
)

// requireSupport resolves the caller and checks the support scope in one go.
func (s *Server) requireSupport(w http.ResponseWriter, r *http.Request) (security.Utilisateur, bool) {
	caller, ok := middleware.UtilisateurFromContext(r.Context())
	if !ok {
		writeError(w, core.ErrDroitsInsuffisants)
		return security.Utilisateur{}, false
	}
	if err := s.deps.Authz.RequireSupport(r.Context(), caller); err != nil {
		writeError(w, err)
		return security.Utilisateur{}, false
	}
	return caller, true
}

type changerAgencePayload struct {
	IDAgence string `json:"idAgence"`
}

// POST /support/conseillers/{idConseiller}/agence
func (s *Server) handleChangerAgence(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSupport(w, r)
	if !ok {
		return
	}
	idConseiller := chi.URLParam(r, "idConseiller")

	var payload changerAgencePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.IDAgence == "" {
		writeError(w, core.NewBadCommand("idAgence est requis"))
		return
	}

	rapport, err := s.deps.Agences.ChangeConseillerAgence(r.Context(), idConseiller, payload.IDAgence)
	if err != nil {
		writeError(w, err)
		return
	}

	s.deps.Audit.LogEvent(r.Context(), caller, "CHANGER_AGENCE_CONSEILLER", "conseiller", idConseiller,
		auditdomain.ResultatSucces, fmt.Sprintf("nouvelle agence %s", payload.IDAgence))
	writeJSON(w, http.StatusOK, rapport)
}

type fusionnerAgencesPayload struct {
	IDAgenceSource string `json:"idAgenceSource"`
	IDAgenceCible  string `json:"idAgenceCible"`
}

// POST /support/agences/fusionner
func (s *Server) handleFusionnerAgences(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSupport(w, r)
	if !ok {
		return
	}

	var payload fusionnerAgencesPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.IDAgenceSource == "" || payload.IDAgenceCible == "" {
		writeError(w, core.NewBadCommand("idAgenceSource et idAgenceCible sont requis"))
		return
	}

	rapport, err := s.deps.Agences.FusionnerAgences(r.Context(), payload.IDAgenceSource, payload.IDAgenceCible)
	if err != nil {
		writeError(w, err)
		return
	}

	s.deps.Audit.LogEvent(r.Context(), caller, "FUSIONNER_AGENCES", "agence", payload.IDAgenceSource,
		auditdomain.ResultatSucces, fmt.Sprintf("vers agence %s", payload.IDAgenceCible))
	writeJSON(w, http.StatusOK, rapport)
}

// POST /support/jeunes/{idJeune}/archiver
//
// Support archival carries a fixed motif and commentaire.
func (s *Server) handleArchiverJeuneSupport(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSupport(w, r)
	if !ok {
		return
	}
	idJeune := chi.URLParam(r, "idJeune")

	err := s.deps.Archives.Archive(r.Context(), idJeune,
		archivedomain.MotifSuppressionSupport, archivedomain.CommentaireSuppressionSupport)
	if err != nil {
		writeError(w, err)
		return
	}

	s.deps.Audit.LogEvent(r.Context(), caller, "ARCHIVER_JEUNE_SUPPORT", "jeune", idJeune,
		auditdomain.ResultatSucces, archivedomain.MotifSuppressionSupport)
	writeJSON(w, http.StatusNoContent, nil)
}

type featureFlipsPayload struct {
	Tag                          string   `json:"tag"`
	EmailsConseillersAjout       []string `json:"emailsConseillersAjout"`
	EmailsConseillersSuppression []string `json:"emailsConseillersSuppression"`
	SupprimerExistants           bool     `json:"supprimerExistants"`
}

// POST /support/feature-flips
//
// Mutations run in a fixed order: wipe the tag when asked, then insert the
// additions, then delete the removals.
func (s *Server) handleFeatureFlips(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSupport(w, r)
	if !ok {
		return
	}

	var payload featureFlipsPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Tag == "" {
		writeError(w, core.NewBadCommand("tag est requis"))
		return
	}
	tag := ffdomain.Tag(payload.Tag)

	if payload.SupprimerExistants {
		if err := s.deps.FlagAdmin.DeleteByTag(r.Context(), tag); err != nil {
			writeError(w, err)
			return
		}
	}
	if len(payload.EmailsConseillersAjout) > 0 {
		if err := s.deps.FlagAdmin.BulkInsert(r.Context(), tag, payload.EmailsConseillersAjout); err != nil {
			writeError(w, err)
			return
		}
	}
	if len(payload.EmailsConseillersSuppression) > 0 {
		if err := s.deps.FlagAdmin.DeleteByTagAndEmails(r.Context(), tag, payload.EmailsConseillersSuppression); err != nil {
			writeError(w, err)
			return
		}
	}

	s.deps.Audit.LogEvent(r.Context(), caller, "MAJ_FEATURE_FLIPS", "feature_flip", payload.Tag,
		auditdomain.ResultatSucces,
		fmt.Sprintf("ajouts=%d suppressions=%d supprimerExistants=%v",
			len(payload.EmailsConseillersAjout), len(payload.EmailsConseillersSuppression), payload.SupprimerExistants))
	writeJSON(w, http.StatusNoContent, nil)
}

// POST /support/migrations/archiver-jeunes
//
// Runs the bulk migration archival synchronously and returns its report. The
// report is also emitted on the job-report pipeline.
func (s *Server) handleArchiverJeunesMigration(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSupport(w, r)
	if !ok {
		return
	}

	rapport := s.deps.Migration.Execute(r.Context())
	suivijob.EmitAsync(s.deps.Emitter, rapport)

	resultat := auditdomain.ResultatSucces
	if !rapport.Succes {
		resultat = auditdomain.ResultatEchec
	}
	s.deps.Audit.LogEvent(r.Context(), caller, "ARCHIVER_JEUNES_MIGRATION", "jeune", "",
		resultat, fmt.Sprintf("traites=%d erreurs=%d", rapport.NbTraites, rapport.NbErreurs))
	writeJSON(w, http.StatusOK, rapport)
}
