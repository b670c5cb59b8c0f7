package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/security"
)

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and reported as a bare 500 so internals never leak to callers.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, messageBody{Message: err.Error()})
	case core.IsBadCommand(err):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: err.Error()})
	case errors.Is(err, core.ErrDroitsInsuffisants):
		writeJSON(w, http.StatusForbidden, messageBody{Message: "droits insuffisants"})
	case errors.Is(err, security.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: "authentification requise"})
	default:
		log.Printf("server: unhandled error: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: "erreur interne"})
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return core.NewBadCommand("corps de requête invalide")
	}
	return nil
}
