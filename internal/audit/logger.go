// Package audit records support and conseiller commands, best-effort.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"pass-accompagnement/backend/internal/audit/domain"
	auditrepo "pass-accompagnement/backend/internal/audit/repository"
	"pass-accompagnement/backend/internal/security"
)

// Logger writes one audit entry per command. LogEvent is best-effort:
// failures are logged and do not affect the caller.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns a Logger that persists to repo. repo may be nil; then
// events are dropped.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, acteur security.Utilisateur, action, cibleType, cibleID, resultat, details string) {
	if l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ActeurID:   acteur.ID,
		ActeurType: string(acteur.Type),
		Action:     action,
		CibleType:  cibleType,
		CibleID:    cibleID,
		Resultat:   resultat,
		Details:    encodeDetails(details),
		DateAction: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, cibleID, err)
	}
}

// encodeDetails wraps free-form details into a JSON document so the jsonb
// details column accepts them. Empty details stay empty and are stored NULL.
func encodeDetails(details string) string {
	if details == "" {
		return ""
	}
	b, err := json.Marshal(map[string]string{"message": details})
	if err != nil {
		return ""
	}
	return string(b)
}
