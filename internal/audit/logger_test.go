package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pass-accompagnement/backend/internal/audit/domain"
	"pass-accompagnement/backend/internal/core"
	"pass-accompagnement/backend/internal/security"
)

type memAuditRepo struct {
	entries []*domain.AuditLog
	err     error
}

func (r *memAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, a)
	return nil
}

func (r *memAuditRepo) ListByActeur(ctx context.Context, acteurID string, limit, offset int) ([]*domain.AuditLog, error) {
	return r.entries, nil
}

func TestLogEvent(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo)
	acteur := security.Utilisateur{ID: "s1", Type: core.UtilisateurSupport}

	l.LogEvent(context.Background(), acteur, "archiver_jeune", "jeune", "j1", domain.ResultatSucces, "")
	if len(repo.entries) != 1 {
		t.Fatalf("entries: %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ActeurID != "s1" || e.ActeurType != "SUPPORT" || e.Action != "archiver_jeune" ||
		e.CibleID != "j1" || e.Resultat != domain.ResultatSucces {
		t.Errorf("entry: %+v", e)
	}
	if e.DateAction.IsZero() {
		t.Error("DateAction should be set")
	}
}

func TestLogEvent_EncodesDetailsAsJSON(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo)
	acteur := security.Utilisateur{ID: "s1", Type: core.UtilisateurSupport}

	l.LogEvent(context.Background(), acteur, "changer_agence", "conseiller", "c1", domain.ResultatSucces, "nouvelle agence a2")
	if len(repo.entries) != 1 {
		t.Fatalf("entries: %d", len(repo.entries))
	}
	var doc map[string]string
	if err := json.Unmarshal([]byte(repo.entries[0].Details), &doc); err != nil {
		t.Fatalf("details should be valid JSON, got %q: %v", repo.entries[0].Details, err)
	}
	if doc["message"] != "nouvelle agence a2" {
		t.Errorf("details: %q", repo.entries[0].Details)
	}
}

func TestLogEvent_EmptyDetailsStayEmpty(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo)

	l.LogEvent(context.Background(), security.Utilisateur{ID: "s1"}, "a", "", "", domain.ResultatSucces, "")
	if got := repo.entries[0].Details; got != "" {
		t.Errorf("empty details should stay empty, got %q", got)
	}
}

func TestLogEvent_BestEffort(t *testing.T) {
	repo := &memAuditRepo{err: errors.New("db down")}
	l := NewLogger(repo)
	// Must not panic or propagate.
	l.LogEvent(context.Background(), security.Utilisateur{ID: "s1"}, "a", "", "", domain.ResultatEchec, "")
}

func TestLogEvent_NilRepo(t *testing.T) {
	l := NewLogger(nil)
	l.LogEvent(context.Background(), security.Utilisateur{}, "a", "", "", domain.ResultatSucces, "")
}
