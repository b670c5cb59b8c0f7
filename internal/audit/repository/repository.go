package repository

import (
	"context"

	"pass-accompagnement/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	ListByActeur(ctx context.Context, acteurID string, limit, offset int) ([]*domain.AuditLog, error)
}
