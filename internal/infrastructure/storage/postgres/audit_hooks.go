package postgres

import (
	"context"

	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/domain"
)

// Auditable is the entity surface the audit hooks need.
type Auditable interface {
	entity.Validatable
	GetID() id.ID
}

// RegisterCatalogAudit attaches audit logging to a catalog service's
// mutation hooks. Entries run inside the mutation's transaction, so a
// change and its audit record commit together.
func RegisterCatalogAudit[T Auditable](svc *domain.CatalogService[T], auditSvc *AuditService, entityType string) {
	hooks := svc.Hooks()

	hooks.OnAfterCreate(func(ctx context.Context, e T) error {
		return auditSvc.LogChange(ctx, entityType, e.GetID(), AuditActionCreate, map[string]any{"after": e})
	})

	hooks.OnAfterUpdate(func(ctx context.Context, e T) error {
		return auditSvc.LogChange(ctx, entityType, e.GetID(), AuditActionUpdate, map[string]any{"after": e})
	})

	hooks.OnAfterDelete(func(ctx context.Context, e T) error {
		return auditSvc.LogChange(ctx, entityType, e.GetID(), AuditActionDelete, nil)
	})
}
