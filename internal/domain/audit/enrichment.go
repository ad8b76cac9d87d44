// Package audit fills document audit fields from the acting user.
package audit

import (
	"context"

	appctx "opticore/internal/core/context"
)

// EnrichCreatedByDirect stamps both CreatedBy and UpdatedBy with the
// actor from context. Use on document creation.
func EnrichCreatedByDirect(ctx context.Context, createdBy, updatedBy *string) {
	actorID := appctx.GetActorID(ctx)
	if actorID == "" || createdBy == nil || updatedBy == nil {
		return
	}
	*createdBy = actorID
	*updatedBy = actorID
}

// EnrichUpdatedByDirect stamps UpdatedBy with the actor from context.
// Use on any document mutation after creation.
func EnrichUpdatedByDirect(ctx context.Context, updatedBy *string) {
	actorID := appctx.GetActorID(ctx)
	if actorID == "" || updatedBy == nil {
		return
	}
	*updatedBy = actorID
}
