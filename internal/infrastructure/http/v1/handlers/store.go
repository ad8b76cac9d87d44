package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opticore/internal/domain/catalogs/store"
	"opticore/internal/infrastructure/http/v1/dto"
)

// StoreHandler extends the generic catalog handler with store-specific
// endpoints.
type StoreHandler struct {
	*CatalogHandler[*store.Store, dto.CreateStoreRequest, dto.UpdateStoreRequest]
	service *store.Service
}

// NewStoreHandler creates a configured handler for stores.
func NewStoreHandler(
	base *BaseHandler,
	service *store.Service,
) *StoreHandler {

	config := CatalogHandlerConfig[
		*store.Store,
		dto.CreateStoreRequest,
		dto.UpdateStoreRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "store",

		MapCreateDTO: func(req dto.CreateStoreRequest) *store.Store {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateStoreRequest, existing *store.Store) *store.Store {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *store.Store) any {
			return dto.FromStore(entity)
		},
	}

	return &StoreHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// OverCreditLimit handles GET /stores/over-credit-limit - stores in breach.
func (h *StoreHandler) OverCreditLimit(c *gin.Context) {
	ctx := c.Request.Context()

	stores, err := h.service.ListOverCreditLimit(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.StoreResponse, len(stores))
	for i, s := range stores {
		items[i] = dto.FromStore(s)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
