package handlers

import (
	"opticore/internal/domain/catalogs/storegroup"
	"opticore/internal/infrastructure/http/v1/dto"
)

// StoreGroupHTTPHandler is a type alias to shorten signatures.
type StoreGroupHTTPHandler = CatalogHandler[
	*storegroup.StoreGroup,
	dto.CreateStoreGroupRequest,
	dto.UpdateStoreGroupRequest,
]

// NewStoreGroupHandler creates a configured generic handler for store groups.
func NewStoreGroupHandler(
	base *BaseHandler,
	service *storegroup.Service,
) *StoreGroupHTTPHandler {

	config := CatalogHandlerConfig[
		*storegroup.StoreGroup,
		dto.CreateStoreGroupRequest,
		dto.UpdateStoreGroupRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "store group",

		MapCreateDTO: func(req dto.CreateStoreGroupRequest) *storegroup.StoreGroup {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateStoreGroupRequest, existing *storegroup.StoreGroup) *storegroup.StoreGroup {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *storegroup.StoreGroup) any {
			return dto.FromStoreGroup(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
