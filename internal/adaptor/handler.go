package adaptor

import (
	"backoffice/internal/dto/response"
	"backoffice/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Client  *IdentityHandler[response.ClientListItem]
	Staff   *IdentityHandler[response.StaffListItem]
	Tag     *TagHandler
	Country *CountryHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Client:  NewIdentityHandler(service.Client, "Client", log),
		Staff:   NewIdentityHandler(service.Staff, "Team member", log),
		Tag:     NewTagHandler(service.Tag, log),
		Country: NewCountryHandler(service.Country, log),
	}
}
