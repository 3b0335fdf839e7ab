package adaptor

import (
	"net/http"

	"backoffice/internal/usecase"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

type CountryHandler struct {
	service usecase.CountryService
	log     *zap.Logger
}

func NewCountryHandler(service usecase.CountryService, log *zap.Logger) *CountryHandler {
	return &CountryHandler{
		service: service,
		log:     log.With(zap.String("handler", "country")),
	}
}

// List handles GET /api/countries, the lookup behind every country picker.
func (h *CountryHandler) List(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list countries")
		return
	}

	utils.ResponseSuccess(w, "success", countries)
}
