package adaptor

import (
	"net/http"
	"strings"

	"backoffice/internal/dto/response"
	"backoffice/internal/usecase"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

// IdentityHandler serves one identity kind. V is the list row projection.
type IdentityHandler[V any] struct {
	service usecase.IdentityService[V]
	label   string
	log     *zap.Logger
}

func NewIdentityHandler[V any](service usecase.IdentityService[V], label string, log *zap.Logger) *IdentityHandler[V] {
	return &IdentityHandler[V]{
		service: service,
		label:   label,
		log:     log.With(zap.String("handler", strings.ToLower(label))),
	}
}

// List handles GET /  ?page=&per_page=&search=
func (h *IdentityHandler[V]) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), listRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list")
		return
	}

	utils.ResponseSuccess(w, "success", page.WithLinks(r.URL.Path, r.URL.Query()))
}

// Get handles GET /{id}
func (h *IdentityHandler[V]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleServiceError(w, h.log, err, "get")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get")
		return
	}

	utils.ResponseSuccess(w, "success", detail)
}

// Create handles POST / with a JSON or multipart body.
func (h *IdentityHandler[V]) Create(w http.ResponseWriter, r *http.Request) {
	input, cleanup, err := decodeIdentity(w, r)
	defer cleanup()
	if err != nil {
		handleServiceError(w, h.log, err, "create")
		return
	}

	detail, err := h.service.Create(r.Context(), actorFrom(r), input)
	if err != nil {
		handleServiceError(w, h.log, err, "create")
		return
	}

	utils.ResponseCreated(w, h.label+" created successfully", detail)
}

// Update handles PUT /{id} with a JSON or multipart body.
func (h *IdentityHandler[V]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleServiceError(w, h.log, err, "update")
		return
	}

	input, cleanup, err := decodeIdentity(w, r)
	defer cleanup()
	if err != nil {
		handleServiceError(w, h.log, err, "update")
		return
	}

	detail, err := h.service.Update(r.Context(), actorFrom(r), id, input)
	if err != nil {
		handleServiceError(w, h.log, err, "update")
		return
	}

	utils.ResponseSuccess(w, h.label+" updated successfully", detail)
}

// Delete handles DELETE /{id}
func (h *IdentityHandler[V]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleServiceError(w, h.log, err, "delete")
		return
	}

	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		handleServiceError(w, h.log, err, "delete")
		return
	}

	utils.ResponseSuccess(w, h.label+" deleted successfully", nil)
}

// BulkDelete handles DELETE /bulk with {"ids": [...]}.
func (h *IdentityHandler[V]) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeBulkDelete(w, r)
	if err != nil {
		handleServiceError(w, h.log, err, "bulk delete")
		return
	}

	n, err := h.service.BulkDelete(r.Context(), actorFrom(r), ids)
	if err != nil {
		handleServiceError(w, h.log, err, "bulk delete")
		return
	}

	utils.ResponseSuccess(w, "Selected records deleted successfully", response.BulkDeleteResponse{Deleted: n})
}
