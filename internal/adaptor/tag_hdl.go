package adaptor

import (
	"net/http"

	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/internal/usecase"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

type TagHandler struct {
	service usecase.TagService
	log     *zap.Logger
}

func NewTagHandler(service usecase.TagService, log *zap.Logger) *TagHandler {
	return &TagHandler{
		service: service,
		log:     log.With(zap.String("handler", "tag")),
	}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), listRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list tags")
		return
	}

	utils.ResponseSuccess(w, "success", page.WithLinks(r.URL.Path, r.URL.Query()))
}

func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleServiceError(w, h.log, err, "get tag")
		return
	}

	tag, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get tag")
		return
	}

	utils.ResponseSuccess(w, "success", tag)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.TagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, h.log, err, "create tag")
		return
	}

	tag, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create tag")
		return
	}

	utils.ResponseCreated(w, "Tag created successfully", tag)
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleServiceError(w, h.log, err, "update tag")
		return
	}

	var req request.TagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, h.log, err, "update tag")
		return
	}

	tag, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update tag")
		return
	}

	utils.ResponseSuccess(w, "Tag updated successfully", tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleServiceError(w, h.log, err, "delete tag")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete tag")
		return
	}

	utils.ResponseSuccess(w, "Tag deleted successfully", nil)
}

func (h *TagHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeBulkDelete(w, r)
	if err != nil {
		handleServiceError(w, h.log, err, "bulk delete tags")
		return
	}

	n, err := h.service.BulkDelete(r.Context(), ids)
	if err != nil {
		handleServiceError(w, h.log, err, "bulk delete tags")
		return
	}

	utils.ResponseSuccess(w, "Selected records deleted successfully", response.BulkDeleteResponse{Deleted: n})
}
