package wire

import (
	"net/http"

	"backoffice/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTags(r chi.Router, h *adaptor.TagHandler, writeLimit func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(writeLimit)

		r.Post("/", h.Create)
		r.Delete("/bulk", h.BulkDelete)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
