package wire

import (
	"net/http"

	"backoffice/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireIdentity mounts the index, detail and write routes of one identity
// kind. /bulk is registered ahead of /{id}.
func wireIdentity[V any](r chi.Router, h *adaptor.IdentityHandler[V], writeLimit func(http.Handler) http.Handler) {
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
