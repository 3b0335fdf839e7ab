package middleware

import (
	"net/http"
	"strings"

	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

const ActorIDHeader = "X-Actor-ID"

// Actor reads the acting user's id from X-Actor-ID. Requests without the
// header run as the system actor; a malformed value is rejected.
func Actor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ActorIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			actorID, err := utils.ParseID(raw)
			if err != nil {
				logger.Warn("Rejected malformed actor header",
					zap.String("value", raw),
					zap.String("path", r.URL.Path))
				utils.ResponseBadRequest(w, "Invalid "+ActorIDHeader+" header", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetActorContext(r.Context(), actorID)))
		})
	}
}
