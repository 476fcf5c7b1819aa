package middleware

import (
	"net/http"

	"github.com/petpal-app/petpal-backend/api/responses"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
)

// RequireAuth rejects anonymous requests with a JSON 401.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data := SessionFromContext(r.Context())
			if !data.IsAuthenticated() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please login to continue."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthRedirect sends anonymous requests to the login page with a flash
// instead of a JSON error. Used on the page-flavored order routes.
func RequireAuthRedirect(store *session.Store, logg *logger.Logger, location string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			data := SessionFromContext(ctx)
			if data.IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			if sid := SIDFromContext(ctx); sid != "" && data != nil {
				data.Flash = &session.Flash{Type: "error", Message: "Please login to continue."}
				if err := store.Save(ctx, sid, data); err != nil && logg != nil {
					logg.Error(ctx, "save login flash", err)
				}
			}
			http.Redirect(w, r, location, http.StatusSeeOther)
		})
	}
}
