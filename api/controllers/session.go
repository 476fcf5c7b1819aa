package controllers

import (
	"net/http"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

// SessionShow reports the caller's session: identity when logged in, the CSRF
// token for subsequent posts, and any pending flash. Reading the flash here
// consumes it.
func SessionShow(sessions *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data := middleware.SessionFromContext(ctx)
		if data == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session unavailable"))
			return
		}

		env := types.NewEnvelope(true, "").
			With("authenticated", data.IsAuthenticated()).
			With("csrf_token", data.CSRFToken)

		if data.IsAuthenticated() {
			env.With("user", userResponse(data.UserID, data.Username, data.FullName))
		}

		flash, err := sessions.PopFlash(ctx, middleware.SIDFromContext(ctx), data)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pop flash"))
			return
		}
		if flash != nil {
			env.With("flash", map[string]string{
				"type":    flash.Type,
				"message": flash.Message,
			})
		}

		responses.WriteSuccess(w, env)
	}
}
