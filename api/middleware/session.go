package middleware

import (
	"errors"
	"net/http"

	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/pkg/config"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
)

// Session loads the request's session from the cookie, creating an anonymous
// one when the cookie is missing or the stored entry has expired. Every
// request downstream sees a usable session with a CSRF token.
func Session(store *session.Store, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sid := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				sid = cookie.Value
			}

			data, err := store.Get(ctx, sid)
			if err != nil && !errors.Is(err, session.ErrNotFound) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session"))
				return
			}
			if data == nil {
				sid, data, err = store.Create(ctx)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session"))
					return
				}
				SetCookie(w, cfg, sid)
			}

			ctx = WithSession(ctx, sid, data)
			if logg != nil && data.IsAuthenticated() {
				ctx = logg.WithUserID(ctx, data.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetCookie writes the session cookie with the configured attributes.
func SetCookie(w http.ResponseWriter, cfg config.SessionConfig, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
