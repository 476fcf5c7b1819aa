package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/petpal-app/petpal-backend/api/responses"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
)

const csrfHeader = "X-CSRF-Token"

// Memory ceiling for multipart parsing; larger parts spill to temp files.
const csrfFormMemory = 32 << 10

// CSRF validates the double-submitted token on every mutating request. The
// token rides either the X-CSRF-Token header or the csrf_token form field and
// must match the session's token byte for byte.
func CSRF(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			data := SessionFromContext(r.Context())
			supplied := strings.TrimSpace(r.Header.Get(csrfHeader))
			if supplied == "" {
				if err := parseRequestForm(r); err != nil {
					var maxErr *http.MaxBytesError
					if errors.As(err, &maxErr) {
						responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Request body is too large."))
						return
					}
				}
				supplied = strings.TrimSpace(r.PostFormValue("csrf_token"))
			}

			if !session.ValidateCSRF(data, supplied) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Invalid request. Please refresh and try again."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// parseRequestForm parses the body eagerly so read failures surface here
// rather than being swallowed by PostFormValue.
func parseRequestForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	err := r.ParseMultipartForm(csrfFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}
