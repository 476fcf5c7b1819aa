package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

// WriteSuccess writes the flat success envelope with status 200.
func WriteSuccess(w http.ResponseWriter, env types.Envelope) {
	WriteSuccessStatus(w, http.StatusOK, env)
}

// WriteSuccessStatus writes the flat success envelope with an explicit status.
func WriteSuccessStatus(w http.ResponseWriter, status int, env types.Envelope) {
	if env == nil {
		env = types.NewEnvelope(true, "")
	}
	if _, ok := env["success"]; !ok {
		env["success"] = true
	}
	writeJSON(w, status, env)
}

// WriteError maps the error to its HTTP status and writes the flat failure
// envelope. Validation details surface under "errors" when the code allows it.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.Envelope{
		"success": false,
		"message": msg,
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload["errors"] = details
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error_code": string(typed.Code()),
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
