package validators

import (
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
)

// ReadMultipartFile pulls one uploaded file out of a multipart form. The
// request body is capped at maxBytes before parsing so an oversized upload
// fails fast instead of buffering to disk first.
func ReadMultipartFile(r *http.Request, field string, maxBytes int64, missingMessage, tooLargeMessage string) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+1)
	if err := r.ParseMultipartForm(maxBytes + 1); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, tooLargeMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request.")
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, missingMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request.")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request.")
	}
	if int64(len(data)) > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, tooLargeMessage)
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingMessage)
	}
	return data, nil
}
