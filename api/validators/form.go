package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
)

// FormString returns the trimmed form field value.
func FormString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// FormInt64 parses an integer form field. A blank or malformed value fails
// with the supplied validation message so callers control the user-facing
// wording.
func FormInt64(r *http.Request, key, invalidMessage string) (int64, error) {
	raw := FormString(r, key)
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, invalidMessage)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, invalidMessage)
	}
	return value, nil
}

// FormInt is FormInt64 for plain int fields like ratings.
func FormInt(r *http.Request, key, invalidMessage string) (int, error) {
	value, err := FormInt64(r, key, invalidMessage)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

// FormBool reports whether a checkbox-style field was submitted truthy.
func FormBool(r *http.Request, key string) bool {
	switch strings.ToLower(FormString(r, key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

