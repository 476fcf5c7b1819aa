package validators

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// IsJSON reports whether the request body is JSON rather than a form post.
func IsJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.EqualFold(strings.TrimSpace(ct), "application/json")
}

// DecodeJSONBody strictly decodes the request body into dest and runs struct
// validation tags over the result.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request.")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			details = append(details, fieldErr.Field()+" "+validationMessage(fieldErr))
		}
		msg := "Invalid request."
		if len(details) > 0 {
			msg = details[0]
		}
		return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request.")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required."
	case "min":
		return "must be at least " + fe.Param() + "."
	case "max":
		return "must be at most " + fe.Param() + "."
	case "email":
		return "must be a valid email."
	}
	return "is invalid."
}
