package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
)

// money formats a decimal for the wire. Totals are computed as decimals and
// rendered as two-decimal strings, never floats.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pathID(r *http.Request, key, invalidMessage string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, invalidMessage)
	}
	return id, nil
}
