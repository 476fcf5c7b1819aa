package controllers

import (
	"math"
	"net/http"

	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/internal/hospitals"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

// HospitalList returns hospitals ranked by average rating.
func HospitalList(repo *hospitals.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.ListWithRatings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hospitals"))
			return
		}

		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			items = append(items, map[string]any{
				"id":           row.ID,
				"name":         row.Name,
				"address":      row.Address,
				"phone":        row.Phone,
				"email":        row.Email,
				"image":        row.Image,
				"avg_rating":   math.Round(row.AvgRating*10) / 10,
				"review_count": row.ReviewCount,
			})
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("hospitals", items))
	}
}
