package controllers

import (
	"net/http"
	"time"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/api/validators"
	reviewsvc "github.com/petpal-app/petpal-backend/internal/reviews"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

type reviewRequest struct {
	HospitalID int64  `json:"hospital_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewSubmit stores one hospital review for the logged-in user.
func ReviewSubmit(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reviewRequest
		if validators.IsJSON(r) {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			payload.HospitalID, _ = validators.FormInt64(r, "hospital_id", "Please select a hospital.")
			payload.Rating, _ = validators.FormInt(r, "rating", "Please provide a rating between 1 and 5.")
			payload.Comment = validators.FormString(r, "comment")
		}

		review, err := svc.Submit(r.Context(), middleware.UserIDFromContext(r.Context()), reviewsvc.SubmitInput{
			HospitalID: payload.HospitalID,
			Rating:     payload.Rating,
			Comment:    payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated,
			types.NewEnvelope(true, "Review submitted successfully!").
				With("review_id", review.ID))
	}
}

// ReviewList returns the public review feed, newest first.
func ReviewList(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			items = append(items, map[string]any{
				"id":            row.ID,
				"hospital_id":   row.HospitalID,
				"hospital_name": row.HospitalName,
				"username":      row.Username,
				"full_name":     row.FullName,
				"rating":        row.Rating,
				"comment":       row.Comment,
				"created_at":    row.CreatedAt.Format(time.RFC3339),
			})
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("reviews", items))
	}
}
