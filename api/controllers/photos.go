package controllers

import (
	"net/http"
	"time"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/api/validators"
	photosvc "github.com/petpal-app/petpal-backend/internal/photos"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

// PhotoUpload accepts a multipart pet photo and publishes it to the wall.
func PhotoUpload(svc photosvc.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := validators.ReadMultipartFile(r, "photo", cfg.MaxBytes,
			"Please choose a photo to upload.",
			"File size must be less than 5MB.")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		photo, err := svc.Upload(r.Context(), middleware.UserIDFromContext(r.Context()), photosvc.UploadInput{
			PetName:     validators.FormString(r, "pet_name"),
			Description: validators.FormString(r, "description"),
			Data:        data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated,
			types.NewEnvelope(true, "Photo uploaded successfully!").
				With("photo_id", photo.ID).
				With("photo_url", photo.PhotoURL))
	}
}

// PhotoList returns the public photo wall, newest first.
func PhotoList(svc photosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			entry := map[string]any{
				"id":          row.ID,
				"pet_name":    row.PetName,
				"photo_url":   row.PhotoURL,
				"description": row.Description,
				"created_at":  row.CreatedAt.Format(time.RFC3339),
			}
			if row.User != nil {
				entry["username"] = row.User.Username
				entry["full_name"] = row.User.FullName
			}
			items = append(items, entry)
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("photos", items))
	}
}

// PhotoDelete removes one of the caller's photos and its stored file.
func PhotoDelete(svc photosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var photoID int64
		if validators.IsJSON(r) {
			var payload struct {
				PhotoID int64 `json:"photo_id"`
			}
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			photoID = payload.PhotoID
		} else {
			photoID, _ = validators.FormInt64(r, "photo_id", "Invalid photo.")
		}

		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), photoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "Photo deleted successfully."))
	}
}
