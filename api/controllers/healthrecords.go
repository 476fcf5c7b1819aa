package controllers

import (
	"net/http"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/api/validators"
	recordsvc "github.com/petpal-app/petpal-backend/internal/healthrecords"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

const recordDateLayout = "2006-01-02"

type healthRecordRequest struct {
	PetName         string `json:"pet_name"`
	CheckupDate     string `json:"checkup_date"`
	VetName         string `json:"vet_name"`
	Diagnosis       string `json:"diagnosis"`
	Treatment       string `json:"treatment"`
	NextAppointment string `json:"next_appointment"`
	Notes           string `json:"notes"`
}

func (p *healthRecordRequest) fromForm(r *http.Request) {
	p.PetName = validators.FormString(r, "pet_name")
	p.CheckupDate = validators.FormString(r, "checkup_date")
	p.VetName = validators.FormString(r, "vet_name")
	p.Diagnosis = validators.FormString(r, "diagnosis")
	p.Treatment = validators.FormString(r, "treatment")
	p.NextAppointment = validators.FormString(r, "next_appointment")
	p.Notes = validators.FormString(r, "notes")
}

// HealthRecordSubmit saves one vet-visit record for the caller's pet.
func HealthRecordSubmit(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload healthRecordRequest
		if validators.IsJSON(r) {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			payload.fromForm(r)
		}

		record, err := svc.Submit(r.Context(), middleware.UserIDFromContext(r.Context()), recordsvc.SubmitInput{
			PetName:         payload.PetName,
			CheckupDate:     payload.CheckupDate,
			VetName:         payload.VetName,
			Diagnosis:       payload.Diagnosis,
			Treatment:       payload.Treatment,
			NextAppointment: payload.NextAppointment,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated,
			types.NewEnvelope(true, "Health record saved successfully!").
				With("record_id", record.ID))
	}
}

// HealthRecordList returns the caller's records, most recent checkup first.
func HealthRecordList(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]map[string]any, 0, len(rows))
		for i := range rows {
			items = append(items, healthRecordResponse(&rows[i]))
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("records", items))
	}
}

// HealthRecordDelete removes one of the caller's records.
func HealthRecordDelete(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var recordID int64
		if validators.IsJSON(r) {
			var payload struct {
				RecordID int64 `json:"record_id"`
			}
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			recordID = payload.RecordID
		} else {
			recordID, _ = validators.FormInt64(r, "record_id", "Invalid record.")
		}

		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "Record deleted successfully."))
	}
}

func healthRecordResponse(record *models.HealthRecord) map[string]any {
	entry := map[string]any{
		"id":           record.ID,
		"pet_name":     record.PetName,
		"checkup_date": record.CheckupDate.Format(recordDateLayout),
	}
	if record.VetName != nil {
		entry["vet_name"] = *record.VetName
	}
	if record.Diagnosis != nil {
		entry["diagnosis"] = *record.Diagnosis
	}
	if record.Treatment != nil {
		entry["treatment"] = *record.Treatment
	}
	if record.NextAppointment != nil {
		entry["next_appointment"] = record.NextAppointment.Format(recordDateLayout)
	}
	if record.Notes != nil {
		entry["notes"] = *record.Notes
	}
	return entry
}
