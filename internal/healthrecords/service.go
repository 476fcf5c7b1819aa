package healthrecords

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"go.uber.org/multierr"
)

const (
	dateLayout       = "2006-01-02"
	petNameMaxLength = 100
)

type recordStore interface {
	Create(ctx context.Context, record *models.HealthRecord) (*models.HealthRecord, error)
	ListForUser(ctx context.Context, userID int64) ([]models.HealthRecord, error)
	Delete(ctx context.Context, userID, recordID int64) (int64, error)
}

// Service exposes health record tracking for one authenticated user.
type Service interface {
	Submit(ctx context.Context, userID int64, input SubmitInput) (*models.HealthRecord, error)
	List(ctx context.Context, userID int64) ([]models.HealthRecord, error)
	Delete(ctx context.Context, userID, recordID int64) error
}

type service struct {
	repo recordStore
	now  func() time.Time
}

// NewService builds a health record service.
func NewService(repo recordStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("health record repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// SubmitInput carries the health record form fields. Optional fields arrive
// as raw strings; blanks become NULL rather than empty strings.
type SubmitInput struct {
	PetName         string
	CheckupDate     string
	VetName         string
	Diagnosis       string
	Treatment       string
	NextAppointment string
	Notes           string
}

// Submit validates and stores one record. The checkup date must be a real
// calendar date no later than today.
func (s *service) Submit(ctx context.Context, userID int64, input SubmitInput) (*models.HealthRecord, error) {
	input.PetName = strings.TrimSpace(input.PetName)
	input.CheckupDate = strings.TrimSpace(input.CheckupDate)
	input.VetName = strings.TrimSpace(input.VetName)
	input.Diagnosis = strings.TrimSpace(input.Diagnosis)
	input.Treatment = strings.TrimSpace(input.Treatment)
	input.NextAppointment = strings.TrimSpace(input.NextAppointment)
	input.Notes = strings.TrimSpace(input.Notes)

	var verr error
	if input.PetName == "" {
		verr = multierr.Append(verr, errors.New("Pet name is required."))
	} else if len(input.PetName) > petNameMaxLength {
		verr = multierr.Append(verr, errors.New("Pet name is too long."))
	}

	var checkupDate time.Time
	if input.CheckupDate == "" {
		verr = multierr.Append(verr, errors.New("Checkup date is required."))
	} else if parsed, err := time.Parse(dateLayout, input.CheckupDate); err != nil {
		verr = multierr.Append(verr, errors.New("Invalid date format."))
	} else if parsed.After(s.today()) {
		verr = multierr.Append(verr, errors.New("Checkup date cannot be in the future."))
	} else {
		checkupDate = parsed
	}

	var nextAppointment *time.Time
	if input.NextAppointment != "" {
		parsed, err := time.Parse(dateLayout, input.NextAppointment)
		if err != nil {
			verr = multierr.Append(verr, errors.New("Invalid next appointment date format."))
		} else {
			nextAppointment = &parsed
		}
	}

	if len(input.VetName) > petNameMaxLength {
		verr = multierr.Append(verr, errors.New("Veterinarian name is too long."))
	}

	if verr != nil {
		all := multierr.Errors(verr)
		messages := make([]string, 0, len(all))
		for _, e := range all {
			messages = append(messages, e.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, messages[0]).WithDetails(messages)
	}

	record, err := s.repo.Create(ctx, &models.HealthRecord{
		UserID:          userID,
		PetName:         input.PetName,
		CheckupDate:     checkupDate,
		VetName:         optional(input.VetName),
		Diagnosis:       optional(input.Diagnosis),
		Treatment:       optional(input.Treatment),
		NextAppointment: nextAppointment,
		Notes:           optional(input.Notes),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create health record")
	}
	return record, nil
}

// List returns the user's records, most recent checkup first.
func (s *service) List(ctx context.Context, userID int64) ([]models.HealthRecord, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list health records")
	}
	return rows, nil
}

// Delete removes one owned record. A record belonging to someone else is
// reported as missing, never as forbidden.
func (s *service) Delete(ctx context.Context, userID, recordID int64) error {
	if recordID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid record.")
	}
	affected, err := s.repo.Delete(ctx, userID, recordID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete health record")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Record not found.")
	}
	return nil
}

func (s *service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
