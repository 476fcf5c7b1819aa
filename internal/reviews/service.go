package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"go.uber.org/multierr"
)

const (
	commentMinLength = 10
	commentMaxLength = 1000
)

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	ListWithAuthors(ctx context.Context) ([]ReviewWithAuthor, error)
}

type hospitalChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service exposes review submission and listing. Repeat reviews from the
// same user for the same hospital are accepted on purpose.
type Service interface {
	Submit(ctx context.Context, userID int64, input SubmitInput) (*models.Review, error)
	List(ctx context.Context) ([]ReviewWithAuthor, error)
}

type service struct {
	repo      reviewStore
	hospitals hospitalChecker
}

// NewService builds a review service.
func NewService(repo reviewStore, hospitals hospitalChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if hospitals == nil {
		return nil, fmt.Errorf("hospital checker required")
	}
	return &service{repo: repo, hospitals: hospitals}, nil
}

// SubmitInput carries the review form fields.
type SubmitInput struct {
	HospitalID int64
	Rating     int
	Comment    string
}

// Submit validates and stores one review.
func (s *service) Submit(ctx context.Context, userID int64, input SubmitInput) (*models.Review, error) {
	input.Comment = strings.TrimSpace(input.Comment)

	var verr error
	if input.HospitalID <= 0 {
		verr = multierr.Append(verr, errors.New("Please select a hospital."))
	} else {
		exists, err := s.hospitals.Exists(ctx, input.HospitalID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check hospital")
		}
		if !exists {
			verr = multierr.Append(verr, errors.New("Invalid hospital selected."))
		}
	}
	if input.Rating < 1 || input.Rating > 5 {
		verr = multierr.Append(verr, errors.New("Please provide a rating between 1 and 5."))
	}
	if len(input.Comment) < commentMinLength {
		verr = multierr.Append(verr, errors.New("Review must be at least 10 characters long."))
	}
	if len(input.Comment) > commentMaxLength {
		verr = multierr.Append(verr, errors.New("Review cannot exceed 1000 characters."))
	}
	if verr != nil {
		all := multierr.Errors(verr)
		messages := make([]string, 0, len(all))
		for _, e := range all {
			messages = append(messages, e.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, messages[0]).WithDetails(messages)
	}

	review, err := s.repo.Create(ctx, &models.Review{
		UserID:     userID,
		HospitalID: input.HospitalID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

// List returns all reviews newest first.
func (s *service) List(ctx context.Context) ([]ReviewWithAuthor, error) {
	rows, err := s.repo.ListWithAuthors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return rows, nil
}
