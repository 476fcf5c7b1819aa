package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"gorm.io/gorm"
)

const petNameMaxLength = 100

// Extensions come from the sniffed type, never from the uploaded filename.
var allowedExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type photoStore interface {
	Create(ctx context.Context, photo *models.PetPhoto) (*models.PetPhoto, error)
	List(ctx context.Context) ([]models.PetPhoto, error)
	FindForUser(ctx context.Context, userID, photoID int64) (*models.PetPhoto, error)
	Delete(ctx context.Context, userID, photoID int64) (int64, error)
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
	FilenameFromURL(url string) (string, error)
}

// Service exposes the community photo wall: upload, list, delete.
type Service interface {
	Upload(ctx context.Context, userID int64, input UploadInput) (*models.PetPhoto, error)
	List(ctx context.Context) ([]models.PetPhoto, error)
	Delete(ctx context.Context, userID, photoID int64) error
}

type service struct {
	repo     photoStore
	files    fileStore
	maxBytes int64
}

// NewService builds a photo service.
func NewService(repo photoStore, files fileStore, cfg config.UploadConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("photo repository required")
	}
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	if cfg.MaxBytes <= 0 {
		return nil, fmt.Errorf("upload size limit must be positive")
	}
	return &service{repo: repo, files: files, maxBytes: cfg.MaxBytes}, nil
}

// UploadInput carries the upload form fields plus the raw file bytes.
type UploadInput struct {
	PetName     string
	Description string
	Data        []byte
}

// Upload validates the file by sniffing its real content type, stores it on
// disk, then records it. A failed insert deletes the stored file so neither
// side leaks an orphan.
func (s *service) Upload(ctx context.Context, userID int64, input UploadInput) (*models.PetPhoto, error) {
	input.PetName = strings.TrimSpace(input.PetName)
	input.Description = strings.TrimSpace(input.Description)

	if input.PetName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please enter your pet's name.")
	}
	if len(input.PetName) > petNameMaxLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Pet name is too long.")
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please choose a photo to upload.")
	}
	if int64(len(input.Data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "File size must be less than 5MB.")
	}

	sniffed := mimetype.Detect(input.Data)
	ext, ok := allowedExtensions[sniffed.String()]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid file type. Please upload JPG, PNG, GIF, or WebP.")
	}

	filename := fmt.Sprintf("pet_%s.%s", strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	url, err := s.files.Save(filename, input.Data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store photo file")
	}

	photo, err := s.repo.Create(ctx, &models.PetPhoto{
		UserID:      userID,
		PetName:     input.PetName,
		PhotoURL:    url,
		Description: input.Description,
	})
	if err != nil {
		// The insert failed after the file landed on disk. Remove the file
		// so no stored photo exists without a record pointing at it.
		if cleanupErr := s.files.Delete(filename); cleanupErr != nil {
			err = fmt.Errorf("%w (cleanup failed: %v)", err, cleanupErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create photo record")
	}
	return photo, nil
}

// List returns the community wall, newest first.
func (s *service) List(ctx context.Context) ([]models.PetPhoto, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list photos")
	}
	return rows, nil
}

// Delete removes one owned photo record and its stored file. Photos owned by
// someone else read as missing.
func (s *service) Delete(ctx context.Context, userID, photoID int64) error {
	if photoID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid photo.")
	}

	photo, err := s.repo.FindForUser(ctx, userID, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Photo not found.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photo")
	}

	affected, err := s.repo.Delete(ctx, userID, photoID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete photo record")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Photo not found.")
	}

	if filename, err := s.files.FilenameFromURL(photo.PhotoURL); err == nil {
		// Best effort. The record is gone; a leftover file is harmless and
		// the store's delete is idempotent.
		_ = s.files.Delete(filename)
	}
	return nil
}
