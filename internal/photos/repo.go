package photos

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for pet photos.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a photo repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a photo record.
func (r *Repository) Create(ctx context.Context, photo *models.PetPhoto) (*models.PetPhoto, error) {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// List returns all photos newest first with their owners, for the community
// wall.
func (r *Repository) List(ctx context.Context) ([]models.PetPhoto, error) {
	var rows []models.PetPhoto
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindForUser loads one owned photo.
func (r *Repository) FindForUser(ctx context.Context, userID, photoID int64) (*models.PetPhoto, error) {
	var photo models.PetPhoto
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", photoID, userID).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Delete removes one owned photo row and reports the affected row count.
func (r *Repository) Delete(ctx context.Context, userID, photoID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", photoID, userID).
		Delete(&models.PetPhoto{})
	return result.RowsAffected, result.Error
}
