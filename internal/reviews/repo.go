package reviews

import (
	"context"
	"time"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ReviewWithAuthor is one review joined with its author and hospital names.
type ReviewWithAuthor struct {
	ID           int64     `gorm:"column:id"`
	HospitalID   int64     `gorm:"column:hospital_id"`
	HospitalName string    `gorm:"column:hospital_name"`
	Username     string    `gorm:"column:username"`
	FullName     string    `gorm:"column:full_name"`
	Rating       int       `gorm:"column:rating"`
	Comment      string    `gorm:"column:comment"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// Repository exposes persistence operations for hospital reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// ListWithAuthors returns all reviews newest first with author and hospital
// names joined in.
func (r *Repository) ListWithAuthors(ctx context.Context) ([]ReviewWithAuthor, error) {
	var rows []ReviewWithAuthor
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.id, reviews.hospital_id, hospitals.name AS hospital_name, users.username, users.full_name, reviews.rating, reviews.comment, reviews.created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN hospitals ON hospitals.id = reviews.hospital_id").
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
