package hospitals

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
)

// HospitalWithRating is one directory row with its review aggregate.
type HospitalWithRating struct {
	ID          int64   `gorm:"column:id"`
	Name        string  `gorm:"column:name"`
	Address     string  `gorm:"column:address"`
	Phone       string  `gorm:"column:phone"`
	Email       string  `gorm:"column:email"`
	Image       string  `gorm:"column:image"`
	AvgRating   float64 `gorm:"column:avg_rating"`
	ReviewCount int64   `gorm:"column:review_count"`
}

// Repository exposes reads over the hospital directory.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a hospital repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListWithRatings returns all hospitals with their mean rating and review
// count, best rated first. Hospitals without reviews rate 0.
func (r *Repository) ListWithRatings(ctx context.Context) ([]HospitalWithRating, error) {
	var rows []HospitalWithRating
	err := r.db.WithContext(ctx).
		Model(&models.Hospital{}).
		Select("hospitals.id, hospitals.name, hospitals.address, hospitals.phone, hospitals.email, hospitals.image, COALESCE(AVG(reviews.rating), 0) AS avg_rating, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.hospital_id = hospitals.id").
		Group("hospitals.id").
		Order("avg_rating DESC, review_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Exists reports whether the hospital id is in the directory.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Hospital{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
