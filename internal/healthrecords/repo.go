package healthrecords

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for pet health records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a health record repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a record.
func (r *Repository) Create(ctx context.Context, record *models.HealthRecord) (*models.HealthRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ListForUser returns the user's records, most recent checkup first.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]models.HealthRecord, error) {
	var rows []models.HealthRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("checkup_date DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes one owned record and reports the affected row count. The
// ownership filter lives in the delete statement itself.
func (r *Repository) Delete(ctx context.Context, userID, recordID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recordID, userID).
		Delete(&models.HealthRecord{})
	return result.RowsAffected, result.Error
}
