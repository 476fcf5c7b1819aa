package cart

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes persistence operations for cart items. Every mutation
// filters by user id inside the same statement so ownership is never a
// separate check-then-act pair.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// AddOne adds one unit of the product to the user's cart. An existing
// (user, product) row gains quantity 1 atomically instead of duplicating.
func (r *Repository) AddOne(ctx context.Context, userID, productID int64) error {
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + 1")}),
		}).
		Create(&item).Error
}

// FindItem loads one cart line owned by the user, with its product.
func (r *Repository) FindItem(ctx context.Context, userID, itemID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns the user's cart lines oldest first, with products.
func (r *Repository) ListItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateQuantity sets the quantity of one owned cart line and reports the
// affected row count.
func (r *Repository) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

// Delete removes one owned cart line and reports the affected row count.
func (r *Repository) Delete(ctx context.Context, userID, itemID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteAll clears the user's cart and reports the affected row count.
func (r *Repository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// CountItems sums quantities across the user's cart lines.
func (r *Repository) CountItems(ctx context.Context, userID int64) (int, error) {
	var count *int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("SUM(quantity)").
		Where("user_id = ?", userID).
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	if count == nil {
		return 0, nil
	}
	return *count, nil
}
