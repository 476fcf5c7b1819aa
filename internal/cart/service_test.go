package cart

import (
	"context"
	"testing"

	"github.com/petpal-app/petpal-backend/internal/pricing"
	"github.com/petpal-app/petpal-backend/internal/products"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	productsDDL := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 100,
  created_at DATETIME
);`
	cartDDL := `
CREATE TABLE IF NOT EXISTS cart_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(productsDDL).Error)
	require.NoError(t, db.Exec(cartDDL).Error)
	require.NoError(t, db.Exec("DELETE FROM cart_items").Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

func testPolicy(t *testing.T) pricing.Policy {
	t.Helper()
	policy, err := pricing.PolicyFromConfig(config.PricingConfig{
		FreeShippingThreshold: "50.00",
		FlatShippingFee:       "5.99",
		TaxRate:               "0.08",
	})
	require.NoError(t, err)
	return policy
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), products.NewRepository(db), testPolicy(t))
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Category: models.ProductCategoryAccessories,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddUpsertsSingleRow(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "Chew Toy", "12.50")

	count, err := svc.Add(context.Background(), 1, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.Add(context.Background(), 1, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var rows []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&rows).Error)
	require.Len(t, rows, 1, "repeat adds must not duplicate the row")
	assert.Equal(t, 2, rows[0].Quantity)
}

func TestAddUnknownProduct(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	_, err := svc.Add(context.Background(), 1, 999)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Product not found.", typed.Message())

	_, err = svc.Add(context.Background(), 1, 0)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestChangeQuantityRecomputesTotals(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	productA := seedProduct(t, db, "Dog Bed", "29.99")
	productB := seedProduct(t, db, "Cat Fountain", "49.99")

	_, err := svc.Add(context.Background(), 1, productA.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), 1, productB.ID)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.True(t, view.Totals.Subtotal.Equal(decimal.RequireFromString("79.98")))
	assert.True(t, view.Totals.Shipping.IsZero())
	assert.True(t, view.Totals.Total.Equal(decimal.RequireFromString("86.38")))

	var itemB models.CartItem
	require.NoError(t, db.Where("user_id = ? AND product_id = ?", 1, productB.ID).First(&itemB).Error)

	// Dropping B to zero removes it and the remaining totals fall below the
	// free shipping threshold.
	result, err := svc.ChangeQuantity(context.Background(), 1, itemB.ID, DirectionDecrease)
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Zero(t, result.Quantity)
	assert.True(t, result.ItemTotal.IsZero())
	assert.Equal(t, 1, result.CartCount)
	assert.True(t, result.Totals.Subtotal.Equal(decimal.RequireFromString("29.99")))
	assert.True(t, result.Totals.Shipping.Equal(decimal.RequireFromString("5.99")))
	assert.True(t, result.Totals.Tax.Equal(decimal.RequireFromString("2.40")))
	assert.True(t, result.Totals.Total.Equal(decimal.RequireFromString("38.38")))

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestChangeQuantityIncrease(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "Bird Swing", "9.25")

	_, err := svc.Add(context.Background(), 1, product.ID)
	require.NoError(t, err)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	result, err := svc.ChangeQuantity(context.Background(), 1, item.ID, DirectionIncrease)
	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Equal(t, 2, result.Quantity)
	assert.True(t, result.ItemTotal.Equal(decimal.RequireFromString("18.50")))
	assert.Equal(t, 2, result.CartCount)
}

func TestChangeQuantityRejectsBadDirection(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	_, err := svc.ChangeQuantity(context.Background(), 1, 1, "sideways")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRemoveEnforcesOwnership(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "Fish Flakes", "4.99")

	_, err := svc.Add(context.Background(), 1, product.ID)
	require.NoError(t, err)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	// A different user cannot remove it, and the owner's row survives.
	_, err = svc.Remove(context.Background(), 2, item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Item not found.", typed.Message())

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	summary, err := svc.Remove(context.Background(), 1, item.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.CartCount)
	assert.True(t, summary.Totals.Total.IsZero())
}

func TestViewEmptyCart(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	view, err := svc.View(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.CartCount)
	assert.True(t, view.Totals.Subtotal.IsZero())
	assert.True(t, view.Totals.Shipping.IsZero())
}
