package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/petpal-app/petpal-backend/internal/cart"
	"github.com/petpal-app/petpal-backend/internal/orders"
	"github.com/petpal-app/petpal-backend/internal/pricing"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 100,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  order_number TEXT NOT NULL UNIQUE,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"order_items", "orders", "cart_items", "products"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

// failingCartStore breaks the cart clear inside the placement transaction.
type failingCartStore struct {
	cart.CartRepository
}

func (f *failingCartStore) WithTx(tx *gorm.DB) cart.CartRepository {
	return &failingCartStore{CartRepository: f.CartRepository.WithTx(tx)}
}

func (f *failingCartStore) DeleteAll(_ context.Context, _ int64) (int64, error) {
	return 0, errors.New("simulated cart clear failure")
}

// staleSnapshotCartStore replays a cart snapshot that another placement
// already consumed, mimicking two checkouts racing on the same cart.
type staleSnapshotCartStore struct {
	cart.CartRepository
	snapshot []models.CartItem
}

func (s *staleSnapshotCartStore) WithTx(tx *gorm.DB) cart.CartRepository {
	return &staleSnapshotCartStore{CartRepository: s.CartRepository.WithTx(tx), snapshot: s.snapshot}
}

func (s *staleSnapshotCartStore) ListItems(_ context.Context, _ int64) ([]models.CartItem, error) {
	return s.snapshot, nil
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

func newCheckoutService(t *testing.T, db *gorm.DB, carts cart.CartRepository) Service {
	t.Helper()
	svc, err := NewService(gormTxRunner{db: db}, carts, orders.NewRepository(db), testPolicy(t))
	require.NoError(t, err)
	return svc
}

func seedCart(t *testing.T, db *gorm.DB, userID int64, prices map[string]string) {
	t.Helper()
	for name, price := range prices {
		product := &models.Product{
			Name:     name,
			Category: models.ProductCategoryAccessories,
			Price:    decimal.RequireFromString(price),
		}
		require.NoError(t, db.Create(product).Error)
		require.NoError(t, db.Create(&models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 1}).Error)
	}
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		FirstName:     "Buddy",
		LastName:      "Owner",
		Address:       "12 Bark Lane",
		City:          "Caterbury",
		Postcode:      "90210",
		Phone:         "555-0182",
		PaymentMethod: "card",
	}
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, cart.NewRepository(db))

	seedCart(t, db, 1, map[string]string{"Dog Bed": "29.99", "Cat Fountain": "49.99"})

	order, err := svc.PlaceOrder(context.Background(), 1, validInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, order.OrderNumber, strings.ToUpper(order.OrderNumber))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("86.38")), "total %s", order.TotalAmount)
	assert.Equal(t, "Buddy Owner\n12 Bark Lane\nCaterbury, 90210\n555-0182", order.ShippingAddress)
	require.Len(t, order.Items, 2)

	var cartRows int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&cartRows).Error)
	assert.Zero(t, cartRows, "cart must be cleared on success")

	var itemRows int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemRows).Error)
	assert.Equal(t, int64(2), itemRows)
}

func TestPlaceOrderSnapshotPriceSurvivesCatalogChange(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, cart.NewRepository(db))

	seedCart(t, db, 1, map[string]string{"Price Shift Toy": "10.00"})

	order, err := svc.PlaceOrder(context.Background(), 1, validInput())
	require.NoError(t, err)

	// Raising the catalog price afterwards must not touch the snapshot.
	require.NoError(t, db.Model(&models.Product{}).Where("name = ?", "Price Shift Toy").Update("price", "99.00").Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("10.00")))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, cart.NewRepository(db))

	_, err := svc.PlaceOrder(context.Background(), 1, validInput())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderSecondCallSeesEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, cart.NewRepository(db))

	seedCart(t, db, 1, map[string]string{"One Shot Toy": "15.00"})

	_, err := svc.PlaceOrder(context.Background(), 1, validInput())
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), 1, validInput())
	require.ErrorIs(t, err, ErrEmptyCart)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", 1).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount, "the same cart snapshot must not produce two orders")
}

func TestPlaceOrderConcurrentPlacementMintsOneOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := cart.NewRepository(db)

	seedCart(t, db, 1, map[string]string{"Contested Toy": "15.00"})

	snapshot, err := repo.ListItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	// First placement wins the cart.
	_, err = newCheckoutService(t, db, repo).PlaceOrder(context.Background(), 1, validInput())
	require.NoError(t, err)

	// The loser still reads the pre-placement snapshot. Its cart clear
	// affects zero rows, so the whole transaction must roll back instead
	// of minting a second order from the same cart.
	stale := &staleSnapshotCartStore{CartRepository: repo, snapshot: snapshot}
	_, err = newCheckoutService(t, db, stale).PlaceOrder(context.Background(), 1, validInput())
	require.ErrorIs(t, err, ErrEmptyCart)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", 1).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount, "one cart snapshot must mint exactly one order")

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestPlaceOrderRollsBackOnFailure(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &failingCartStore{CartRepository: cart.NewRepository(db)})

	seedCart(t, db, 1, map[string]string{"Rollback Toy": "20.00"})

	_, err := svc.PlaceOrder(context.Background(), 1, validInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount, "no order row may survive the rollback")

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount, "no order items may survive the rollback")

	var cartRows int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&cartRows).Error)
	assert.Equal(t, int64(1), cartRows, "cart must be left untouched")
}

func TestPlaceOrderValidatesBeforeTouchingTheStore(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, cart.NewRepository(db))

	seedCart(t, db, 1, map[string]string{"Untouched Toy": "20.00"})

	_, err := svc.PlaceOrder(context.Background(), 1, PlaceOrderInput{PaymentMethod: "barter"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().([]string)
	require.True(t, ok)
	assert.Contains(t, details, "First name is required.")
	assert.Contains(t, details, "Invalid payment method.")

	var cartRows int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&cartRows).Error)
	assert.Equal(t, int64(1), cartRows)
}

func TestOrderNumberShape(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		number := newOrderNumber()
		assert.Len(t, number, len("ORD-")+13)
		assert.True(t, strings.HasPrefix(number, "ORD-"))
		_, dup := seen[number]
		assert.False(t, dup, "order numbers must not repeat")
		seen[number] = struct{}{}
	}
}
