package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/petpal-app/petpal-backend/internal/pricing"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quantity change directions accepted by ChangeQuantity.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

type productLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service exposes cart mutations and reads for one authenticated user.
type Service interface {
	Add(ctx context.Context, userID, productID int64) (int, error)
	ChangeQuantity(ctx context.Context, userID, itemID int64, direction string) (*UpdateResult, error)
	Remove(ctx context.Context, userID, itemID int64) (*Summary, error)
	View(ctx context.Context, userID int64) (*View, error)
	Count(ctx context.Context, userID int64) (int, error)
}

type service struct {
	repo     CartRepository
	products productLoader
	policy   pricing.Policy
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, products productLoader, policy pricing.Policy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products, policy: policy}, nil
}

// Summary is the cart-wide aggregate returned after a mutation.
type Summary struct {
	CartCount int
	Totals    pricing.Totals
}

// UpdateResult reports the outcome of a quantity change.
type UpdateResult struct {
	Removed   bool
	Quantity  int
	ItemTotal decimal.Decimal
	Summary
}

// View is the full cart page payload.
type View struct {
	Items []models.CartItem
	Summary
}

// Add puts one unit of the product in the cart and returns the new item
// count.
func (s *service) Add(ctx context.Context, userID, productID int64) (int, error) {
	if productID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid product.")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found.")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.AddOne(ctx, userID, productID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	count, err := s.repo.CountItems(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return count, nil
}

// ChangeQuantity bumps one owned line up or down. Dropping to zero deletes
// the line. Returns the new line total plus recomputed cart totals.
func (s *service) ChangeQuantity(ctx context.Context, userID, itemID int64, direction string) (*UpdateResult, error) {
	if itemID <= 0 || (direction != DirectionIncrease && direction != DirectionDecrease) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid request.")
	}

	item, err := s.repo.FindItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	quantity := item.Quantity + 1
	if direction == DirectionDecrease {
		quantity = item.Quantity - 1
	}

	removed := false
	if quantity <= 0 {
		if _, err := s.repo.Delete(ctx, userID, itemID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		removed = true
		quantity = 0
	} else {
		affected, err := s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		if affected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found.")
		}
	}

	summary, err := s.summarize(ctx, userID)
	if err != nil {
		return nil, err
	}

	itemTotal := decimal.Zero
	if item.Product != nil {
		itemTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	}
	return &UpdateResult{
		Removed:   removed,
		Quantity:  quantity,
		ItemTotal: itemTotal,
		Summary:   *summary,
	}, nil
}

// Remove deletes one owned line and returns recomputed cart totals.
func (s *service) Remove(ctx context.Context, userID, itemID int64) (*Summary, error) {
	if itemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid request.")
	}

	affected, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found.")
	}

	return s.summarize(ctx, userID)
}

// View returns the cart lines with totals for the cart and checkout pages.
func (s *service) View(ctx context.Context, userID int64) (*View, error) {
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	summary, err := s.totalsFor(items)
	if err != nil {
		return nil, err
	}
	return &View{Items: items, Summary: *summary}, nil
}

// Count returns the sum of quantities in the user's cart.
func (s *service) Count(ctx context.Context, userID int64) (int, error) {
	count, err := s.repo.CountItems(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return count, nil
}

func (s *service) summarize(ctx context.Context, userID int64) (*Summary, error) {
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	return s.totalsFor(items)
}

func (s *service) totalsFor(items []models.CartItem) (*Summary, error) {
	lines := make([]pricing.Line, 0, len(items))
	count := 0
	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart item missing product")
		}
		lines = append(lines, pricing.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
		})
		count += item.Quantity
	}

	totals, err := s.policy.Compute(lines)
	if err != nil {
		return nil, err
	}
	return &Summary{CartCount: count, Totals: totals}, nil
}
