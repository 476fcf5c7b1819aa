package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/petpal-app/petpal-backend/internal/cart"
	"github.com/petpal-app/petpal-backend/internal/orders"
	"github.com/petpal-app/petpal-backend/internal/pricing"
	"github.com/petpal-app/petpal-backend/pkg/db"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// ErrEmptyCart signals order placement against an empty cart. Callers send
// the user back to the cart view instead of surfacing a fatal error.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeConflict, "Your cart is empty.")

const orderNumberPrefix = "ORD-"

var validPaymentMethods = map[string]struct{}{
	"card":   {},
	"cod":    {},
	"paypal": {},
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service places orders from the caller's cart.
type Service interface {
	PlaceOrder(ctx context.Context, userID int64, input PlaceOrderInput) (*models.Order, error)
}

type service struct {
	tx     txRunner
	carts  cart.CartRepository
	orders orders.OrderRepository
	policy pricing.Policy
}

// NewService builds a checkout service backed by the provided stack.
func NewService(tx txRunner, carts cart.CartRepository, orderRepo orders.OrderRepository, policy pricing.Policy) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{tx: tx, carts: carts, orders: orderRepo, policy: policy}, nil
}

// PlaceOrderInput carries the checkout form fields.
type PlaceOrderInput struct {
	FirstName     string
	LastName      string
	Address       string
	City          string
	Postcode      string
	Phone         string
	PaymentMethod string
}

// PlaceOrder snapshots the cart into an order atomically: one order row, one
// line item per cart line with the price copied at this moment, then the
// cart is cleared. Any failure rolls the whole transaction back with the
// cart untouched.
func (s *service) PlaceOrder(ctx context.Context, userID int64, input PlaceOrderInput) (*models.Order, error) {
	input = normalizeInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	order, err := s.placeOnce(ctx, userID, input)
	if err != nil && db.IsUniqueViolation(err, "order_number") {
		// Order number collision. Retry once with a fresh number.
		order, err = s.placeOnce(ctx, userID, input)
	}
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}
	return order, nil
}

func (s *service) placeOnce(ctx context.Context, userID int64, input PlaceOrderInput) (*models.Order, error) {
	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		items, err := carts.ListItems(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		lines := make([]pricing.Line, 0, len(items))
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			if item.Product == nil {
				return fmt.Errorf("cart item %d missing product", item.ID)
			}
			lines = append(lines, pricing.Line{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
			})
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			})
		}

		totals, err := s.policy.Compute(lines)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:          userID,
			OrderNumber:     newOrderNumber(),
			TotalAmount:     totals.Total,
			Status:          models.OrderStatusPending,
			PaymentMethod:   input.PaymentMethod,
			ShippingAddress: formatShippingAddress(input),
			Items:           orderItems,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		// A concurrent placement on the same cart can consume the rows
		// between the read and the clear. The delete count is the guard:
		// fewer rows than the snapshot means the cart is already spent.
		deleted, err := carts.DeleteAll(ctx, userID)
		if err != nil {
			return err
		}
		if deleted < int64(len(items)) {
			return ErrEmptyCart
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func normalizeInput(input PlaceOrderInput) PlaceOrderInput {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Address = strings.TrimSpace(input.Address)
	input.City = strings.TrimSpace(input.City)
	input.Postcode = strings.TrimSpace(input.Postcode)
	input.Phone = strings.TrimSpace(input.Phone)
	input.PaymentMethod = strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if input.PaymentMethod == "" {
		input.PaymentMethod = "card"
	}
	return input
}

func validateInput(input PlaceOrderInput) error {
	var err error

	required := []struct {
		value   string
		message string
	}{
		{input.FirstName, "First name is required."},
		{input.LastName, "Last name is required."},
		{input.Address, "Address is required."},
		{input.City, "City is required."},
		{input.Postcode, "Postcode is required."},
		{input.Phone, "Phone is required."},
	}
	for _, field := range required {
		if field.value == "" {
			err = multierr.Append(err, errors.New(field.message))
		}
	}
	if _, ok := validPaymentMethods[input.PaymentMethod]; !ok {
		err = multierr.Append(err, errors.New("Invalid payment method."))
	}

	if err == nil {
		return nil
	}
	all := multierr.Errors(err)
	messages := make([]string, 0, len(all))
	for _, e := range all {
		messages = append(messages, e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, messages[0]).WithDetails(messages)
}

func formatShippingAddress(input PlaceOrderInput) string {
	return fmt.Sprintf("%s %s\n%s\n%s, %s\n%s",
		input.FirstName, input.LastName, input.Address, input.City, input.Postcode, input.Phone)
}

func newOrderNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return orderNumberPrefix + raw[:13]
}
