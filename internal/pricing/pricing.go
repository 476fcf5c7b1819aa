package pricing

import (
	"fmt"

	"github.com/petpal-app/petpal-backend/pkg/config"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Policy holds the single checkout pricing policy. Every surface that shows
// money (cart, checkout, order placement) computes through the same policy so
// the numbers agree everywhere.
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// PolicyFromConfig parses the configured policy values.
func PolicyFromConfig(cfg config.PricingConfig) (Policy, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid free shipping threshold %q: %w", cfg.FreeShippingThreshold, err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid flat shipping fee %q: %w", cfg.FlatShippingFee, err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid tax rate %q: %w", cfg.TaxRate, err)
	}
	if threshold.IsNegative() || fee.IsNegative() || rate.IsNegative() {
		return Policy{}, fmt.Errorf("pricing policy values must be non-negative")
	}
	return Policy{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRate:               rate,
	}, nil
}

// Line is one priced cart line.
type Line struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals is the result of pricing a set of lines. All values carry two
// decimal places.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute prices the lines under the policy. Shipping is free strictly above
// the threshold; a subtotal exactly at the threshold still pays the flat fee.
// Tax applies to the subtotal only and rounds half away from zero to cents.
func (p Policy) Compute(lines []Line) (Totals, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "line price cannot be negative")
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	shipping := p.FlatShippingFee
	if len(lines) == 0 || subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping.Round(2),
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax).Round(2),
	}, nil
}
