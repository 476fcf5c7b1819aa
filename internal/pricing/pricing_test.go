package pricing

import (
	"testing"

	"github.com/petpal-app/petpal-backend/pkg/config"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy(t *testing.T) Policy {
	t.Helper()
	policy, err := PolicyFromConfig(config.PricingConfig{
		FreeShippingThreshold: "50.00",
		FlatShippingFee:       "5.99",
		TaxRate:               "0.08",
	})
	require.NoError(t, err)
	return policy
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestComputeFreeShippingAboveThreshold(t *testing.T) {
	t.Parallel()

	totals, err := defaultPolicy(t).Compute([]Line{
		{ProductID: 1, Quantity: 2, UnitPrice: dec(t, "39.99")},
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec(t, "79.98")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Shipping.IsZero(), "shipping %s", totals.Shipping)
	assert.True(t, totals.Tax.Equal(dec(t, "6.40")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec(t, "86.38")), "total %s", totals.Total)
}

func TestComputeFlatShippingBelowThreshold(t *testing.T) {
	t.Parallel()

	totals, err := defaultPolicy(t).Compute([]Line{
		{ProductID: 1, Quantity: 1, UnitPrice: dec(t, "29.99")},
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec(t, "29.99")))
	assert.True(t, totals.Shipping.Equal(dec(t, "5.99")))
	assert.True(t, totals.Tax.Equal(dec(t, "2.40")))
	assert.True(t, totals.Total.Equal(dec(t, "38.38")))
}

func TestComputeThresholdBoundaryStillPaysShipping(t *testing.T) {
	t.Parallel()

	totals, err := defaultPolicy(t).Compute([]Line{
		{ProductID: 1, Quantity: 1, UnitPrice: dec(t, "50.00")},
	})
	require.NoError(t, err)

	assert.True(t, totals.Shipping.Equal(dec(t, "5.99")), "exactly at threshold pays shipping")

	totals, err = defaultPolicy(t).Compute([]Line{
		{ProductID: 1, Quantity: 1, UnitPrice: dec(t, "50.01")},
	})
	require.NoError(t, err)
	assert.True(t, totals.Shipping.IsZero(), "a cent above threshold ships free")
}

func TestComputeEmptyCartIsAllZeros(t *testing.T) {
	t.Parallel()

	totals, err := defaultPolicy(t).Compute(nil)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTaxRoundsToCents(t *testing.T) {
	t.Parallel()

	// 10.01 * 0.08 = 0.8008 which must land on 0.80 exactly.
	totals, err := defaultPolicy(t).Compute([]Line{
		{ProductID: 1, Quantity: 1, UnitPrice: dec(t, "10.01")},
	})
	require.NoError(t, err)

	assert.True(t, totals.Tax.Equal(dec(t, "0.80")), "tax %s", totals.Tax)
	assert.Equal(t, int32(-2), totals.Tax.Exponent())
}

func TestComputeIsOrderIndependent(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: 1, Quantity: 3, UnitPrice: dec(t, "4.33")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec(t, "19.99")},
		{ProductID: 3, Quantity: 2, UnitPrice: dec(t, "0.07")},
	}
	reversed := []Line{lines[2], lines[1], lines[0]}

	forward, err := defaultPolicy(t).Compute(lines)
	require.NoError(t, err)
	backward, err := defaultPolicy(t).Compute(reversed)
	require.NoError(t, err)

	assert.True(t, forward.Subtotal.Equal(backward.Subtotal))
	assert.True(t, forward.Shipping.Equal(backward.Shipping))
	assert.True(t, forward.Tax.Equal(backward.Tax))
	assert.True(t, forward.Total.Equal(backward.Total))
}

func TestComputeRejectsBadLines(t *testing.T) {
	t.Parallel()

	_, err := defaultPolicy(t).Compute([]Line{{ProductID: 1, Quantity: 0, UnitPrice: dec(t, "1.00")}})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = defaultPolicy(t).Compute([]Line{{ProductID: 1, Quantity: 1, UnitPrice: dec(t, "-0.01")}})
	assert.Error(t, err)
}

func TestPolicyFromConfigRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := PolicyFromConfig(config.PricingConfig{
		FreeShippingThreshold: "fifty",
		FlatShippingFee:       "5.99",
		TaxRate:               "0.08",
	})
	assert.Error(t, err)

	_, err = PolicyFromConfig(config.PricingConfig{
		FreeShippingThreshold: "50.00",
		FlatShippingFee:       "-1",
		TaxRate:               "0.08",
	})
	assert.Error(t, err)
}
