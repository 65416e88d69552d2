package policy

import (
	"testing"
	"time"

	"reclaim/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"IKEA", "ikea"},
		{"  Best   Buy  ", "best buy"},
		{"Home\tDepot", "home depot"},
		{"costco", "costco"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeMerchant(tt.input))
	}
}

func TestResolveDefaults(t *testing.T) {
	purchase := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	returnBy, warrantyEnds := Resolve(nil, models.RefundTypeNotSpecified, purchase)

	require.NotNil(t, returnBy)
	require.NotNil(t, warrantyEnds)
	assert.Equal(t, purchase.AddDate(0, 0, models.DefaultReturnPolicyDays), *returnBy)
	assert.Equal(t, purchase.AddDate(0, models.DefaultWarrantyMonths, 0), *warrantyEnds)
}

func TestResolveMerchantRuleOverridesDefaults(t *testing.T) {
	purchase := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rule := &models.MerchantRule{ReturnPolicyDays: 90, WarrantyMonths: 24}

	returnBy, warrantyEnds := Resolve(rule, models.RefundTypeFull, purchase)

	require.NotNil(t, returnBy)
	require.NotNil(t, warrantyEnds)
	assert.Equal(t, time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC), *returnBy)
	assert.Equal(t, time.Date(2028, 3, 15, 0, 0, 0, 0, time.UTC), *warrantyEnds)
}

func TestResolveNoRefundSuppressesReturnBy(t *testing.T) {
	purchase := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rule := &models.MerchantRule{ReturnPolicyDays: 90, WarrantyMonths: 12}

	returnBy, warrantyEnds := Resolve(rule, models.RefundTypeNone, purchase)

	assert.Nil(t, returnBy, "final-sale purchases have no return window")
	require.NotNil(t, warrantyEnds, "warranty survives a no-refund policy")
}

func TestResolveWarrantyMonthArithmetic(t *testing.T) {
	// Month-end purchase: Jan 31 + 1 month normalizes per calendar rules.
	purchase := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	rule := &models.MerchantRule{ReturnPolicyDays: 30, WarrantyMonths: 1}

	_, warrantyEnds := Resolve(rule, models.RefundTypeFull, purchase)

	require.NotNil(t, warrantyEnds)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), *warrantyEnds)
}

func TestResolveIsPure(t *testing.T) {
	purchase := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rule := &models.MerchantRule{ReturnPolicyDays: 14, WarrantyMonths: 6}

	r1, w1 := Resolve(rule, models.RefundTypeFull, purchase)
	r2, w2 := Resolve(rule, models.RefundTypeFull, purchase)

	assert.Equal(t, *r1, *r2)
	assert.Equal(t, *w1, *w2)
}
