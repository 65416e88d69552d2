package extract

import (
	"testing"
	"time"

	"reclaim/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanReceipt = `IKEA
123 Furniture Way
2026-03-15
BILLY Bookcase    79.99
LACK Side table   24.99
TOTAL            104.98
Thank you for shopping with us`

func TestExtractCleanReceipt(t *testing.T) {
	e := New()
	result := e.Extract(cleanReceipt)

	assert.Equal(t, "IKEA", result.Merchant)
	require.NotNil(t, result.Total)
	assert.Equal(t, 104.98, *result.Total)
	require.NotNil(t, result.Date)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *result.Date)
	assert.Equal(t, models.RefundTypeNotSpecified, result.RefundType)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
}

func TestExtractTotalPrefersKeywordLine(t *testing.T) {
	text := `ACME HARDWARE
Hammer              129.00
Nails                 4.50
TOTAL               133.50
Cash tendered       140.00`

	result := New().Extract(text)
	require.NotNil(t, result.Total)
	// 140.00 appears in the text but not on a total-keyword line.
	assert.Equal(t, 133.5, *result.Total)
}

func TestExtractTotalGrandTotalWithThousands(t *testing.T) {
	text := `MEGA ELECTRONICS
2026-01-10
Subtotal          1,150.00
Tax                  92.00
Grand Total       1,242.00`

	result := New().Extract(text)
	require.NotNil(t, result.Total)
	assert.Equal(t, 1242.0, *result.Total)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
}

func TestExtractTotalFallbackCapsConfidence(t *testing.T) {
	text := `CORNER CAFE
2026-02-01
Latte     4.50
Muffin    3.25`

	result := New().Extract(text)
	require.NotNil(t, result.Total)
	assert.Equal(t, 4.5, *result.Total, "without a keyword line the highest amount wins")
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
}

func TestExtractDateFormats(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected time.Time
		fallback bool
	}{
		{"iso", "Date: 2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"slash ymd", "Date: 2026/03/15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"us slash", "Date: 03/15/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"written month", "Mar 15, 2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"day first written", "15 March 2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, fallback := findDate(tt.text)
			require.NotNil(t, date)
			assert.Equal(t, tt.expected, *date)
			assert.Equal(t, tt.fallback, fallback)
		})
	}
}

func TestExtractAmbiguousDayFirstDate(t *testing.T) {
	// 25/03 cannot be month-first; the layout fallback must recover it.
	date, fallback := findDate("Date: 25/03/2026")
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC), *date)
	assert.True(t, fallback)
}

func TestExtractMerchantSkipsBoilerplate(t *testing.T) {
	text := `*** RECEIPT ***
Welcome!
NORTHSIDE GROCERS
2026-04-01
TOTAL 15.00`

	merchant, fallback := findMerchant([]string{"*** RECEIPT ***", "Welcome!", "NORTHSIDE GROCERS"})
	assert.Equal(t, "NORTHSIDE GROCERS", merchant)
	assert.True(t, fallback, "skipping earlier lines is a fallback heuristic")

	result := New().Extract(text)
	assert.Equal(t, "NORTHSIDE GROCERS", result.Merchant)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
}

func TestExtractMerchantRejectsNumericLines(t *testing.T) {
	assert.False(t, plausibleMerchant("0423 1199 8811"))
	assert.False(t, plausibleMerchant("Tel: 555-0100"))
	assert.False(t, plausibleMerchant("www.example.com"))
	assert.True(t, plausibleMerchant("JB Hi-Fi"))
}

func TestExtractRefundType(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"ALL SALES FINAL", models.RefundTypeNone},
		{"No refunds after 30 days", models.RefundTypeNone},
		{"Returns accepted as store credit only", models.RefundTypeStoreCredit},
		{"Exchange only within 14 days", models.RefundTypeExchangeOnly},
		{"Thank you, come again", models.RefundTypeNotSpecified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, detectRefundType(tt.text), "text: %s", tt.text)
	}
}

func TestExtractEmptyTextNeverFails(t *testing.T) {
	result := New().Extract("")

	assert.Empty(t, result.Merchant)
	assert.Nil(t, result.Date)
	assert.Nil(t, result.Total)
	assert.Equal(t, models.RefundTypeNotSpecified, result.RefundType)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
}

func TestExtractGarbageDegradesToLow(t *testing.T) {
	result := New().Extract("@@@@ ???? 0000 ----\n!!!!")

	assert.Empty(t, result.Merchant)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
}
