package sale_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/salestream/server/internal/sale"
)

func TestComputeTotals(t *testing.T) {
	type testCase struct {
		name      string
		quantity  string
		unitPrice string
		discount  string
		wantTotal string
		wantFinal string
		wantTax   string
	}

	tests := []testCase{
		{
			name:     "TwoAtFiftyWithTenOff",
			quantity: "2", unitPrice: "50", discount: "10",
			wantTotal: "100", wantFinal: "90", wantTax: "9",
		},
		{
			name:     "NoDiscount",
			quantity: "3", unitPrice: "19.99", discount: "0",
			wantTotal: "59.97", wantFinal: "59.97", wantTax: "5.997",
		},
		{
			name:     "FractionalQuantity",
			quantity: "0.5", unitPrice: "8", discount: "1",
			wantTotal: "4", wantFinal: "3", wantTax: "0.3",
		},
		{
			name:     "DiscountExceedsTotal",
			quantity: "1", unitPrice: "10", discount: "15",
			wantTotal: "10", wantFinal: "-5", wantTax: "-0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sale.ComputeTotals(dec(t, tt.quantity), dec(t, tt.unitPrice), dec(t, tt.discount))

			assert.True(t, got.TotalPrice.Equal(dec(t, tt.wantTotal)), "totalPrice = %s", got.TotalPrice)
			assert.True(t, got.FinalPrice.Equal(dec(t, tt.wantFinal)), "finalPrice = %s", got.FinalPrice)
			assert.True(t, got.TaxAmount.Equal(dec(t, tt.wantTax)), "taxAmount = %s", got.TaxAmount)
		})
	}
}

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2025, 7, 25, 11, 48, 4, 0, time.UTC)

	got := sale.GenerateInvoiceNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^INV-2025-\d{6}$`), got)

	// Same millisecond, same number: the suffix is derived from the clock.
	assert.Equal(t, got, sale.GenerateInvoiceNumber(now))
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}

	return d
}
