package sale

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// taxRate is the flat 10% sales tax applied to the discounted price.
var taxRate = decimal.NewFromFloat(0.10)

// Totals holds the fields derived from quantity, unit price and discount.
type Totals struct {
	TotalPrice decimal.Decimal
	FinalPrice decimal.Decimal
	TaxAmount  decimal.Decimal
}

// ComputeTotals derives total, final and tax amounts:
//
//	totalPrice = quantity * unitPrice
//	finalPrice = totalPrice - discount
//	taxAmount  = finalPrice * 0.10
//
// It is used for the live preview while editing and is the authoritative
// calculation applied before every persist.
func ComputeTotals(quantity, unitPrice, discount decimal.Decimal) Totals {
	total := quantity.Mul(unitPrice)
	final := total.Sub(discount)

	return Totals{
		TotalPrice: total,
		FinalPrice: final,
		TaxAmount:  final.Mul(taxRate),
	}
}

// GenerateInvoiceNumber builds an INV-{year}-{6 digits} invoice number from
// the low six digits of the millisecond timestamp, matching what the sale
// form generates.
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", now.Year(), now.UnixMilli()%1_000_000)
}
