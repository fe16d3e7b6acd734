package importer_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestream/server/internal/importer"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)

	return d
}

const header = "productId,productName,quantity,unitPrice,discount,customerId,customerName,paymentMethod,paymentStatus,saleerId,SaleerName,saleDate,invoiceNumber,notes"

func TestService_Parse(t *testing.T) {
	csv := header + "\n" +
		"P-1,Mug,2,50,10,C-1,Ada,card,pending,S-1,Grace,2025-07-25,INV-2025-000001,gift wrap\n" +
		"P-2,Kettle,1,80,,C-2,Alan,cash,paid,S-1,Grace,2025-07-26T10:30:00Z,INV-2025-000002,\n"

	rows, failed, err := importer.NewService().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, rows, 2)

	first := rows[0].Input
	assert.Equal(t, "P-1", *first.ProductID)
	assert.Equal(t, "card", *first.PaymentMethod)
	assert.Equal(t, "gift wrap", *first.Notes)

	// Totals are derived during parsing: 2*50-10, 10% tax.
	assert.Equal(t, "100", first.TotalPrice.String())
	assert.Equal(t, "90", first.FinalPrice.String())
	assert.True(t, first.TaxAmount.Equal(decimalFromString(t, "9")))

	second := rows[1].Input
	assert.True(t, second.Discount.IsZero())
	assert.Nil(t, second.Notes)
	assert.Equal(t, 3, rows[1].Line)
}

func TestService_Parse_ReportsBadRows(t *testing.T) {
	csv := header + "\n" +
		"P-1,Mug,two,50,0,C-1,Ada,card,pending,S-1,Grace,2025-07-25,INV-1,\n" +
		"P-2,Kettle,1,80,0,C-2,Alan,cash,paid,S-1,Grace,not-a-date,INV-2,\n" +
		"P-3,Plate,3,12,0,C-3,Joan,card,paid,S-1,Grace,2025-07-25,INV-3,\n"

	rows, failed, err := importer.NewService().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "P-3", *rows[0].Input.ProductID)

	require.Len(t, failed, 2)
	assert.Equal(t, 2, failed[0].Line)
	assert.Contains(t, failed[0].Err, "quantity")
	assert.Equal(t, 3, failed[1].Line)
	assert.Contains(t, failed[1].Err, "saleDate")
}

func TestService_Parse_MissingColumn(t *testing.T) {
	csv := "productId,quantity\nP-1,2\n"

	_, _, err := importer.NewService().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
