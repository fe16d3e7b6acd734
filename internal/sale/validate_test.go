package sale_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestream/server/internal/sale"
)

func ptr[T any](v T) *T { return &v }

func validCreateInput() sale.CreateInput {
	return sale.CreateInput{
		ProductID:     ptr("P-100"),
		ProductName:   ptr("Espresso Machine"),
		Quantity:      ptr(decimal.NewFromInt(2)),
		UnitPrice:     ptr(decimal.NewFromInt(50)),
		TotalPrice:    ptr(decimal.NewFromInt(100)),
		FinalPrice:    ptr(decimal.NewFromInt(90)),
		Discount:      ptr(decimal.NewFromInt(10)),
		TaxAmount:     ptr(decimal.NewFromInt(9)),
		CustomerID:    ptr("C-7"),
		CustomerName:  ptr("Ada Lovelace"),
		PaymentMethod: ptr("card"),
		PaymentStatus: ptr("pending"),
		SaleerID:      ptr("S-1"),
		SaleerName:    ptr("Grace Hopper"),
		SaleDate:      ptr(time.Date(2025, 7, 25, 12, 0, 0, 0, time.UTC)),
		InvoiceNumber: ptr("INV-2025-000123"),
		Notes:         ptr("walk-in"),
	}
}

func TestCreateInput_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		params, err := validCreateInput().Validate()
		require.NoError(t, err)

		assert.Equal(t, "P-100", params.ProductID)
		assert.Equal(t, sale.PaymentCard, params.PaymentMethod)
		assert.Equal(t, sale.StatusPending, params.PaymentStatus)
		assert.Equal(t, "INV-2025-000123", params.InvoiceNumber)
		assert.True(t, params.Discount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("DefaultableFieldsMayBeAbsent", func(t *testing.T) {
		in := validCreateInput()
		in.Discount = nil
		in.TaxAmount = nil
		in.Notes = nil

		params, err := in.Validate()
		require.NoError(t, err)

		assert.True(t, params.Discount.IsZero())
		assert.True(t, params.TaxAmount.IsZero())
		assert.Empty(t, params.Notes)
	})

	t.Run("MissingFieldsAreAllReported", func(t *testing.T) {
		in := validCreateInput()
		in.ProductID = nil
		in.Quantity = nil
		in.PaymentMethod = nil
		in.SaleDate = nil

		_, err := in.Validate()
		require.Error(t, err)

		var verr *sale.ValidationError
		require.True(t, errors.As(err, &verr))

		fields := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = f.Field
		}

		assert.ElementsMatch(t, []string{"productId", "quantity", "paymentMethod", "saleDate"}, fields)
	})

	t.Run("UnknownPaymentMethodNamesAllowedValues", func(t *testing.T) {
		in := validCreateInput()
		in.PaymentMethod = ptr("barter")

		_, err := in.Validate()

		var verr *sale.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "paymentMethod", verr.Fields[0].Field)
		assert.Contains(t, verr.Fields[0].Message, "cash, card, mobile_payment, credit")
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		in := validCreateInput()
		in.Quantity = ptr(decimal.Zero)

		_, err := in.Validate()

		var verr *sale.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "quantity", verr.Fields[0].Field)
	})

	t.Run("NegativeUnitPriceAndDiscount", func(t *testing.T) {
		in := validCreateInput()
		in.UnitPrice = ptr(decimal.NewFromInt(-1))
		in.Discount = ptr(decimal.NewFromInt(-5))

		_, err := in.Validate()

		var verr *sale.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 2)
	})
}

func TestUpdateInput_Validate(t *testing.T) {
	t.Run("EmptyPatchIsValid", func(t *testing.T) {
		assert.NoError(t, sale.UpdateInput{}.Validate())
	})

	t.Run("SuppliedFieldsAreChecked", func(t *testing.T) {
		in := sale.UpdateInput{
			PaymentStatus: ptr("settled"),
			Discount:      ptr(decimal.NewFromInt(-1)),
		}

		err := in.Validate()

		var verr *sale.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("ValidPartialPatch", func(t *testing.T) {
		in := sale.UpdateInput{
			PaymentStatus: ptr("paid"),
			Notes:         ptr("settled in cash"),
		}

		assert.NoError(t, in.Validate())
	})
}
