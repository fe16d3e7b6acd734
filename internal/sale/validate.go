package sale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldError describes a single offending field in a mutation payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every offending field of a payload.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}

	return "invalid sale payload: " + strings.Join(names, ", ")
}

const (
	methodValues = "cash, card, mobile_payment, credit"
	statusValues = "pending, partial, paid"
)

// CreateInput is a sale creation payload as decoded from JSON. Pointer
// fields distinguish absent values from zero values; everything except
// notes, discount and taxAmount is required.
type CreateInput struct {
	ProductID     *string          `json:"productId"`
	ProductName   *string          `json:"productName"`
	Quantity      *decimal.Decimal `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	TotalPrice    *decimal.Decimal `json:"totalPrice"`
	Discount      *decimal.Decimal `json:"discount"`
	FinalPrice    *decimal.Decimal `json:"finalPrice"`
	TaxAmount     *decimal.Decimal `json:"taxAmount"`
	CustomerID    *string          `json:"customerId"`
	CustomerName  *string          `json:"customerName"`
	PaymentMethod *string          `json:"paymentMethod"`
	PaymentStatus *string          `json:"paymentStatus"`
	SaleerID      *string          `json:"saleerId"`
	SaleerName    *string          `json:"SaleerName"`
	SaleDate      *time.Time       `json:"saleDate"`
	InvoiceNumber *string          `json:"invoiceNumber"`
	Notes         *string          `json:"notes"`
}

// CreateParams is the normalized, fully-typed creation record produced by
// the gate. It is the only creation input the service trusts.
type CreateParams struct {
	ProductID     string
	ProductName   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	Discount      decimal.Decimal
	FinalPrice    decimal.Decimal
	TaxAmount     decimal.Decimal
	CustomerID    string
	CustomerName  string
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	SaleerID      string
	SaleerName    string
	SaleDate      time.Time
	InvoiceNumber string
	Notes         string
}

// Validate checks the payload and returns the normalized creation record,
// or a ValidationError listing every offending field.
func (in CreateInput) Validate() (CreateParams, error) {
	var v validator

	params := CreateParams{
		ProductID:     v.requireString("productId", in.ProductID),
		ProductName:   v.requireString("productName", in.ProductName),
		CustomerID:    v.requireString("customerId", in.CustomerID),
		CustomerName:  v.requireString("customerName", in.CustomerName),
		SaleerID:      v.requireString("saleerId", in.SaleerID),
		SaleerName:    v.requireString("SaleerName", in.SaleerName),
		InvoiceNumber: v.requireString("invoiceNumber", in.InvoiceNumber),
	}

	params.Quantity = v.requireDecimal("quantity", in.Quantity)
	params.UnitPrice = v.requireDecimal("unitPrice", in.UnitPrice)
	params.TotalPrice = v.requireDecimal("totalPrice", in.TotalPrice)
	params.FinalPrice = v.requireDecimal("finalPrice", in.FinalPrice)

	if in.Quantity != nil && !in.Quantity.IsPositive() {
		v.fail("quantity", "must be greater than zero")
	}

	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		v.fail("unitPrice", "must not be negative")
	}

	// Defaultable fields.
	if in.Discount != nil {
		if in.Discount.IsNegative() {
			v.fail("discount", "must not be negative")
		}

		params.Discount = *in.Discount
	}

	if in.TaxAmount != nil {
		params.TaxAmount = *in.TaxAmount
	}

	if in.Notes != nil {
		params.Notes = *in.Notes
	}

	if in.PaymentMethod == nil {
		v.fail("paymentMethod", "is required")
	} else if m := PaymentMethod(*in.PaymentMethod); !ValidMethod(m) {
		v.fail("paymentMethod", "must be one of: "+methodValues)
	} else {
		params.PaymentMethod = m
	}

	if in.PaymentStatus == nil {
		v.fail("paymentStatus", "is required")
	} else if s := PaymentStatus(*in.PaymentStatus); !ValidStatus(s) {
		v.fail("paymentStatus", "must be one of: "+statusValues)
	} else {
		params.PaymentStatus = s
	}

	if in.SaleDate == nil || in.SaleDate.IsZero() {
		v.fail("saleDate", "is required")
	} else {
		params.SaleDate = *in.SaleDate
	}

	if err := v.err(); err != nil {
		return CreateParams{}, err
	}

	return params, nil
}

// UpdateInput is a partial sale payload; nil fields are left unchanged.
type UpdateInput struct {
	ProductID     *string          `json:"productId"`
	ProductName   *string          `json:"productName"`
	Quantity      *decimal.Decimal `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	Discount      *decimal.Decimal `json:"discount"`
	CustomerID    *string          `json:"customerId"`
	CustomerName  *string          `json:"customerName"`
	PaymentMethod *string          `json:"paymentMethod"`
	PaymentStatus *string          `json:"paymentStatus"`
	SaleerID      *string          `json:"saleerId"`
	SaleerName    *string          `json:"SaleerName"`
	SaleDate      *time.Time       `json:"saleDate"`
	InvoiceNumber *string          `json:"invoiceNumber"`
	Notes         *string          `json:"notes"`
}

// Validate runs the gate in partial-field mode: only supplied fields are
// checked.
func (in UpdateInput) Validate() error {
	var v validator

	if in.Quantity != nil && !in.Quantity.IsPositive() {
		v.fail("quantity", "must be greater than zero")
	}

	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		v.fail("unitPrice", "must not be negative")
	}

	if in.Discount != nil && in.Discount.IsNegative() {
		v.fail("discount", "must not be negative")
	}

	if in.PaymentMethod != nil && !ValidMethod(PaymentMethod(*in.PaymentMethod)) {
		v.fail("paymentMethod", "must be one of: "+methodValues)
	}

	if in.PaymentStatus != nil && !ValidStatus(PaymentStatus(*in.PaymentStatus)) {
		v.fail("paymentStatus", "must be one of: "+statusValues)
	}

	return v.err()
}

// touchesPricing reports whether the patch changes any derived-field input.
func (in UpdateInput) touchesPricing() bool {
	return in.Quantity != nil || in.UnitPrice != nil || in.Discount != nil
}

// apply merges the supplied fields into s.
func (in UpdateInput) apply(s *Sale) {
	if in.ProductID != nil {
		s.ProductID = *in.ProductID
	}

	if in.ProductName != nil {
		s.ProductName = *in.ProductName
	}

	if in.Quantity != nil {
		s.Quantity = *in.Quantity
	}

	if in.UnitPrice != nil {
		s.UnitPrice = *in.UnitPrice
	}

	if in.Discount != nil {
		s.Discount = *in.Discount
	}

	if in.CustomerID != nil {
		s.CustomerID = *in.CustomerID
	}

	if in.CustomerName != nil {
		s.CustomerName = *in.CustomerName
	}

	if in.PaymentMethod != nil {
		s.PaymentMethod = PaymentMethod(*in.PaymentMethod)
	}

	if in.PaymentStatus != nil {
		s.PaymentStatus = PaymentStatus(*in.PaymentStatus)
	}

	if in.SaleerID != nil {
		s.SaleerID = *in.SaleerID
	}

	if in.SaleerName != nil {
		s.SaleerName = *in.SaleerName
	}

	if in.SaleDate != nil {
		s.SaleDate = *in.SaleDate
	}

	if in.InvoiceNumber != nil {
		s.InvoiceNumber = *in.InvoiceNumber
	}

	if in.Notes != nil {
		s.Notes = *in.Notes
	}
}

// validator accumulates field errors.
type validator struct {
	fields []FieldError
}

func (v *validator) fail(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) requireString(field string, val *string) string {
	if val == nil || strings.TrimSpace(*val) == "" {
		v.fail(field, "is required")
		return ""
	}

	return *val
}

func (v *validator) requireDecimal(field string, val *decimal.Decimal) decimal.Decimal {
	if val == nil {
		v.fail(field, "is required")
		return decimal.Zero
	}

	return *val
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}

	return &ValidationError{Fields: v.fields}
}
