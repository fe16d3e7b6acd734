package sale

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile_payment"
	PaymentCredit PaymentMethod = "credit"
)

// PaymentStatus tracks how much of the sale has been settled.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

var (
	// ErrNotFound is returned when a sale id does not exist in the store.
	ErrNotFound = errors.New("sale not found")

	// ErrDuplicateInvoice is returned when an invoice number is already taken.
	ErrDuplicateInvoice = errors.New("invoice number already exists")
)

// Sale is a single sales transaction. The JSON field names match the wire
// schema consumed by the browser and terminal clients; SaleerName keeps its
// historical capitalization.
type Sale struct {
	ID            int64           `json:"id"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Discount      decimal.Decimal `json:"discount"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	SaleerID      string          `json:"saleerId"`
	SaleerName    string          `json:"SaleerName"`
	SaleDate      time.Time       `json:"saleDate"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentCredit:
		return true
	}

	return false
}

// ValidStatus reports whether s is one of the accepted payment statuses.
func ValidStatus(s PaymentStatus) bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}

	return false
}
