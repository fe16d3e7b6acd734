package sale

import (
	"context"
	"fmt"
)

// Event names published on the notification channel.
const (
	EventCreated = "sale-created"
	EventUpdated = "sale-updated"
	EventDeleted = "sale-deleted"
)

// DefaultPageLimit is used when the caller supplies no usable limit.
const DefaultPageLimit = 10

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	CreateSale(ctx context.Context, s *Sale) error
	GetSale(ctx context.Context, id int64) (*Sale, error)
	ListSales(ctx context.Context, limit, offset int) ([]*Sale, error)
	CountSales(ctx context.Context) (int64, error)
	UpdateSale(ctx context.Context, s *Sale) error
	DeleteSale(ctx context.Context, id int64) error
}

// Publisher fans a mutation event out to every connected client. Publishing
// is fire-and-forget; it must never fail the originating mutation.
type Publisher interface {
	Publish(event string, payload any)
}

type Service struct {
	repo Repository
	pub  Publisher
}

func NewService(repo Repository, pub Publisher) *Service {
	return &Service{repo: repo, pub: pub}
}

// Page is one page of sales plus the pagination metadata clients render.
type Page struct {
	TotalItems  int64
	TotalPages  int
	CurrentPage int
	Sales       []*Sale
}

// Create validates the payload, persists a new sale and broadcasts it.
// Derived fields are recomputed server-side regardless of what the client
// sent. Nothing is published when validation or the write fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Sale, error) {
	params, err := in.Validate()
	if err != nil {
		return nil, err
	}

	totals := ComputeTotals(params.Quantity, params.UnitPrice, params.Discount)

	sl := &Sale{
		ProductID:     params.ProductID,
		ProductName:   params.ProductName,
		Quantity:      params.Quantity,
		UnitPrice:     params.UnitPrice,
		TotalPrice:    totals.TotalPrice,
		Discount:      params.Discount,
		FinalPrice:    totals.FinalPrice,
		TaxAmount:     totals.TaxAmount,
		CustomerID:    params.CustomerID,
		CustomerName:  params.CustomerName,
		PaymentMethod: params.PaymentMethod,
		PaymentStatus: params.PaymentStatus,
		SaleerID:      params.SaleerID,
		SaleerName:    params.SaleerName,
		SaleDate:      params.SaleDate,
		InvoiceNumber: params.InvoiceNumber,
		Notes:         params.Notes,
	}

	if err := s.repo.CreateSale(ctx, sl); err != nil {
		return nil, err
	}

	s.pub.Publish(EventCreated, sl)

	return sl, nil
}

// List returns one page of sales in insertion order. Page and limit fall
// back to 1 and DefaultPageLimit when absent or non-positive.
func (s *Service) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultPageLimit
	}

	total, err := s.repo.CountSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting sales: %w", err)
	}

	sales, err := s.repo.ListSales(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Page{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Sales:       sales,
	}, nil
}

// Get returns a single sale by id.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

// Update merges the supplied fields into an existing sale, recomputes the
// derived fields when a pricing input changed, persists the result and
// broadcasts the full post-update record.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Sale, error) {
	existing, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.apply(existing)

	if in.touchesPricing() {
		totals := ComputeTotals(existing.Quantity, existing.UnitPrice, existing.Discount)
		existing.TotalPrice = totals.TotalPrice
		existing.FinalPrice = totals.FinalPrice
		existing.TaxAmount = totals.TaxAmount
	}

	if err := s.repo.UpdateSale(ctx, existing); err != nil {
		return nil, err
	}

	s.pub.Publish(EventUpdated, existing)

	return existing, nil
}

// UpdateStatus is the status-only specialization of Update.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status PaymentStatus) (*Sale, error) {
	if !ValidStatus(status) {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "paymentStatus", Message: "must be one of: " + statusValues},
		}}
	}

	existing, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.PaymentStatus = status

	if err := s.repo.UpdateSale(ctx, existing); err != nil {
		return nil, err
	}

	s.pub.Publish(EventUpdated, existing)

	return existing, nil
}

// Delete destroys a sale and broadcasts its id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetSale(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteSale(ctx, id); err != nil {
		return err
	}

	s.pub.Publish(EventDeleted, id)

	return nil
}
