package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/salestream/server/internal/sale"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectSaleColumns = `
	id, product_id, product_name, quantity, unit_price, total_price, discount,
	final_price, tax_amount, customer_id, customer_name, payment_method,
	payment_status, saleer_id, saleer_name, sale_date, invoice_number, notes,
	created_at, updated_at
`

// scanSale reads one sale row. Column order must match selectSaleColumns.
func scanSale(sc scanner) (*sale.Sale, error) {
	var s sale.Sale

	var methodStr, statusStr string

	var notes sql.NullString

	if err := sc.Scan(
		&s.ID, &s.ProductID, &s.ProductName, &s.Quantity, &s.UnitPrice,
		&s.TotalPrice, &s.Discount, &s.FinalPrice, &s.TaxAmount,
		&s.CustomerID, &s.CustomerName, &methodStr, &statusStr,
		&s.SaleerID, &s.SaleerName, &s.SaleDate, &s.InvoiceNumber, &notes,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.PaymentMethod = sale.PaymentMethod(methodStr)
	s.PaymentStatus = sale.PaymentStatus(statusStr)
	s.Notes = notes.String

	return &s, nil
}

func (s *Store) CreateSale(ctx context.Context, sl *sale.Sale) error {
	query := `
		INSERT INTO sales (
			product_id, product_name, quantity, unit_price, total_price, discount,
			final_price, tax_amount, customer_id, customer_name, payment_method,
			payment_status, saleer_id, saleer_name, sale_date, invoice_number, notes,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sl.ProductID,
		sl.ProductName,
		sl.Quantity,
		sl.UnitPrice,
		sl.TotalPrice,
		sl.Discount,
		sl.FinalPrice,
		sl.TaxAmount,
		sl.CustomerID,
		sl.CustomerName,
		sl.PaymentMethod,
		sl.PaymentStatus,
		sl.SaleerID,
		sl.SaleerName,
		sl.SaleDate,
		sl.InvoiceNumber,
		nullableNotes(sl.Notes),
	).Scan(&sl.ID, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sale.ErrDuplicateInvoice
		}

		return fmt.Errorf("creating sale: %w", err)
	}

	return nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE id = $1`

	sl, err := scanSale(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	return sl, nil
}

// ListSales returns one page of sales in insertion order.
func (s *Store) ListSales(ctx context.Context, limit, offset int) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, nil
}

func (s *Store) CountSales(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting sales: %w", err)
	}

	return count, nil
}

func (s *Store) UpdateSale(ctx context.Context, sl *sale.Sale) error {
	query := `
		UPDATE sales
		SET product_id = $1, product_name = $2, quantity = $3, unit_price = $4,
			total_price = $5, discount = $6, final_price = $7, tax_amount = $8,
			customer_id = $9, customer_name = $10, payment_method = $11,
			payment_status = $12, saleer_id = $13, saleer_name = $14,
			sale_date = $15, invoice_number = $16, notes = $17, updated_at = NOW()
		WHERE id = $18
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sl.ProductID,
		sl.ProductName,
		sl.Quantity,
		sl.UnitPrice,
		sl.TotalPrice,
		sl.Discount,
		sl.FinalPrice,
		sl.TaxAmount,
		sl.CustomerID,
		sl.CustomerName,
		sl.PaymentMethod,
		sl.PaymentStatus,
		sl.SaleerID,
		sl.SaleerName,
		sl.SaleDate,
		sl.InvoiceNumber,
		nullableNotes(sl.Notes),
		sl.ID,
	).Scan(&sl.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sale.ErrNotFound
		}

		if isUniqueViolation(err) {
			return sale.ErrDuplicateInvoice
		}

		return fmt.Errorf("updating sale: %w", err)
	}

	return nil
}

func (s *Store) DeleteSale(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sale.ErrNotFound
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres 23505 error, which on
// the sales table can only come from the invoice_number unique index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableNotes(notes string) sql.NullString {
	return sql.NullString{String: notes, Valid: notes != ""}
}
