package database

import (
	"database/sql"
	"fmt"
)

// migrations are idempotent and run on every boot, in order.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity NUMERIC(10,2) NOT NULL DEFAULT 1,
		unit_price NUMERIC(10,2) NOT NULL,
		total_price NUMERIC(10,2) NOT NULL,
		discount NUMERIC(10,2) NOT NULL DEFAULT 0,
		final_price NUMERIC(10,2) NOT NULL,
		tax_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		saleer_id TEXT NOT NULL,
		saleer_name TEXT NOT NULL,
		sale_date TIMESTAMPTZ NOT NULL,
		invoice_number TEXT NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS sales_invoice_number_key ON sales (invoice_number)`,
	`CREATE INDEX IF NOT EXISTS sales_customer_id_idx ON sales (customer_id)`,
	`CREATE INDEX IF NOT EXISTS sales_saleer_id_idx ON sales (saleer_id)`,
	`CREATE INDEX IF NOT EXISTS sales_sale_date_idx ON sales (sale_date)`,
}

// Migrate ensures the sales schema exists.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	return nil
}
