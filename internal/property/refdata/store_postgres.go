package refdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres loaders for deployments that keep reference data in the relational
// store instead of shipping yaml files alongside the binary. Both run once at
// startup; the resulting tables are immutable.

// LoadControlCodesPostgres reads the control-code table from the
// document_control_codes table.
func LoadControlCodesPostgres(ctx context.Context, pool *pgxpool.Pool) (*ControlCodes, error) {
	rows, err := pool.Query(ctx,
		`SELECT type_code, class_code_description, party1_type, party2_type
		 FROM document_control_codes`)
	if err != nil {
		return nil, fmt.Errorf("query control codes: %w", err)
	}
	defer rows.Close()

	var entries []ControlCodeEntry
	for rows.Next() {
		var e ControlCodeEntry
		if err := rows.Scan(&e.TypeCode, &e.ClassCodeDescription, &e.Party1, &e.Party2); err != nil {
			return nil, fmt.Errorf("scan control code: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read control codes: %w", err)
	}
	return NewControlCodes(entries)
}

// LoadTaxRatesPostgres reads the rate table from the tax_rates table.
func LoadTaxRatesPostgres(ctx context.Context, pool *pgxpool.Pool) (*TaxRates, error) {
	rows, err := pool.Query(ctx,
		`SELECT fiscal_year, tax_class, rate FROM tax_rates`)
	if err != nil {
		return nil, fmt.Errorf("query tax rates: %w", err)
	}
	defer rows.Close()

	var entries []TaxRateEntry
	for rows.Next() {
		var e TaxRateEntry
		if err := rows.Scan(&e.Year, &e.TaxClass, &e.Rate); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tax rates: %w", err)
	}
	return NewTaxRates(entries)
}
