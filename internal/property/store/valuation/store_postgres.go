// Package valuation fetches yearly assessment snapshots from the relational
// store.
package valuation

import (
	"context"
	"database/sql"
	"fmt"

	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
)

// PostgresStore reads assessment snapshots from the property_valuations
// table. The query owns the fetch contract: descending year order, rows with
// non-positive market value excluded.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FetchValuations(ctx context.Context, bbl domain.BBL) ([]models.ValuationSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, market_value, assessed_value, taxable_value, tax_class
		 FROM property_valuations
		 WHERE borough = $1 AND block = $2 AND lot = $3 AND market_value > 0
		 ORDER BY year DESC`,
		bbl.Borough, bbl.Block, bbl.Lot)
	if err != nil {
		return nil, fmt.Errorf("query valuations for %s: %w", bbl, err)
	}
	defer rows.Close()

	var snapshots []models.ValuationSnapshot
	for rows.Next() {
		var (
			snap     models.ValuationSnapshot
			market   sql.NullFloat64
			assessed sql.NullFloat64
			taxable  sql.NullFloat64
		)
		if err := rows.Scan(&snap.Year, &market, &assessed, &taxable, &snap.TaxClass); err != nil {
			return nil, fmt.Errorf("scan valuation for %s: %w", bbl, err)
		}
		snap.MarketValue = nullableFloat(market)
		snap.AssessedValue = nullableFloat(assessed)
		snap.TaxableValue = nullableFloat(taxable)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read valuations for %s: %w", bbl, err)
	}
	return snapshots, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
