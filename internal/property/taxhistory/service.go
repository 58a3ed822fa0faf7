// Package taxhistory derives a year-over-year tax trend from yearly
// assessment snapshots and the statutory rate table.
package taxhistory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"parcelview/internal/property/models"
	"parcelview/internal/property/refdata"
	"parcelview/pkg/domain"
	dErrors "parcelview/pkg/domain-errors"
)

// ValuationFetcher retrieves assessment snapshots for a parcel, ordered
// descending by year, pre-filtered to positive market values.
type ValuationFetcher interface {
	FetchValuations(ctx context.Context, bbl domain.BBL) ([]models.ValuationSnapshot, error)
}

// Service turns valuation snapshots into display-ready tax rows. The
// derivation itself never fails; missing data degrades to nil fields.
type Service struct {
	valuations ValuationFetcher
	rates      *refdata.TaxRates
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(valuations ValuationFetcher, rates *refdata.TaxRates, opts ...Option) (*Service, error) {
	if valuations == nil {
		return nil, fmt.Errorf("valuation fetcher is required")
	}
	if rates == nil {
		return nil, fmt.Errorf("tax rate table is required")
	}

	svc := &Service{
		valuations: valuations,
		rates:      rates,
		logger:     slog.Default(),
		tracer:     otel.Tracer("parcelview/taxhistory"),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Derive fetches the parcel's valuations and computes its tax trend. A
// failed valuation fetch is a hard failure, like the document fetch on the
// transaction side.
func (s *Service) Derive(ctx context.Context, bbl domain.BBL) ([]models.TaxRow, error) {
	if err := bbl.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "taxhistory.Derive",
		trace.WithAttributes(attribute.String("parcel.bbl", bbl.String())))
	defer span.End()

	snapshots, err := s.valuations.FetchValuations(ctx, bbl)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, fmt.Sprintf("fetch valuations for %s", bbl))
	}

	return s.Rows(snapshots), nil
}

// Rows applies the pure derivation to snapshots already ordered descending
// by year. Year-over-year change compares position i against i+1 (the next
// older snapshot); the oldest row always gets a nil change.
//
// Adjacency is positional for compatibility with the historical behavior: a
// gap in the supplied years silently compares non-adjacent fiscal years. The
// gap is logged at debug level but the output is unchanged.
func (s *Service) Rows(snapshots []models.ValuationSnapshot) []models.TaxRow {
	rows := make([]models.TaxRow, 0, len(snapshots))
	for i, snap := range snapshots {
		rate := s.rates.Rate(snap.Year, snap.TaxClass)
		base := baseTax(snap.TaxableValue, rate)

		var yoy *float64
		if i+1 < len(snapshots) {
			prev := snapshots[i+1]
			s.warnOnYearGap(snap.Year, prev.Year)
			prevRate := s.rates.Rate(prev.Year, prev.TaxClass)
			prevBase := baseTax(prev.TaxableValue, prevRate)
			if base != nil && prevBase != nil && *prevBase != 0 {
				change := (*base - *prevBase) / *prevBase
				yoy = &change
			}
		}

		rows = append(rows, models.TaxRow{
			Year:          displayYear(snap.Year),
			MarketValue:   snap.MarketValue,
			AssessedValue: snap.AssessedValue,
			TaxableValue:  snap.TaxableValue,
			Rate:          rate,
			BaseTax:       base,
			YoYChange:     yoy,
		})
	}
	return rows
}

// displayYear renders a fiscal-year label like "2023/24" for year "2024".
// Unparseable labels pass through unchanged.
func displayYear(year string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return year
	}
	return fmt.Sprintf("%d/%02d", y-1, y%100)
}

// baseTax computes taxable × rate/100, nil when either side is missing.
func baseTax(taxable, rate *float64) *float64 {
	if taxable == nil || rate == nil {
		return nil
	}
	v := *taxable * (*rate / 100)
	return &v
}

func (s *Service) warnOnYearGap(current, previous string) {
	cur, err := strconv.Atoi(current)
	if err != nil {
		return
	}
	prev, err := strconv.Atoi(previous)
	if err != nil {
		return
	}
	if cur != prev+1 {
		s.logger.Debug("non-consecutive fiscal years in valuation history",
			"current", current,
			"previous", previous,
		)
	}
}
