package taxhistory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelview/internal/property/models"
	"parcelview/internal/property/refdata"
	"parcelview/pkg/domain"
	dErrors "parcelview/pkg/domain-errors"
)

type stubValuations struct {
	snapshots []models.ValuationSnapshot
	err       error
}

func (s *stubValuations) FetchValuations(_ context.Context, _ domain.BBL) ([]models.ValuationSnapshot, error) {
	return s.snapshots, s.err
}

func f(v float64) *float64 {
	return &v
}

func newService(t *testing.T, fetcher ValuationFetcher, rateEntries []refdata.TaxRateEntry) *Service {
	t.Helper()
	rates, err := refdata.NewTaxRates(rateEntries)
	require.NoError(t, err)
	svc, err := New(fetcher, rates,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	rates, err := refdata.NewTaxRates(nil)
	require.NoError(t, err)

	t.Run("nil valuation fetcher returns error", func(t *testing.T) {
		_, err := New(nil, rates)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "valuation fetcher is required")
	})

	t.Run("nil rate table returns error", func(t *testing.T) {
		_, err := New(&stubValuations{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax rate table is required")
	})
}

func TestDisplayYear(t *testing.T) {
	tests := []struct {
		name     string
		year     string
		expected string
	}{
		{name: "normal year", year: "2024", expected: "2023/24"},
		{name: "decade boundary pads short suffix", year: "2005", expected: "2004/05"},
		{name: "century boundary", year: "2000", expected: "1999/00"},
		{name: "unparseable passes through", year: "FY-2024", expected: "FY-2024"},
		{name: "empty passes through", year: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayYear(tt.year))
		})
	}
}

func TestDeriveYoYChange(t *testing.T) {
	svc := newService(t, &stubValuations{snapshots: []models.ValuationSnapshot{
		{Year: "2024", TaxableValue: f(800000), TaxClass: "2"},
		{Year: "2023", TaxableValue: f(750000), TaxClass: "2"},
	}}, []refdata.TaxRateEntry{
		{Year: "2024", TaxClass: "2", Rate: 12.5},
		{Year: "2023", TaxClass: "2", Rate: 12.5},
	})

	bbl, err := domain.NewBBL(1, 685, 1)
	require.NoError(t, err)

	rows, err := svc.Derive(context.Background(), bbl)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Row 0: base 100000, previous base 93750 → change 6250/93750.
	require.NotNil(t, rows[0].BaseTax)
	assert.InDelta(t, 100000, *rows[0].BaseTax, 1e-6)
	require.NotNil(t, rows[0].YoYChange)
	assert.InDelta(t, 6250.0/93750.0, *rows[0].YoYChange, 1e-9)
	assert.Equal(t, "2023/24", rows[0].Year)

	// Oldest row never has a change.
	require.NotNil(t, rows[1].BaseTax)
	assert.InDelta(t, 93750, *rows[1].BaseTax, 1e-6)
	assert.Nil(t, rows[1].YoYChange)
	assert.Equal(t, "2022/23", rows[1].Year)
}

func TestRowsMissingData(t *testing.T) {
	svc := newService(t, &stubValuations{}, []refdata.TaxRateEntry{
		{Year: "2024", TaxClass: "2", Rate: 12.5},
	})

	t.Run("missing rate yields nil rate, base, and change", func(t *testing.T) {
		rows := svc.Rows([]models.ValuationSnapshot{
			{Year: "2024", TaxableValue: f(800000), TaxClass: "4"},
			{Year: "2023", TaxableValue: f(750000), TaxClass: "4"},
		})
		require.Len(t, rows, 2)
		assert.Nil(t, rows[0].Rate)
		assert.Nil(t, rows[0].BaseTax)
		assert.Nil(t, rows[0].YoYChange)
	})

	t.Run("missing taxable value yields nil base", func(t *testing.T) {
		rows := svc.Rows([]models.ValuationSnapshot{
			{Year: "2024", TaxClass: "2"},
		})
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].Rate)
		assert.Nil(t, rows[0].BaseTax)
	})

	t.Run("previous base of zero yields nil change", func(t *testing.T) {
		rows := svc.Rows([]models.ValuationSnapshot{
			{Year: "2024", TaxableValue: f(800000), TaxClass: "2"},
			{Year: "2023", TaxableValue: f(0), TaxClass: "2"},
		})
		require.Len(t, rows, 2)
		assert.Nil(t, rows[0].YoYChange)
	})

	t.Run("values pass through untouched", func(t *testing.T) {
		rows := svc.Rows([]models.ValuationSnapshot{
			{Year: "2024", MarketValue: f(2000000), AssessedValue: f(900000), TaxableValue: f(800000), TaxClass: "2"},
		})
		require.Len(t, rows, 1)
		assert.Equal(t, f(2000000), rows[0].MarketValue)
		assert.Equal(t, f(900000), rows[0].AssessedValue)
		assert.Equal(t, f(800000), rows[0].TaxableValue)
	})

	t.Run("empty input yields empty output, never an error", func(t *testing.T) {
		rows := svc.Rows(nil)
		assert.Empty(t, rows)
	})
}

func TestRowsMissingRateForPreviousYearOnly(t *testing.T) {
	// 2023 has no rate entry: row 0 has a base tax but no comparison point.
	svc := newService(t, &stubValuations{}, []refdata.TaxRateEntry{
		{Year: "2024", TaxClass: "2", Rate: 12.5},
	})

	rows := svc.Rows([]models.ValuationSnapshot{
		{Year: "2024", TaxableValue: f(800000), TaxClass: "2"},
		{Year: "2023", TaxableValue: f(750000), TaxClass: "2"},
	})
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].BaseTax)
	assert.Nil(t, rows[0].YoYChange)
	assert.Nil(t, rows[1].BaseTax)
}

func TestRowsPositionalAdjacencyAcrossGap(t *testing.T) {
	// A missing fiscal year means positions, not years, are compared. This
	// is intentional compatibility behavior.
	svc := newService(t, &stubValuations{}, []refdata.TaxRateEntry{
		{Year: "2024", TaxClass: "2", Rate: 10},
		{Year: "2022", TaxClass: "2", Rate: 10},
	})

	rows := svc.Rows([]models.ValuationSnapshot{
		{Year: "2024", TaxableValue: f(1100000), TaxClass: "2"},
		{Year: "2022", TaxableValue: f(1000000), TaxClass: "2"},
	})
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].YoYChange)
	assert.InDelta(t, 0.10, *rows[0].YoYChange, 1e-9)
}

func TestDeriveFetchFailureIsHard(t *testing.T) {
	svc := newService(t, &stubValuations{err: errors.New("db down")},
		[]refdata.TaxRateEntry{{Year: "2024", TaxClass: "2", Rate: 12.5}})

	bbl, err := domain.NewBBL(3, 100, 25)
	require.NoError(t, err)

	_, err = svc.Derive(context.Background(), bbl)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	assert.Contains(t, err.Error(), bbl.String())
}

func TestDeriveValidatesKeyFirst(t *testing.T) {
	fetcher := &stubValuations{err: errors.New("must not be called")}
	svc := newService(t, fetcher, nil)

	_, err := svc.Derive(context.Background(), domain.BBL{Borough: 0, Block: 1, Lot: 1})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
