// Package handler exposes the property read API.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"parcelview/internal/platform/metrics"
	"parcelview/internal/property/analytics"
	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
	"parcelview/pkg/platform/httputil"
)

// TransactionLister is the normalizer as the handler sees it.
type TransactionLister interface {
	List(ctx context.Context, bbl domain.BBL) ([]models.Transaction, error)
}

// TaxHistorian is the tax derivation as the handler sees it.
type TaxHistorian interface {
	Derive(ctx context.Context, bbl domain.BBL) ([]models.TaxRow, error)
}

// Handler serves the parcel lookup endpoints.
type Handler struct {
	transactions TransactionLister
	taxes        TaxHistorian
	analytics    *analytics.Publisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithAnalytics enables lookup-event publishing. A nil publisher is allowed
// and disables it.
func WithAnalytics(p *analytics.Publisher) Option {
	return func(h *Handler) {
		h.analytics = p
	}
}

func New(transactions TransactionLister, taxes TaxHistorian, opts ...Option) (*Handler, error) {
	if transactions == nil {
		return nil, fmt.Errorf("transaction service is required")
	}
	if taxes == nil {
		return nil, fmt.Errorf("tax history service is required")
	}

	h := &Handler{
		transactions: transactions,
		taxes:        taxes,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// Register mounts the parcel routes with the standard middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Route("/properties/{borough}/{block}/{lot}", func(r chi.Router) {
		r.Use(chimiddleware.RequestID)
		r.Use(chimiddleware.RealIP)
		r.Use(chimiddleware.Recoverer)
		r.Get("/transactions", h.handleTransactions)
		r.Get("/tax-history", h.handleTaxHistory)
		r.Get("/summary", h.handleSummary)
	})
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bbl, err := parseBBL(r)
	if err != nil {
		h.metrics.RecordLookup("transactions", "invalid")
		httputil.WriteError(w, err)
		return
	}

	txs, err := h.transactions.List(ctx, bbl)
	if err != nil {
		h.logger.ErrorContext(ctx, "transaction lookup failed",
			"bbl", bbl.String(),
			"error", err.Error(),
		)
		h.metrics.RecordLookup("transactions", "error")
		httputil.WriteError(w, err)
		return
	}

	h.metrics.RecordLookup("transactions", "ok")
	h.emit(r, analytics.Event{
		BBL:              bbl.String(),
		Endpoint:         "transactions",
		TransactionCount: len(txs),
		Degraded:         allPartiesUnknown(txs),
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (h *Handler) handleTaxHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bbl, err := parseBBL(r)
	if err != nil {
		h.metrics.RecordLookup("tax_history", "invalid")
		httputil.WriteError(w, err)
		return
	}

	rows, err := h.taxes.Derive(ctx, bbl)
	if err != nil {
		h.logger.ErrorContext(ctx, "tax history lookup failed",
			"bbl", bbl.String(),
			"error", err.Error(),
		)
		h.metrics.RecordLookup("tax_history", "error")
		httputil.WriteError(w, err)
		return
	}

	h.metrics.RecordLookup("tax_history", "ok")
	h.emit(r, analytics.Event{
		BBL:         bbl.String(),
		Endpoint:    "tax_history",
		TaxRowCount: len(rows),
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"taxHistory": rows})
}

// handleSummary fetches both views concurrently. A tax failure degrades to
// an empty trend with transactions intact; a transaction failure fails the
// summary.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bbl, err := parseBBL(r)
	if err != nil {
		h.metrics.RecordLookup("summary", "invalid")
		httputil.WriteError(w, err)
		return
	}

	var (
		txs    []models.Transaction
		rows   []models.TaxRow
		taxErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = h.transactions.List(gctx, bbl)
		return err
	})
	g.Go(func() error {
		rows, taxErr = h.taxes.Derive(gctx, bbl)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.ErrorContext(ctx, "summary lookup failed",
			"bbl", bbl.String(),
			"error", err.Error(),
		)
		h.metrics.RecordLookup("summary", "error")
		httputil.WriteError(w, err)
		return
	}
	if taxErr != nil {
		h.logger.WarnContext(ctx, "summary tax history degraded",
			"bbl", bbl.String(),
			"error", taxErr.Error(),
		)
		rows = []models.TaxRow{}
	}

	h.metrics.RecordLookup("summary", "ok")
	h.emit(r, analytics.Event{
		BBL:              bbl.String(),
		Endpoint:         "summary",
		TransactionCount: len(txs),
		TaxRowCount:      len(rows),
		Degraded:         taxErr != nil || allPartiesUnknown(txs),
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"taxHistory":   rows,
	})
}

func (h *Handler) emit(r *http.Request, event analytics.Event) {
	if h.analytics == nil {
		return
	}
	ctx := r.Context()
	event.ClientPlatform = analytics.ClientPlatform(r.UserAgent())
	event.RequestID = chimiddleware.GetReqID(ctx)
	h.analytics.Emit(ctx, event)
}

func parseBBL(r *http.Request) (domain.BBL, error) {
	return domain.ParseBBL(
		chi.URLParam(r, "borough"),
		chi.URLParam(r, "block"),
		chi.URLParam(r, "lot"),
	)
}

// allPartiesUnknown reports the user-visible degraded state: lookups found
// documents but no usable party data at all.
func allPartiesUnknown(txs []models.Transaction) bool {
	if len(txs) == 0 {
		return false
	}
	for _, tx := range txs {
		if len(tx.PartyDetails) > 0 {
			return false
		}
	}
	return true
}
