// Package transactions normalizes recorded documents and their parties into
// a coherent transaction history for a parcel.
package transactions

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DocumentFetcher,PartyFetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"parcelview/internal/platform/metrics"
	"parcelview/internal/property/models"
	"parcelview/internal/property/refdata"
	"parcelview/pkg/domain"
	dErrors "parcelview/pkg/domain-errors"
	platformstrings "parcelview/pkg/platform/strings"
)

// DocumentFetcher retrieves all recorded documents for a parcel in source
// order, which is most-recent-first. The normalizer never re-sorts.
type DocumentFetcher interface {
	FetchDocuments(ctx context.Context, bbl domain.BBL) ([]models.RawDocument, error)
}

// PartyFetcher retrieves all party records whose owning document id is in
// the given set, as a single batched lookup.
type PartyFetcher interface {
	FetchParties(ctx context.Context, documentIDs []string) ([]models.RawParty, error)
}

// Service is the transaction normalizer. It is request-scoped and stateless
// across invocations; all grouping and dedup state is local to one List call.
type Service struct {
	documents DocumentFetcher
	parties   PartyFetcher
	codes     *refdata.ControlCodes
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(documents DocumentFetcher, parties PartyFetcher, codes *refdata.ControlCodes, opts ...Option) (*Service, error) {
	if documents == nil {
		return nil, fmt.Errorf("document fetcher is required")
	}
	if parties == nil {
		return nil, fmt.Errorf("party fetcher is required")
	}
	if codes == nil {
		return nil, fmt.Errorf("control code table is required")
	}

	svc := &Service{
		documents: documents,
		parties:   parties,
		codes:     codes,
		logger:    slog.Default(),
		tracer:    otel.Tracer("parcelview/transactions"),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// List returns the normalized transaction history for a parcel, preserving
// the fetch order of the underlying documents.
//
// A failed document fetch is a hard failure. A failed party fetch is
// absorbed: transactions are still returned with Unknown parties, because
// document data is more valuable than party data.
func (s *Service) List(ctx context.Context, bbl domain.BBL) ([]models.Transaction, error) {
	if err := bbl.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "transactions.List",
		trace.WithAttributes(attribute.String("parcel.bbl", bbl.String())))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveNormalize(time.Since(start)) }()

	docs, err := s.documents.FetchDocuments(ctx, bbl)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, fmt.Sprintf("fetch documents for %s", bbl))
	}

	// Zero/nil-amount filings are corrections, releases, or non-monetary
	// instruments; they would pollute the financial view.
	valid := docs[:0:0]
	for _, doc := range docs {
		if doc.Amount != nil && *doc.Amount > 0 {
			valid = append(valid, doc)
		}
	}
	if len(valid) == 0 {
		return []models.Transaction{}, nil
	}

	// Party records hang off document ids, so documents without ids cannot
	// anchor a transaction. An all-empty id set yields an empty history.
	ids := distinctDocumentIDs(valid)
	if len(ids) == 0 {
		return []models.Transaction{}, nil
	}

	parties, err := s.parties.FetchParties(ctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "party fetch failed, continuing with unknown parties",
			"bbl", bbl.String(),
			"documents", len(ids),
			"error", err.Error(),
		)
		s.metrics.RecordPartyFetchDegradation()
		parties = nil
	}

	byDocument := make(map[string][]models.RawParty, len(ids))
	for _, p := range parties {
		byDocument[p.DocumentID] = append(byDocument[p.DocumentID], p)
	}

	out := make([]models.Transaction, 0, len(valid))
	for _, doc := range valid {
		out = append(out, s.normalize(doc, byDocument[doc.ID]))
	}
	return out, nil
}

// distinctDocumentIDs collects the non-empty ids of the surviving documents,
// first occurrence order.
func distinctDocumentIDs(docs []models.RawDocument) []string {
	seen := make(map[string]struct{}, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		if _, ok := seen[doc.ID]; !ok {
			seen[doc.ID] = struct{}{}
			ids = append(ids, doc.ID)
		}
	}
	return ids
}

// normalize builds one Transaction from a document and its party rows.
func (s *Service) normalize(doc models.RawDocument, parties []models.RawParty) models.Transaction {
	fromType, toType := "Party 1", "Party 2"
	if entry, ok := s.codes.Lookup(doc.TypeCode); ok {
		fromType = entry.Party1Label()
		toType = entry.Party2Label()
	}

	var fromNames, toNames []string
	details := make([]models.PartyDetail, 0, len(parties))
	seenNames := make(map[string]struct{}, len(parties))

	for _, p := range parties {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}

		// Role "3" and anything else unrecognized still contributes contact
		// details, just not a side of the transaction.
		switch p.RoleCode {
		case "1":
			fromNames = append(fromNames, name)
		case "2":
			toNames = append(toNames, name)
		}

		if _, ok := seenNames[name]; !ok {
			seenNames[name] = struct{}{}
			details = append(details, models.PartyDetail{
				Name:            name,
				RoleDescription: p.RoleDescription,
				Address1:        p.Address1,
				Address2:        p.Address2,
				City:            p.City,
				State:           p.State,
				Zip:             p.Zip,
				Country:         p.Country,
			})
		}
	}

	from := platformstrings.DedupeAndTrim(fromNames)
	if len(from) == 0 {
		from = []string{models.UnknownParty}
	}
	to := platformstrings.DedupeAndTrim(toNames)
	if len(to) == 0 {
		to = []string{models.UnknownParty}
	}

	var amount float64
	if doc.Amount != nil {
		amount = *doc.Amount
	}

	return models.Transaction{
		DocumentID:           doc.ID,
		TypeCode:             doc.TypeCode,
		TypeDescription:      doc.TypeDescription,
		Date:                 doc.Date,
		Amount:               amount,
		ClassCodeDescription: doc.ClassCodeDescription,
		FromParty:            from,
		ToParty:              to,
		FromPartyType:        fromType,
		ToPartyType:          toType,
		IsDeed:               doc.ClassCodeDescription == models.ClassDeeds,
		IsMortgage:           doc.ClassCodeDescription == models.ClassMortgages,
		IsLien:               doc.ClassCodeDescription == models.ClassLiens,
		IsOther:              doc.ClassCodeDescription == models.ClassOther,
		PartyDetails:         details,
	}
}
