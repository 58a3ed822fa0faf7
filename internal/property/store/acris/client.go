// Package acris fetches recorded-document and party records from the city
// document recorder's Socrata-style API.
package acris

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
	"parcelview/pkg/platform/sentinel"
)

// Client queries the recorder API. It owns no ordering logic: the documents
// endpoint returns most-recent-first and the client passes that through.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("recorder base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// documentRecord is the wire shape of one recorded document. Socrata returns
// every field as a string.
type documentRecord struct {
	DocumentID           string `json:"document_id"`
	DocType              string `json:"doc_type"`
	DocTypeDescription   string `json:"doc_type_description"`
	DocumentDate         string `json:"document_date"`
	DocumentAmt          string `json:"document_amt"`
	ClassCodeDescription string `json:"class_code_description"`
}

// partyRecord is the wire shape of one party row.
type partyRecord struct {
	DocumentID           string `json:"document_id"`
	PartyType            string `json:"party_type"`
	Name                 string `json:"name"`
	PartyTypeDescription string `json:"party_type_description"`
	Address1             string `json:"address_1"`
	Address2             string `json:"address_2"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Zip                  string `json:"zip"`
	Country              string `json:"country"`
}

// FetchDocuments returns all recorded documents for a parcel in upstream
// order. The recorder encodes BBLs as zero-padded strings: block 5 digits,
// lot 4.
func (c *Client) FetchDocuments(ctx context.Context, bbl domain.BBL) ([]models.RawDocument, error) {
	q := url.Values{}
	q.Set("borough", bbl.BoroughString())
	q.Set("block", bbl.BlockString())
	q.Set("lot", bbl.LotString(4))

	var records []documentRecord
	if err := c.get(ctx, "/documents.json", q, &records); err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	docs := make([]models.RawDocument, 0, len(records))
	for _, r := range records {
		docs = append(docs, models.RawDocument{
			ID:                   r.DocumentID,
			TypeCode:             r.DocType,
			TypeDescription:      r.DocTypeDescription,
			Date:                 r.DocumentDate,
			Amount:               parseAmount(r.DocumentAmt),
			ClassCodeDescription: r.ClassCodeDescription,
		})
	}
	return docs, nil
}

// FetchParties returns all party rows whose owning document id is in the
// given set, as one batched query.
func (c *Client) FetchParties(ctx context.Context, documentIDs []string) ([]models.RawParty, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	quoted := make([]string, 0, len(documentIDs))
	for _, id := range documentIDs {
		quoted = append(quoted, "'"+strings.ReplaceAll(id, "'", "''")+"'")
	}
	q := url.Values{}
	q.Set("$where", fmt.Sprintf("document_id in(%s)", strings.Join(quoted, ",")))

	var records []partyRecord
	if err := c.get(ctx, "/parties.json", q, &records); err != nil {
		return nil, fmt.Errorf("fetch parties: %w", err)
	}

	parties := make([]models.RawParty, 0, len(records))
	for _, r := range records {
		parties = append(parties, models.RawParty{
			DocumentID:      r.DocumentID,
			RoleCode:        r.PartyType,
			Name:            r.Name,
			RoleDescription: r.PartyTypeDescription,
			Address1:        r.Address1,
			Address2:        r.Address2,
			City:            r.City,
			State:           r.State,
			Zip:             r.Zip,
			Country:         r.Country,
		})
	}
	return parties, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s: %w", path, resp.Status, sentinel.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// parseAmount converts the recorder's string amount to a nullable float.
// Empty or malformed amounts read as absent, which the normalizer's validity
// filter then drops.
func parseAmount(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
