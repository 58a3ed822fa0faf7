package acris

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
	"parcelview/pkg/platform/sentinel"
)

func mustBBL(t *testing.T, borough, block, lot int) domain.BBL {
	t.Helper()
	bbl, err := domain.NewBBL(borough, block, lot)
	require.NoError(t, err)
	return bbl
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is required")
}

func TestFetchDocuments(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents.json", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"borough": q.Get("borough"),
			"block":   q.Get("block"),
			"lot":     q.Get("lot"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"document_id":"D1","doc_type":"MTGE","doc_type_description":"MORTGAGE","document_date":"2024-01-05","document_amt":"500000","class_code_description":"MORTGAGES & INSTRUMENTS"},
			{"document_id":"D2","doc_type":"RPTT","document_amt":""},
			{"document_id":"D3","doc_type":"DEED","document_amt":"not-a-number"}
		]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	docs, err := client.FetchDocuments(context.Background(), mustBBL(t, 1, 685, 1))
	require.NoError(t, err)

	// Recorder encoding: block padded to 5, lot to 4.
	assert.Equal(t, map[string]string{"borough": "1", "block": "00685", "lot": "0001"}, gotQuery)

	require.Len(t, docs, 3)
	require.NotNil(t, docs[0].Amount)
	assert.Equal(t, 500000.0, *docs[0].Amount)
	assert.Equal(t, "MTGE", docs[0].TypeCode)
	assert.Equal(t, "MORTGAGES & INSTRUMENTS", docs[0].ClassCodeDescription)

	// Empty and malformed amounts both read as absent.
	assert.Nil(t, docs[1].Amount)
	assert.Nil(t, docs[2].Amount)
}

func TestFetchParties(t *testing.T) {
	var gotWhere string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parties.json", r.URL.Path)
		gotWhere = r.URL.Query().Get("$where")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"document_id":"D1","party_type":"1","name":"Jane Doe","city":"New York","state":"NY"},
			{"document_id":"D1","party_type":"2","name":"Acme Bank"}
		]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	parties, err := client.FetchParties(context.Background(), []string{"D1", "D2"})
	require.NoError(t, err)

	assert.Equal(t, "document_id in('D1','D2')", gotWhere)
	require.Len(t, parties, 2)
	assert.Equal(t, "1", parties[0].RoleCode)
	assert.Equal(t, "Jane Doe", parties[0].Name)
	assert.Equal(t, "New York", parties[0].City)
}

func TestFetchPartiesEmptySetSkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request issued for empty id set")
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	parties, err := client.FetchParties(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, parties)
}

func TestUpstreamErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.FetchDocuments(context.Background(), mustBBL(t, 2, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
}

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()
	bbl := mustBBL(t, 4, 9999, 25)
	other := mustBBL(t, 4, 9999, 26)

	amount := 100.0
	store.SeedDocuments(bbl, models.RawDocument{ID: "D1", TypeCode: "DEED", Amount: &amount})
	store.SeedParties(
		models.RawParty{DocumentID: "D1", RoleCode: "1", Name: "Old Owner LLC"},
		models.RawParty{DocumentID: "D9", RoleCode: "1", Name: "Unrelated"},
	)

	ctx := context.Background()

	docs, err := store.FetchDocuments(ctx, bbl)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "D1", docs[0].ID)

	none, err := store.FetchDocuments(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, none)

	parties, err := store.FetchParties(ctx, []string{"D1"})
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "Old Owner LLC", parties[0].Name)
}
