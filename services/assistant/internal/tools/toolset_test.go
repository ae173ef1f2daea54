package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxelife/boutique/pkg/httpclient"
	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
)

var boutique = []catalogclient.Product{
	{Name: "Signature Piqué Polo", SKU: "LUXE-POLO-001", Price: 95, Description: "Breathable cotton piqué.", ImageURL: "https://img.example/polo.jpg"},
	{Name: "Italian Wool Suit", SKU: "LUXE-SUIT-99", Price: 1200, Description: "Sharp charcoal wool.", ImageURL: "https://img.example/suit.jpg"},
	{Name: "Silk Midi Dress", SKU: "LUXE-DRESS-05", Price: 450, Description: "Elegant emerald silk.", ImageURL: "https://img.example/dress.jpg"},
	{Name: "Cashmere V-Neck", SKU: "LUXE-CASH-10", Price: 300, Description: "Ultra-soft Mongolian cashmere.", ImageURL: "https://img.example/cash.jpg"},
}

type fakeCatalog struct {
	products   []catalogclient.Product
	listErr    error
	sessionErr error
	lastSKU    string
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]catalogclient.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalog) CreateSession(ctx context.Context, sku string) (*catalogclient.Session, error) {
	f.lastSKU = sku
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &catalogclient.Session{SessionID: "sess_12345", Status: "active", SKU: sku}, nil
}

func skus(products []catalogclient.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.SKU)
	}
	return out
}

func TestMatch(t *testing.T) {
	dress := boutique[2]

	assert.True(t, Match(dress, "dress"))
	assert.True(t, Match(dress, "EMERALD"))
	assert.True(t, Match(dress, "450"))
	assert.True(t, Match(dress, "dress.jpg"))
	assert.True(t, Match(dress, ""))
	assert.False(t, Match(dress, "wool"))
	assert.False(t, Match(dress, "450.0"))
}

func TestSearchCatalog(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		want     []string
		fallback bool
	}{
		{"single match", "dress", []string{"LUXE-DRESS-05"}, false},
		{"matches all in order", "luxe", []string{"LUXE-POLO-001", "LUXE-SUIT-99", "LUXE-DRESS-05", "LUXE-CASH-10"}, false},
		{"case insensitive", "CASHMERE", []string{"LUXE-CASH-10"}, false},
		{"empty query", "", []string{"LUXE-POLO-001", "LUXE-SUIT-99", "LUXE-DRESS-05", "LUXE-CASH-10"}, false},
		{"no match falls back", "yacht", []string{"LUXE-POLO-001", "LUXE-SUIT-99", "LUXE-DRESS-05", "LUXE-CASH-10"}, true},
		{"subsequence of two", "wool", []string{"LUXE-SUIT-99"}, false},
	}

	ts := NewToolset(&fakeCatalog{products: boutique}, logger.Discard())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ts.SearchCatalog(context.Background(), tt.query)

			require.Nil(t, res.Failure)
			assert.Equal(t, tt.want, skus(res.Products))
			assert.Equal(t, tt.fallback, res.Fallback)
		})
	}
}

func TestSearchCatalog_NeverEmptyForNonEmptyCatalog(t *testing.T) {
	ts := NewToolset(&fakeCatalog{products: boutique}, logger.Discard())

	for _, q := range []string{"", "x", "zzz", "LUXE-", "$", "silk dress"} {
		assert.NotEmpty(t, ts.SearchCatalog(context.Background(), q).Products, q)
	}
}

func TestSearchCatalog_Failure(t *testing.T) {
	cat := &fakeCatalog{listErr: &catalogclient.Error{
		Kind: catalogclient.KindTimeout,
		Op:   "list products",
		Err:  context.DeadlineExceeded,
	}}
	ts := NewToolset(cat, logger.Discard())

	res := ts.SearchCatalog(context.Background(), "dress")

	require.NotNil(t, res.Failure)
	assert.Equal(t, catalogclient.KindTimeout, res.Failure.Kind)
	assert.Equal(t, "Could not connect to catalog: list products: context deadline exceeded", res.Failure.Message)

	data, err := json.Marshal(res.Output())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"timeout","error":"Could not connect to catalog: list products: context deadline exceeded"}]`, string(data))
}

func TestSearchResult_OutputEmptyCatalog(t *testing.T) {
	ts := NewToolset(&fakeCatalog{}, logger.Discard())

	data, err := json.Marshal(ts.SearchCatalog(context.Background(), "dress").Output())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStartCheckout(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	ts := NewToolset(cat, logger.Discard())

	res := ts.StartCheckout(context.Background(), "LUXE-DRESS-05")

	require.Nil(t, res.Failure)
	assert.Equal(t, "LUXE-DRESS-05", cat.lastSKU)
	data, err := json.Marshal(res.Output())
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"sess_12345","status":"active","sku":"LUXE-DRESS-05"}`, string(data))
}

func TestStartCheckout_Failure(t *testing.T) {
	cat := &fakeCatalog{sessionErr: errors.New("boom")}
	ts := NewToolset(cat, logger.Discard())

	res := ts.StartCheckout(context.Background(), "LUXE-DRESS-05")

	require.NotNil(t, res.Failure)
	assert.Equal(t, catalogclient.KindUnreachable, res.Failure.Kind)
	assert.Equal(t, "Checkout failed: boom", res.Failure.Message)
}

func TestSpecs(t *testing.T) {
	specs := NewToolset(&fakeCatalog{}, logger.Discard()).Specs()

	require.Len(t, specs, 2)
	assert.Equal(t, SearchCatalogName, specs[0].Name)
	assert.Equal(t, "query", specs[0].Parameters[0].Name)
	assert.Equal(t, StartCheckoutName, specs[1].Name)
	assert.False(t, specs[1].RequiresConfirmation)
	assert.Equal(t, "sku", specs[1].Parameters[0].Name)
}

// Drives both tools against a real catalog server.
func TestScenario_OverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/products":
			_ = json.NewEncoder(w).Encode(boutique)
		case r.Method == http.MethodPost && r.URL.Path == "/sessions":
			var body struct {
				SKU string `json:"sku"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(catalogclient.Session{SessionID: "sess_12345", Status: "active", SKU: body.SKU})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	doer := httpclient.New(httpclient.DefaultConfig())
	ts := NewToolset(catalogclient.New(doer, server.URL, time.Second, logger.Discard()), logger.Discard())
	ctx := context.Background()

	assert.Equal(t, []string{"LUXE-DRESS-05"}, skus(ts.SearchCatalog(ctx, "dress").Products))
	assert.Len(t, ts.SearchCatalog(ctx, "luxe").Products, 4)
	yacht := ts.SearchCatalog(ctx, "yacht")
	assert.Len(t, yacht.Products, 4)
	assert.True(t, yacht.Fallback)

	checkout := ts.StartCheckout(ctx, "LUXE-DRESS-05")
	require.Nil(t, checkout.Failure)
	assert.Equal(t, &catalogclient.Session{SessionID: "sess_12345", Status: "active", SKU: "LUXE-DRESS-05"}, checkout.Session)
}

func TestScenario_CatalogUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	doer := httpclient.New(httpclient.DefaultConfig())
	ts := NewToolset(catalogclient.New(doer, url, time.Second, logger.Discard()), logger.Discard())

	search := ts.SearchCatalog(context.Background(), "dress")
	require.NotNil(t, search.Failure)
	assert.Contains(t, search.Failure.Message, "Could not connect to catalog: ")
	assert.Equal(t, catalogclient.KindUnreachable, search.Failure.Kind)

	checkout := ts.StartCheckout(context.Background(), "LUXE-DRESS-05")
	require.NotNil(t, checkout.Failure)
	assert.Contains(t, checkout.Failure.Message, "Checkout failed: ")
}
