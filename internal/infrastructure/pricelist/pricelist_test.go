package pricelist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `
shop: Connect
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Apple iPhone XS Max 512GB (gold)
    price: 110000
    price_rrc: 116990.50
    quantity: 14
    parameters:
      "Screen (inch)": 6.5
      "Resolution (px)": 2688x1242
      "Colour": gold
  - id: 4216313
    category: 15
    model: apple/airpods
    name: AirPods
    price: 11490
    price_rrc: 12990
    quantity: 0
`

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestParse(t *testing.T) {
	pl, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)

	assert.Equal(t, "Connect", pl.Shop)
	require.Len(t, pl.Categories, 2)
	require.Len(t, pl.Goods, 2)

	phone := pl.Goods[0]
	assert.Equal(t, int64(4216292), phone.ID)
	assert.Equal(t, int64(224), phone.CategoryID)
	assert.True(t, decimal.NewFromInt(110000).Equal(phone.Price))
	assert.True(t, decimal.RequireFromString("116990.50").Equal(phone.PriceRRC))
	assert.Equal(t, 14, phone.Quantity)
	assert.Equal(t, "6.5", phone.Parameters["Screen (inch)"])
	assert.Equal(t, "2688x1242", phone.Parameters["Resolution (px)"])
	assert.Empty(t, pl.Goods[1].Parameters)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		feed string
	}{
		{"not yaml", "shop: [unclosed"},
		{"missing shop", "categories: []\ngoods: []"},
		{"unknown category", "shop: S\ncategories: [{id: 1, name: A}]\ngoods: [{id: 1, category: 2, name: X, price: 1, quantity: 1}]"},
		{"non numeric price", "shop: S\ncategories: [{id: 1, name: A}]\ngoods: [{id: 1, category: 1, name: X, price: cheap, quantity: 1}]"},
		{"negative quantity", "shop: S\ncategories: [{id: 1, name: A}]\ngoods: [{id: 1, category: 1, name: X, price: 1, quantity: -1}]"},
		{"nested parameter", "shop: S\ncategories: [{id: 1, name: A}]\ngoods: [{id: 1, category: 1, name: X, price: 1, quantity: 1, parameters: {a: [1, 2]}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.feed))
			assert.Equal(t, "INVALID_PRICE_LIST", errorCode(t, err))
		})
	}
}

func TestValidateURL(t *testing.T) {
	schemes := []string{"http", "https"}

	u, err := ValidateURL(" https://shop.example/feed.yaml ", schemes)
	require.NoError(t, err)
	assert.Equal(t, "shop.example", u.Host)

	_, err = ValidateURL("", schemes)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, err))

	for _, raw := range []string{"not a url", "/relative/path", "ftp://shop.example/feed.yaml", "https://"} {
		_, err = ValidateURL(raw, schemes)
		assert.Equal(t, CodeInvalidURL, errorCode(t, err), raw)
	}
}

func newTestFetcher(maxSize int64) *Fetcher {
	return NewFetcher(config.PriceListConfig{
		FetchTimeout:   time.Second,
		MaxSizeBytes:   maxSize,
		AllowedSchemes: []string{"http", "https"},
	})
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(1<<20).Fetch(context.Background(), srv.URL+"/feed.yaml")
	require.NoError(t, err)

	assert.Equal(t, "application/x-yaml", doc.ContentType)
	assert.Equal(t, sampleFeed, string(doc.Body))
}

func TestFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	fetcher := newTestFetcher(32)

	_, err := fetcher.Fetch(context.Background(), srv.URL+"/missing")
	assert.Equal(t, CodeFetchFailed, errorCode(t, err))

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/big")
	assert.Equal(t, CodeFeedTooLarge, errorCode(t, err))

	_, err = fetcher.Fetch(context.Background(), "ftp://example.com/feed")
	assert.Equal(t, CodeInvalidURL, errorCode(t, err))
}
