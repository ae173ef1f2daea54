package tools

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
)

// SearchFailurePrefix starts every search_catalog error marker.
const SearchFailurePrefix = "Could not connect to catalog: "

// Failure is the error marker a tool returns instead of failing.
type Failure struct {
	Kind    catalogclient.Kind `json:"kind"`
	Message string             `json:"error"`
}

// SearchResult is the outcome of search_catalog. Exactly one of Products or
// Failure is meaningful.
type SearchResult struct {
	Query    string
	Products []catalogclient.Product
	// Fallback is set when nothing matched and Products is the full catalog.
	Fallback bool
	Failure  *Failure
}

// Output is the tool's wire value: the product list, or a one-element list
// holding the error marker.
func (r SearchResult) Output() any {
	if r.Failure != nil {
		return []*Failure{r.Failure}
	}
	if r.Products == nil {
		return []catalogclient.Product{}
	}
	return r.Products
}

// Match reports whether query occurs, case-insensitively, anywhere in the
// product's textual representation. The empty query matches everything.
func Match(p catalogclient.Product, query string) bool {
	return strings.Contains(searchText(p), strings.ToLower(query))
}

func searchText(p catalogclient.Product) string {
	return strings.ToLower(strings.Join([]string{
		p.Name,
		p.SKU,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		p.Description,
		p.ImageURL,
	}, " "))
}

// Filter returns the products matching query in catalog order.
func Filter(products []catalogclient.Product, query string) []catalogclient.Product {
	var out []catalogclient.Product
	for _, p := range products {
		if Match(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// SearchCatalog fetches the catalog and filters it by query. When nothing
// matches, the whole catalog is returned instead.
func (t *Toolset) SearchCatalog(ctx context.Context, query string) SearchResult {
	log := logger.WithContext(ctx, t.logger)

	products, err := t.catalog.ListProducts(ctx)
	if err != nil {
		toolCalls.WithLabelValues(SearchCatalogName, "error").Inc()
		log.Warn("search_catalog failed", slog.String("query", query), slog.String("error", err.Error()))
		return SearchResult{
			Query: query,
			Failure: &Failure{
				Kind:    catalogclient.KindOf(err),
				Message: SearchFailurePrefix + err.Error(),
			},
		}
	}

	matches := Filter(products, query)
	if len(matches) == 0 {
		searchFallbacks.Inc()
		toolCalls.WithLabelValues(SearchCatalogName, "fallback").Inc()
		log.Info("search_catalog fell back to full catalog", slog.String("query", query))
		return SearchResult{Query: query, Products: products, Fallback: true}
	}

	toolCalls.WithLabelValues(SearchCatalogName, "ok").Inc()
	log.Debug("search_catalog matched",
		slog.String("query", query),
		slog.Int("matches", len(matches)),
	)
	return SearchResult{Query: query, Products: matches}
}
