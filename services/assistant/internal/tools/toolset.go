// Package tools implements the shopping assistant's catalog tools.
package tools

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
)

// Tool names as exposed to agents.
const (
	SearchCatalogName = "search_catalog"
	StartCheckoutName = "start_checkout"
)

var (
	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tool_calls_total",
			Help: "Tool invocations by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	searchFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_search_fallback_total",
		Help: "Searches that matched nothing and returned the full catalog",
	})
)

// Catalog is the part of the catalog client the tools use.
type Catalog interface {
	ListProducts(ctx context.Context) ([]catalogclient.Product, error)
	CreateSession(ctx context.Context, sku string) (*catalogclient.Session, error)
}

// Toolset binds the tools to one catalog.
type Toolset struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewToolset creates a toolset backed by catalog.
func NewToolset(catalog Catalog, logger *slog.Logger) *Toolset {
	return &Toolset{catalog: catalog, logger: logger}
}

// Parameter describes one tool argument.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Spec describes a tool to an agent host.
type Spec struct {
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	RequiresConfirmation bool        `json:"requires_confirmation"`
	Parameters           []Parameter `json:"parameters"`
}

const (
	searchDescription   = "Searches the luxury boutique catalog for fashion advice and items."
	checkoutDescription = "Starts a purchase session for the given SKU."
)

// Specs lists both tools. Checkout runs without an extra confirmation step.
func (t *Toolset) Specs() []Spec {
	return []Spec{
		{
			Name:        SearchCatalogName,
			Description: searchDescription,
			Parameters: []Parameter{{
				Name:        "query",
				Type:        "string",
				Description: "Free text matched case-insensitively against every product field",
				Required:    true,
			}},
		},
		{
			Name:                 StartCheckoutName,
			Description:          checkoutDescription,
			RequiresConfirmation: false,
			Parameters: []Parameter{{
				Name:        "sku",
				Type:        "string",
				Description: "SKU of the product to buy",
				Required:    true,
			}},
		},
	}
}
