package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	lctools "github.com/tmc/langchaingo/tools"
)

// SearchTool adapts search_catalog to langchaingo agents.
type SearchTool struct {
	toolset *Toolset
}

// CheckoutTool adapts start_checkout to langchaingo agents.
type CheckoutTool struct {
	toolset *Toolset
}

var (
	_ lctools.Tool = SearchTool{}
	_ lctools.Tool = CheckoutTool{}
)

// LangchainTools returns both tools for a langchaingo agent executor.
func (t *Toolset) LangchainTools() []lctools.Tool {
	return []lctools.Tool{SearchTool{toolset: t}, CheckoutTool{toolset: t}}
}

// LangchainTool returns the tool called name.
func (t *Toolset) LangchainTool(name string) (lctools.Tool, bool) {
	for _, tool := range t.LangchainTools() {
		if tool.Name() == name {
			return tool, true
		}
	}
	return nil, false
}

func (SearchTool) Name() string { return SearchCatalogName }

func (SearchTool) Description() string {
	return searchDescription + ` Input: the search text, or {"query": "..."}.`
}

// Call runs the search. Catalog failures come back as the error marker in
// the output, never as an error.
func (s SearchTool) Call(ctx context.Context, input string) (string, error) {
	query := argument(input, "query")
	return encode(s.toolset.SearchCatalog(ctx, query).Output())
}

func (CheckoutTool) Name() string { return StartCheckoutName }

func (CheckoutTool) Description() string {
	return checkoutDescription + ` Input: the SKU, or {"sku": "..."}.`
}

// Call starts the checkout. Catalog failures come back as the error marker.
func (c CheckoutTool) Call(ctx context.Context, input string) (string, error) {
	sku := argument(input, "sku")
	if strings.TrimSpace(sku) == "" {
		return encode(&Failure{Kind: "invalid_input", Message: CheckoutFailurePrefix + "sku is required"})
	}
	return encode(c.toolset.StartCheckout(ctx, sku).Output())
}

// argument extracts key from a JSON object input, or treats the whole input
// as the value. A JSON string input is unquoted. Raw text is returned as is,
// since surrounding spaces are part of a literal query.
func argument(input, key string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if v, ok := obj[key].(string); ok {
				return v
			}
			return ""
		}
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s
		}
	}
	return input
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool output: %w", err)
	}
	return string(data), nil
}
