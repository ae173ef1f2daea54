package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

type searchCmd struct {
	Query []string `arg:"" optional:"" help:"Search text. Empty lists the whole catalog."`
	JSON  bool     `help:"Print the raw tool output."`
}

func (s *searchCmd) Run(ctx context.Context, t *tools.Toolset, out io.Writer) error {
	res := t.SearchCatalog(ctx, strings.Join(s.Query, " "))
	if s.JSON {
		return json.NewEncoder(out).Encode(res.Output())
	}
	if res.Failure != nil {
		return fmt.Errorf("%s", res.Failure.Message)
	}
	if res.Fallback {
		fmt.Fprintln(out, "No direct match. The full collection:")
	}
	for _, p := range res.Products {
		fmt.Fprintf(out, "%-16s %-24s $%s\n", p.SKU, p.Name, formatPrice(p.Price))
	}
	return nil
}
