package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

type checkoutCmd struct {
	SKU  string `arg:"" help:"SKU to buy."`
	JSON bool   `help:"Print the raw tool output."`
}

func (c *checkoutCmd) Run(ctx context.Context, t *tools.Toolset, out io.Writer) error {
	res := t.StartCheckout(ctx, c.SKU)
	if c.JSON {
		return json.NewEncoder(out).Encode(res.Output())
	}
	if res.Failure != nil {
		return fmt.Errorf("%s", res.Failure.Message)
	}
	fmt.Fprintf(out, "session %s %s for %s\n", res.Session.SessionID, res.Session.Status, res.Session.SKU)
	return nil
}
