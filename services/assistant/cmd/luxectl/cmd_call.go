package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

type callCmd struct {
	Tool  string `arg:"" help:"Tool to call (search_catalog or start_checkout)."`
	Input string `arg:"" optional:"" help:"Tool input: plain text or a JSON object such as {\"sku\": \"LUXE-DRESS-05\"}."`
}

// Run invokes the tool exactly as an agent would and prints its JSON output.
func (c *callCmd) Run(ctx context.Context, t *tools.Toolset, out io.Writer) error {
	tool, ok := t.LangchainTool(c.Tool)
	if !ok {
		names := make([]string, 0, 2)
		for _, tool := range t.LangchainTools() {
			names = append(names, tool.Name())
		}
		return fmt.Errorf("unknown tool %q, want one of %s", c.Tool, strings.Join(names, ", "))
	}
	result, err := tool.Call(ctx, c.Input)
	if err != nil {
		return fmt.Errorf("call %s: %w", c.Tool, err)
	}
	_, err = fmt.Fprintln(out, result)
	return err
}
