// Command luxectl drives the boutique's shopping tools from a terminal.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/luxelife/boutique/pkg/httpclient"
	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

var version = "dev"

type cli struct {
	Version    kong.VersionFlag `help:"Show version information."`
	CatalogURL string           `name:"catalog-url" default:"http://localhost:8182" env:"CATALOG_SERVICE_URL" help:"Catalog service base URL."`
	Timeout    time.Duration    `default:"5s" env:"CATALOG_TIMEOUT" help:"Timeout for each catalog call."`
	LogLevel   string           `default:"warn" env:"LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level for diagnostics on stderr."`

	Search   searchCmd   `cmd:"" help:"Search the catalog."`
	Checkout checkoutCmd `cmd:"" help:"Start a purchase session for a SKU."`
	Call     callCmd     `cmd:"" help:"Call a tool with raw agent input."`
	Chat     chatCmd     `cmd:"" help:"Talk to the concierge."`
	Events   eventsCmd   `cmd:"" help:"Tail session events from Kafka."`
}

func newToolset(c *cli) *tools.Toolset {
	log := logger.NewWithWriter("luxectl", c.LogLevel, os.Stderr)
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = c.Timeout
	client := catalogclient.New(httpclient.New(cfg), c.CatalogURL, c.Timeout, log)
	return tools.NewToolset(client, log)
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("luxectl"),
		kong.Description("LuxeLife boutique shopping tools."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil))
	kctx.Bind(newToolset(&c))
	kctx.FatalIfErrorf(kctx.Run(ctx))
}
