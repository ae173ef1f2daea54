package tools

import (
	"context"
	"log/slog"

	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
)

// CheckoutFailurePrefix starts every start_checkout error marker.
const CheckoutFailurePrefix = "Checkout failed: "

// CheckoutResult is the outcome of start_checkout.
type CheckoutResult struct {
	SKU     string
	Session *catalogclient.Session
	Failure *Failure
}

// Output is the tool's wire value: the session mapping or the error marker.
func (r CheckoutResult) Output() any {
	if r.Failure != nil {
		return r.Failure
	}
	return r.Session
}

// StartCheckout asks the catalog to open a purchase session for sku and
// relays the answer unchanged.
func (t *Toolset) StartCheckout(ctx context.Context, sku string) CheckoutResult {
	log := logger.WithContext(ctx, t.logger)

	session, err := t.catalog.CreateSession(ctx, sku)
	if err != nil {
		toolCalls.WithLabelValues(StartCheckoutName, "error").Inc()
		log.Warn("start_checkout failed", slog.String("sku", sku), slog.String("error", err.Error()))
		return CheckoutResult{
			SKU: sku,
			Failure: &Failure{
				Kind:    catalogclient.KindOf(err),
				Message: CheckoutFailurePrefix + err.Error(),
			},
		}
	}

	toolCalls.WithLabelValues(StartCheckoutName, "ok").Inc()
	log.Info("checkout started",
		slog.String("sku", session.SKU),
		slog.String("session_id", session.SessionID),
	)
	return CheckoutResult{SKU: sku, Session: session}
}
