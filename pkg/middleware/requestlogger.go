package middleware

import (
	"log/slog"
	"net/http"

	"github.com/luxelife/boutique/pkg/logger"
)

// ConversationIDHeader lets assistant callers tag every request of one chat thread.
const ConversationIDHeader = "X-Conversation-ID"

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, conversation_id, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// Mount it after RequestLogging (which sets correlation_id) and Tracing
// (which sets the OpenTelemetry span context).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := r.Header.Get(ConversationIDHeader); id != "" {
				ctx = logger.WithConversationID(ctx, id)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
