package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/BookingGo/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger
// enriched with correlation_id, guest_id, trace_id, and span_id, then stores
// it in context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// This middleware should be mounted AFTER RequestLogging (which sets
// correlation_id) and GuestSession (which sets the guest ID).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			guestID := GuestIDFromContext(ctx)
			if guestID == "" {
				guestID = r.Header.Get(GuestIDHeader)
			}
			if guestID != "" {
				ctx = logger.WithGuestID(ctx, guestID)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
