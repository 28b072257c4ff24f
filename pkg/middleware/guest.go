package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const guestIDKey contextKeyType = "guest_id"

// GuestIDHeader carries the guest session identifier on every cart and
// checkout request.
const GuestIDHeader = "X-Guest-ID"

// GuestSession middleware requires the X-Guest-ID header and injects the
// guest ID into the request context.
func GuestSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guestID := strings.TrimSpace(r.Header.Get(GuestIDHeader))
			if guestID == "" {
				writeGuestError(w, "missing X-Guest-ID header")
				return
			}

			ctx := context.WithValue(r.Context(), guestIDKey, guestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GuestIDFromContext extracts the guest ID from the request context.
func GuestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(guestIDKey).(string); ok {
		return id
	}
	return ""
}

func writeGuestError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "INVALID_INPUT",
		"message": message,
	})
}
