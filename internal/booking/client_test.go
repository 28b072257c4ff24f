package booking

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BookingGo/internal/domain"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
	"github.com/utafrali/BookingGo/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(serverURL string) *Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	return NewClient(httpclient.New(cfg), serverURL, newTestLogger())
}

func sampleItems() []domain.LineItem {
	return []domain.LineItem{
		{
			ID:           domain.ItemID(3, 12),
			HotelID:      3,
			HotelName:    "Plaza Hotel",
			Room:         domain.Room{ID: 12, Type: "Double", Price: 18000, Capacity: 2},
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-13",
		},
	}
}

func TestSubmitBooking_Success(t *testing.T) {
	booked := time.Now().UTC().Truncate(time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ada Lovelace", req["customer_name"])
		assert.Equal(t, "credit_card", req["payment_method"])
		assert.Equal(t, float64(19800), req["total_cost"])
		items := req["items"].([]any)
		require.Len(t, items, 1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": domain.BookingReceipt{
				ConfirmationNumber: "CONF-123",
				CustomerName:       "Ada Lovelace",
				HotelName:          "Plaza Hotel",
				RoomType:           "Double",
				TotalCost:          19800,
				PaymentMethod:      "credit_card",
				Status:             domain.ReceiptStatusConfirmed,
				BookedAt:           booked,
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	receipt, err := client.SubmitBooking(context.Background(), "Ada Lovelace", "credit_card", 19800, sampleItems())
	require.NoError(t, err)
	assert.Equal(t, "CONF-123", receipt.ConfirmationNumber)
	assert.Equal(t, int64(19800), receipt.TotalCost)
	assert.Equal(t, domain.ReceiptStatusConfirmed, receipt.Status)
}

func TestSubmitBooking_BackendRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"BOOKING_FAILED","message":"room no longer available"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	receipt, err := client.SubmitBooking(context.Background(), "Ada Lovelace", "credit_card", 19800, sampleItems())
	assert.Nil(t, receipt)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBookingFailed)
	assert.Contains(t, err.Error(), "room no longer available")
}

func TestSubmitBooking_BackendUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":"SERVICE_UNAVAILABLE","message":"maintenance window"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.SubmitBooking(context.Background(), "Ada Lovelace", "credit_card", 19800, sampleItems())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestSubmitBooking_MissingReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.SubmitBooking(context.Background(), "Ada Lovelace", "credit_card", 19800, sampleItems())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no receipt")
}

func TestSubmitBooking_ConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.SubmitBooking(context.Background(), "Ada Lovelace", "credit_card", 19800, sampleItems())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call booking backend")
}

func TestSubmitBooking_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.SubmitBooking(ctx, "Ada Lovelace", "credit_card", 19800, sampleItems())
	require.Error(t, err)
}
