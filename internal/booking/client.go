// Package booking wraps the outbound HTTP calls to the booking backend.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/BookingGo/internal/domain"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
	"github.com/utafrali/BookingGo/pkg/httpclient"
)

// Doer is the interface for executing HTTP requests. Both httpclient.Client
// and httpclient.BreakerClient satisfy this.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls the booking backend over HTTP.
type Client struct {
	httpClient Doer
	baseURL    string
	logger     *slog.Logger
}

type bookingRequest struct {
	CustomerName  string               `json:"customer_name"`
	PaymentMethod string               `json:"payment_method"`
	TotalCost     int64                `json:"total_cost"`
	Items         []bookingRequestItem `json:"items"`
}

type bookingRequestItem struct {
	HotelID      int64  `json:"hotel_id"`
	HotelName    string `json:"hotel_name"`
	RoomID       int64  `json:"room_id"`
	RoomType     string `json:"room_type"`
	Price        int64  `json:"price"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
}

type bookingResponse struct {
	Data *domain.BookingReceipt `json:"data"`
}

// NewClient creates a booking backend client. baseURL has no trailing slash.
func NewClient(httpClient Doer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// SubmitBooking sends the captured cart snapshot and payment details to the
// booking backend and returns the confirmed receipt.
func (c *Client) SubmitBooking(ctx context.Context, customerName, paymentMethod string, totalCost int64, items []domain.LineItem) (*domain.BookingReceipt, error) {
	reqBody := bookingRequest{
		CustomerName:  customerName,
		PaymentMethod: paymentMethod,
		TotalCost:     totalCost,
		Items:         make([]bookingRequestItem, len(items)),
	}
	for i, item := range items {
		reqBody.Items[i] = bookingRequestItem{
			HotelID:      item.HotelID,
			HotelName:    item.HotelName,
			RoomID:       item.Room.ID,
			RoomType:     item.Room.Type,
			Price:        item.Room.Price,
			CheckInDate:  item.CheckInDate,
			CheckOutDate: item.CheckOutDate,
		}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal booking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bookings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, httpReq)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return nil, apperrors.Unavailable("booking backend is temporarily unavailable, please retry shortly")
		}
		return nil, fmt.Errorf("call booking backend: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "booking backend")
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read booking response: %w", err)
	}

	var parsed bookingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode booking response: %w", err)
	}
	if parsed.Data == nil || parsed.Data.ConfirmationNumber == "" {
		return nil, fmt.Errorf("booking backend returned no receipt")
	}

	c.logger.InfoContext(ctx, "booking submitted",
		slog.String("confirmation_number", parsed.Data.ConfirmationNumber),
		slog.Int64("total_cost", parsed.Data.TotalCost),
	)

	return parsed.Data, nil
}
