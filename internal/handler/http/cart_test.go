package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BookingGo/internal/domain"
	"github.com/utafrali/BookingGo/internal/event"
	"github.com/utafrali/BookingGo/internal/service"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
	pkgkafka "github.com/utafrali/BookingGo/pkg/kafka"
	"github.com/utafrali/BookingGo/pkg/middleware"
)

// ============================================================================
// Mock CartStore
// ============================================================================

type mockCartStore struct {
	mock.Mock
}

func (m *mockCartStore) Get(ctx context.Context, guestID string) (*domain.Cart, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartStore) Delete(ctx context.Context, guestID string) error {
	args := m.Called(ctx, guestID)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testCartHandler(store *mockCartStore) *CartHandler {
	svc := service.NewCartService(store, testEventProducer(), testLogger())
	return NewCartHandler(svc, testLogger())
}

// setupCartRouter creates a chi router matching the production route layout,
// including the GuestSession and ContentTypeJSON middleware so that session
// behavior is tested end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.GuestSession())

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Get("/contains/{hotelId}/{roomId}", handler.Contains)
		r.Delete("/items/{itemId}", handler.RemoveItem)
		r.Patch("/items/{itemId}/dates", handler.UpdateDates)
	})
	return r
}

// decodeResponse reads the response body into the standard envelope.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// sampleCart returns a cart with one item, suitable for test assertions.
func sampleCart() *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		GuestID: "guest-123",
		Items: []domain.LineItem{
			{
				ID:        "3-12",
				HotelID:   3,
				HotelName: "Plaza Hotel",
				Room: domain.Room{
					ID:       12,
					Type:     "Double",
					Price:    18000,
					Capacity: 2,
				},
				CheckInDate:    "2026-09-10",
				CheckOutDate:   "2026-09-13",
				NumberOfNights: 3,
			},
		},
		TotalItems: 1,
		TotalPrice: 18000,
		UpdatedAt:  now,
	}
}

// ============================================================================
// GET /api/v1/cart - GetCart
// ============================================================================

func TestGetCart_Success(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	store.AssertExpectations(t)
}

func TestGetCart_AbsentCart_ReturnsEmpty(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(nil, apperrors.NotFound("cart", "guest-123"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), data["total_items"])
	store.AssertExpectations(t)
}

func TestGetCart_StoreError_StillReturnsEmpty(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(nil, fmt.Errorf("redis connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	store.AssertExpectations(t)
}

func TestGetCart_MissingGuestID_Returns400(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	// No X-Guest-ID header.
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INVALID_INPUT", body["code"])
	assert.Contains(t, body["message"], "X-Guest-ID")
	store.AssertNotCalled(t, "Get")
}

// ============================================================================
// POST /api/v1/cart/items - AddItem
// ============================================================================

func validAddItemJSON() []byte {
	body := AddItemRequest{
		HotelID:      3,
		HotelName:    "Plaza Hotel",
		RoomID:       12,
		RoomType:     "Double",
		Price:        18000,
		Capacity:     2,
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-13",
	}
	b, _ := json.Marshal(body)
	return b
}

func TestAddItem_Success(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(nil, apperrors.NotFound("cart", "guest-123"))
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON()))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total_items"])
	assert.Equal(t, float64(18000), data["total_price"])
	store.AssertExpectations(t)
}

func TestAddItem_Duplicate_ReturnsCartUnchanged(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON()))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total_items"])
	store.AssertNotCalled(t, "Save")
}

func TestAddItem_InvalidJSON(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestAddItem_ValidationError_MissingFields(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"price":100}`)))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "HotelID")
	assert.Contains(t, resp.Error.Fields, "RoomID")
	store.AssertNotCalled(t, "Save")
}

func TestAddItem_CheckOutBeforeCheckIn(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	body := AddItemRequest{
		HotelID:      3,
		HotelName:    "Plaza Hotel",
		RoomID:       12,
		RoomType:     "Double",
		Price:        18000,
		CheckInDate:  "2026-09-13",
		CheckOutDate: "2026-09-10",
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(b))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// ============================================================================
// DELETE /api/v1/cart/items/{itemId} - RemoveItem
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/3-12", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), data["total_items"])
	store.AssertExpectations(t)
}

func TestRemoveItem_AbsentItem_ReturnsCartUnchanged(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/99-99", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	store.AssertNotCalled(t, "Save")
}

// ============================================================================
// PATCH /api/v1/cart/items/{itemId}/dates - UpdateDates
// ============================================================================

func TestUpdateDates_Success(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	body := []byte(`{"check_in_date":"2026-10-01","check_out_date":"2026-10-05"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/3-12/dates", bytes.NewReader(body))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	store.AssertExpectations(t)
}

func TestUpdateDates_InvalidRange(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	body := []byte(`{"check_in_date":"2026-10-05","check_out_date":"2026-10-01"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/3-12/dates", bytes.NewReader(body))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestUpdateDates_AbsentItem_ReturnsCartUnchanged(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)

	body := []byte(`{"check_in_date":"2026-10-01","check_out_date":"2026-10-05"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/99-99/dates", bytes.NewReader(body))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total_items"])
	store.AssertNotCalled(t, "Save")
}

// ============================================================================
// GET /api/v1/cart/contains/{hotelId}/{roomId} - Contains
// ============================================================================

func TestContains_InCart(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/contains/3/12", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["in_cart"])
}

func TestContains_NotInCart(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Get", mock.Anything, "guest-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/contains/3/99", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["in_cart"])
}

func TestContains_NonNumericHotelID(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/contains/plaza/12", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	store.AssertNotCalled(t, "Get")
}

// ============================================================================
// DELETE /api/v1/cart - ClearCart
// ============================================================================

func TestClearCart_Success(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	store.On("Delete", mock.Anything, "guest-123").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-Guest-ID", "guest-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	store.AssertExpectations(t)
}

// ============================================================================
// Middleware
// ============================================================================

func TestContentTypeJSON_RejectsNonJSON(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON()))
	req.Header.Set("X-Guest-ID", "guest-123")
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAllCartEndpoints_RejectMissingGuestID(t *testing.T) {
	store := new(mockCartStore)
	router := setupCartRouter(testCartHandler(store))

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodDelete, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/items"},
		{http.MethodGet, "/api/v1/cart/contains/3/12"},
		{http.MethodDelete, "/api/v1/cart/items/3-12"},
		{http.MethodPatch, "/api/v1/cart/items/3-12/dates"},
	}

	for _, tc := range requests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
