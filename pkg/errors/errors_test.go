package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	// Error() appends the wrapped sentinel after the message.
	e := InvalidInput("hotel id is required")
	assert.Equal(t, "INVALID_INPUT: hotel id is required: invalid input", e.Error())

	wrapped := Internal(errors.New("boom"))
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, NotFound("cart", "guest-1"), ErrNotFound)
	assert.ErrorIs(t, InvalidInput("bad"), ErrInvalidInput)
	assert.ErrorIs(t, Conflict("busy"), ErrConflict)
	assert.ErrorIs(t, Unavailable("down"), ErrUnavailable)
	assert.ErrorIs(t, BookingFailed("declined"), ErrBookingFailed)
}

func TestAppError_UnwrapThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit booking: %w", BookingFailed("card declined"))
	assert.ErrorIs(t, err, ErrBookingFailed)

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BOOKING_FAILED", appErr.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("cart", "g"), http.StatusNotFound},
		{InvalidInput("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Unavailable("x"), http.StatusServiceUnavailable},
		{BookingFailed("x"), http.StatusUnprocessableEntity},
		{Internal(errors.New("x")), http.StatusInternalServerError},
		{fmt.Errorf("wrap: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", ErrBookingFailed), http.StatusUnprocessableEntity},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}
