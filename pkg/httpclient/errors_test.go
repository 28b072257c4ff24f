package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_Structured(t *testing.T) {
	resp := fakeResponse(http.StatusUnprocessableEntity,
		`{"error":{"code":"BOOKING_FAILED","message":"room no longer available"}}`)

	err := ParseResponseError(resp, "booking")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBookingFailed)
	assert.Contains(t, err.Error(), "room no longer available")
}

func TestParseResponseError_BadRequest(t *testing.T) {
	resp := fakeResponse(http.StatusBadRequest,
		`{"error":{"code":"INVALID_INPUT","message":"customer name is required"}}`)

	err := ParseResponseError(resp, "booking")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseResponseError_Unavailable(t *testing.T) {
	resp := fakeResponse(http.StatusServiceUnavailable,
		`{"error":{"code":"SERVICE_UNAVAILABLE","message":"maintenance"}}`)

	err := ParseResponseError(resp, "booking")

	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestParseResponseError_Unstructured(t *testing.T) {
	resp := fakeResponse(http.StatusBadGateway, "upstream timeout")

	err := ParseResponseError(resp, "booking")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestParseResponseError_ServerErrorStructured(t *testing.T) {
	resp := fakeResponse(http.StatusInternalServerError,
		`{"error":{"code":"INTERNAL_ERROR","message":"db down"}}`)

	err := ParseResponseError(resp, "booking")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	// 5xx must not map to a client-facing AppError status.
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}
