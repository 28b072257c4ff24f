package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

// downstreamError mirrors the {error:{code,message}} envelope the booking
// backend uses for non-2xx responses.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads a non-2xx response body and translates it into an
// AppError that preserves the downstream semantics. The body is fully
// consumed and closed.
func ParseResponseError(resp *http.Response, downstream string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", downstream, resp.StatusCode, err)
	}

	var parsed downstreamError
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
		return mapDownstreamError(resp.StatusCode, parsed.Error.Message, downstream)
	}

	return fmt.Errorf("%s returned status %d: %s", downstream, resp.StatusCode, string(body))
}

func mapDownstreamError(status int, message, downstream string) error {
	qualified := fmt.Sprintf("%s: %s", downstream, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(downstream, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnprocessableEntity:
		return apperrors.BookingFailed(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", downstream, status, message)
	default:
		return &apperrors.AppError{
			Code:    "DOWNSTREAM_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}
