package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/superdupermart/storefront/internal/domain/shared"
)

// errorBody is the structured error shape the backend returns. Some
// endpoints send only a message, in which case the code is derived from
// the HTTP status.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// transportError wraps a network-level failure so callers can match it
// with errors.Is(err, shared.ErrTransport).
func transportError(err error) error {
	return fmt.Errorf("%w: %v", shared.ErrTransport, err)
}

// checkStatus converts a non-2xx response into a domain error.
// The response body is consumed but the caller still owns closing it.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	code := body.Code
	if code == "" {
		code = codeForStatus(resp.StatusCode)
	}

	return shared.NewDomainError(code, message)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized.Code
	case http.StatusForbidden:
		return shared.ErrForbidden.Code
	case http.StatusNotFound:
		return shared.ErrNotFound.Code
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return shared.ErrInvalidInput.Code
	default:
		return "SERVER_ERROR"
	}
}
