package datagokr

import (
	"errors"
	"fmt"
)

var ErrMissingServiceKey = errors.New("data.go.kr service key is not configured")

// APIError is a response that decoded fine but carried a non-success result code.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data.go.kr api error: %s (code: %s)", e.Message, e.Code)
}

// MalformedResponseError is a body that is neither a usable JSON nor XML envelope.
type MalformedResponseError struct {
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed data.go.kr response: %v", e.Err)
	}
	return "malformed data.go.kr response: " + e.Snippet
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("data.go.kr returned http %d", e.StatusCode)
}
