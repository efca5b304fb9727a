package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no token was stored; no request was sent.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrRequestFailed is the kind of every non-2xx response.
	ErrRequestFailed = errors.New("request failed")
	// ErrMalformedResponse means a 2xx body did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingToken means login succeeded but the body carried no token.
	ErrMissingToken = errors.New("missing token")
)

// RequestError carries the status and the text the server sent with a non-2xx response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

// newRequestError uses the response body as the message, or fallback when the body is empty.
func newRequestError(status int, body []byte, fallback string) *RequestError {
	msg := string(body)
	if msg == "" {
		msg = fallback
	}
	return &RequestError{Status: status, Message: msg}
}

// ResponseError reports a body that could not be decoded.
type ResponseError struct {
	Resource string
	Err      error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Resource, e.Err)
}

func (e *ResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// Message turns any client error into the single line shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	var respErr *ResponseError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Message
	case errors.As(err, &respErr):
		return fmt.Sprintf("Failed to parse %s response.", respErr.Resource)
	case errors.Is(err, ErrUnauthenticated):
		return "Not authenticated. Please log in first."
	case errors.Is(err, ErrMissingToken):
		return "Login succeeded but no token was returned."
	default:
		return err.Error()
	}
}
