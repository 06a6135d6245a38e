package oura

import "fmt"

// APIError is an upstream failure, either a non-2xx response or a transport
// error (StatusCode 0).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// newAPIError maps an upstream status code to the error taxonomy.
func newAPIError(status int, body string) *APIError {
	switch status {
	case 400:
		return &APIError{StatusCode: status, Message: "Bad Request: invalid parameters"}
	case 401:
		return &APIError{StatusCode: status, Message: "Unauthorized: access token expired or invalid"}
	case 403:
		return &APIError{StatusCode: status, Message: "Forbidden: user subscription expired or data not available"}
	case 404:
		return &APIError{StatusCode: status, Message: "Not Found: resource does not exist"}
	case 422:
		return &APIError{StatusCode: status, Message: fmt.Sprintf("Validation Error: %s", body)}
	case 429:
		return &APIError{StatusCode: status, Message: "Rate Limit Exceeded: too many requests"}
	default:
		return &APIError{StatusCode: status, Message: fmt.Sprintf("Oura API Error: %d", status)}
	}
}

// newNetworkError wraps a transport-level failure.
func newNetworkError(err error) *APIError {
	return &APIError{Message: fmt.Sprintf("Network Error: %v", err)}
}
