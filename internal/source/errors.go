package source

import "fmt"

// APIError represents a failed call to an upstream weather provider
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	prefix := fmt.Sprintf("%s API error", e.Provider)
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s (status %d)", prefix, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new provider error
func NewAPIError(provider, message string, err error) *APIError {
	return &APIError{
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// NewStatusError creates a provider error for a non-success HTTP status
func NewStatusError(provider string, statusCode int) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    "unexpected status",
	}
}
