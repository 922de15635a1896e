package backend

import (
	"fmt"
)

// NetworkError covers transport failures, non-2xx responses and bodies that
// are not the expected JSON. Callers surface it once and never retry it
// automatically.
type NetworkError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: status %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RejectedError is a well-formed answer carrying {"error": "..."}.
type RejectedError struct {
	Op      string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: rejected: %s", e.Op, e.Message)
}
