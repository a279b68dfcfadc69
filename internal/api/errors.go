package api

import "fmt"

// StatusError is returned when the endpoint answers 2xx with a status other
// than "ok".
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	if e.Status == "" {
		return "api: rename response has no status"
	}
	return fmt.Sprintf("api: rename rejected with status %q", e.Status)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected HTTP %d", e.Code)
	}
	return fmt.Sprintf("api: unexpected HTTP %d: %s", e.Code, e.Body)
}
