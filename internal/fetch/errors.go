package fetch

import "fmt"

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for fetch outcomes that carry no per-request detail.
var (
	// ErrNoData indicates the endpoint responded successfully but the
	// body was empty or JSON null. Distinct from a transport or decode
	// failure: the view exists, it just has nothing in it.
	ErrNoData = constError("no data in response")
)

// HTTPError is returned when the content endpoint responds with a
// non-success status.
type HTTPError struct {
	// Status is the numeric HTTP status code.
	Status int

	// StatusText is the status line text ("Internal Server Error").
	StatusText string

	// URL is the request URL that failed.
	URL string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d %s", e.URL, e.Status, e.StatusText)
}

// DecodeError is returned when a response body is not valid JSON.
type DecodeError struct {
	// URL is the request URL whose body failed to decode.
	URL string

	// Err is the underlying JSON decode failure.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
