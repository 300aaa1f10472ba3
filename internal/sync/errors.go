package sync

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrOffline is returned when the connectivity probe fails. Not an error
	// state, just a deferred sync.
	ErrOffline = errors.New("remote server is not reachable")

	// ErrAlreadySyncing is returned when a sync is triggered while a cycle
	// is still in flight.
	ErrAlreadySyncing = errors.New("a sync is already in progress")

	// ErrNotRegistered is returned when pull/push is attempted for a
	// business without a remote id.
	ErrNotRegistered = errors.New("business is not registered with the remote server")

	// ErrStepSkipped marks a pull step that never ran because an earlier
	// step already failed.
	ErrStepSkipped = errors.New("step skipped after earlier pull failure")
)

// ErrorKind classifies what went wrong talking to the remote server.
type ErrorKind int

const (
	// KindNetwork covers DNS failures, refused connections and timeouts.
	// Retryable on the next cycle.
	KindNetwork ErrorKind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindMalformed means the body was empty or not valid JSON where data
	// was expected.
	KindMalformed
)

// RemoteError is the single error type the remote client surfaces, so call
// sites never have to unpick transport-library errors.
type RemoteError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	// Snippet holds a truncated copy of the raw body for diagnostics when
	// the response could not be parsed.
	Snippet string
	// Body is the raw response body of a non-2xx answer, kept so callers
	// can salvage structured payloads (e.g. already-registered responses).
	Body []byte
	Err  error
}

func (e *RemoteError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %s", e.Message)
	case KindHTTP:
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	default:
		if e.Snippet != "" {
			return fmt.Sprintf("malformed server response: %s (body: %q)", e.Message, e.Snippet)
		}
		return fmt.Sprintf("malformed server response: %s", e.Message)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is a retryable transport failure.
func IsNetworkError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == KindNetwork
}

// IsAuthError reports whether the server rejected our API key.
func IsAuthError(err error) bool {
	var re *RemoteError
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind == KindHTTP &&
		(re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden)
}

// IsServerDataError reports whether the server answered but the body was
// empty or unparsable.
func IsServerDataError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == KindMalformed
}
