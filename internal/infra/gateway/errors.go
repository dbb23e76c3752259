package gateway

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// RemoteCallError is returned for any non-2xx response.
// Its message is the raw response body; nothing is decoded from it.
type RemoteCallError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RemoteCallError) Error() string {
	return e.Body
}

// Describe returns the error with its request context, for logs.
func (e *RemoteCallError) Describe() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// AsRemoteCallError extracts a RemoteCallError from an error chain.
func AsRemoteCallError(err error) (*RemoteCallError, bool) {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		return rce, true
	}
	return nil, false
}

// IsRemoteCallError reports whether err carries a RemoteCallError.
func IsRemoteCallError(err error) bool {
	_, ok := AsRemoteCallError(err)
	return ok
}
