package engine

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by an engine for capabilities outside its
// deployment profile.
var ErrUnsupported = errors.New("operation not supported by this engine")

// HTTPStatusError is a non-2xx response from the remote service. It
// carries the status and response body so failures are actionable.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GitHub API returned %d: %s", e.Status, e.Body)
}

// ParseError is a malformed response body, distinct from a transport
// failure.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExternalToolError is a failed invocation of the external CLI tool,
// either because it is absent or because it exited non-zero. Stderr is
// surfaced verbatim.
type ExternalToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ExternalToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %s", e.Tool, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }
