package sigv4

import "fmt"

// PreconditionError reports a request that must not be signed: incomplete
// credentials or an unsupported method. Nothing is sent when it is returned.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}

// EncodingError reports an endpoint that cannot be split into scheme, host
// and path. Raised before any network I/O.
type EncodingError struct {
	Endpoint string
	Reason   string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("malformed endpoint %q: %s", e.Endpoint, e.Reason)
}

func ErrorNoAccessKey() *PreconditionError {
	return &PreconditionError{Reason: "no access key is available"}
}

func ErrorUnsupportedMethod(method Method) *PreconditionError {
	return &PreconditionError{Reason: fmt.Sprintf("unsupported method %q", string(method))}
}
