package apiclient

import "errors"

// Kind classifies a failed API call so callers can handle errors
// exhaustively instead of inspecting transport details.
type Kind string

const (
	// KindAuth means the session was rejected (HTTP 401)
	KindAuth Kind = "auth"
	// KindForbidden means the action was denied for a valid session (HTTP 403)
	KindForbidden Kind = "forbidden"
	// KindServer means the backend returned any other non-2xx response
	KindServer Kind = "server"
	// KindNetwork means no response was received at all
	KindNetwork Kind = "network"
)

// Error is the single error type every failed call is normalized into.
// Message is always non-empty and safe to display to the user.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, 0 for network errors
}

func (e *Error) Error() string {
	return e.Message
}

// AsError unwraps err into an *Error if it is one
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuth reports whether err is a session-invalidation error
func IsAuth(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindAuth
}

// IsNetwork reports whether err is a connectivity error
func IsNetwork(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindNetwork
}
