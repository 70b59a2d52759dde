package errors

import "fmt"

// NotAuthorizedReason is the well-known sentinel the room service puts in
// a connect_error event when the identity was rejected.
const NotAuthorizedReason = "not authorized"

var (
	ErrInvalidIdentity = fmt.Errorf("display name is empty or invalid")
	ErrNotAuthorized   = fmt.Errorf("identity not authorized by the room service")
	ErrDisconnected    = fmt.Errorf("channel disconnected")
	ErrNotConnected    = fmt.Errorf("channel is not connected")
	ErrSessionActive   = fmt.Errorf("a session is already active for this identity")
	ErrEmptyWords      = fmt.Errorf("no words have been found")
)

// ClassifyConnectError maps a connect_error reason onto the session error
// taxonomy: the exact "not authorized" sentinel becomes ErrNotAuthorized,
// anything else is a transient transport error that leaves the retry
// decision with the caller.
func ClassifyConnectError(reason string) error {
	if reason == NotAuthorizedReason {
		return ErrNotAuthorized
	}
	return fmt.Errorf("transport error: %s", reason)
}
