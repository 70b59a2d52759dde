package domain

// SessionState is the lifecycle state of the local session.
// It is owned exclusively by the session facade and mutated only in
// response to channel events or direct user actions.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateConnecting      SessionState = "connecting"
	StateAuthorized      SessionState = "authorized"
	StateDisconnected    SessionState = "disconnected"
)
