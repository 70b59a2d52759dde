package domain

// Credentials is the opaque identity blob attached to a connection
// attempt. Token is a signed identity assertion built by the handshake;
// the remote side treats it as connection-time metadata, not a message.
type Credentials struct {
	DisplayName string
	Token       string
}
