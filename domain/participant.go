// Package domain contains core concepts of the chat client.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// Participant is one member of the room as seen by the local client.
// The ID is opaque and assigned by the remote side at connect time.
// DisplayName is chosen at registration and immutable for the session.
type Participant struct {
	ID          string
	DisplayName string
	Self        bool
	Connected   bool
}
