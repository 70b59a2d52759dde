// Package event defines the typed events delivered by the session channel.
// Event names mirror the wire-level event names of the room service.
package event

import (
	"chat-client/domain"
)

type ChannelEvent interface {
	Name() string
}

// Connected is emitted once the remote side has accepted the handshake.
type Connected struct{}

func (Connected) Name() string { return "connect" }

// ConnectError carries the reason a connection attempt was rejected or
// failed at transport level. Classification of the reason happens at the
// facade boundary, not here.
type ConnectError struct {
	Reason string
}

func (ConnectError) Name() string { return "connect_error" }

// Disconnected is emitted when the channel is torn down, whether by the
// remote side, the transport, or a local disconnect call.
type Disconnected struct{}

func (Disconnected) Name() string { return "disconnect" }

// RosterSnapshot carries the full participant list.
type RosterSnapshot struct {
	Users []domain.Participant
}

func (RosterSnapshot) Name() string { return "users" }

// ParticipantJoined carries a single incremental join.
type ParticipantJoined struct {
	User domain.Participant
}

func (ParticipantJoined) Name() string { return "userConnected" }

// ParticipantDisconnected signals that a remote participant went away.
type ParticipantDisconnected struct {
	ID string
}

func (ParticipantDisconnected) Name() string { return "userDisconnected" }

// EntryReceived carries one transcript entry.
type EntryReceived struct {
	Entry domain.Entry
}

func (EntryReceived) Name() string { return "chatMessage" }

// PresenceCount carries the number of connected sessions room-wide.
type PresenceCount struct {
	Count int
}

func (PresenceCount) Name() string { return "usersCount" }
