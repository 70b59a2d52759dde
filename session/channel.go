// Package session holds the client-side core: the event channel wrapper,
// the transcript log, moderation commands, and the facade that ties them
// together for a presentation layer.
package session

import (
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/errors"
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// CloseRoomCommand is the wire name of the command ending the room for
// every participant.
const CloseRoomCommand = "banAllUsers"

// Listener receives typed channel events. Many listeners may subscribe to
// the same event name.
type Listener func(e event.ChannelEvent)

// Channel wraps one bidirectional event connection and exposes it as a
// typed event stream plus send primitives. It owns no session state: it
// only decodes, dispatches, and correlates command confirmations.
type Channel struct {
	log       *slog.Logger
	transport contract.Transport

	mu           sync.Mutex
	open         bool
	nextListener int
	listeners    map[string]map[int]Listener
	pending      map[string]chan domain.RoomCommandResult
}

func NewChannel(log *slog.Logger, transport contract.Transport) *Channel {
	return &Channel{
		log:       log,
		transport: transport,
		listeners: make(map[string]map[int]Listener),
		pending:   make(map[string]chan domain.RoomCommandResult),
	}
}

// LocalID is the session identity assigned by the remote side at dial
// time. Empty until the first successful dial.
func (c *Channel) LocalID() string {
	return c.transport.ID()
}

// On subscribes a listener to one event name and returns its
// unsubscribe function.
func (c *Channel) On(name string, fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listeners[name] == nil {
		c.listeners[name] = make(map[int]Listener)
	}
	id := c.nextListener
	c.nextListener++
	c.listeners[name][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners[name], id)
	}
}

// Connect initiates a connection attempt carrying the credentials. It is
// non-blocking: the outcome is observed through connect / connect_error
// events, never through a return value.
func (c *Channel) Connect(ctx context.Context, credentials domain.Credentials) {
	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		return
	}
	c.open = true
	c.mu.Unlock()

	go func() {
		if err := c.transport.Dial(ctx, credentials); err != nil {
			c.mu.Lock()
			c.open = false
			c.mu.Unlock()
			c.dispatch(event.ConnectError{Reason: err.Error()})
			return
		}
		c.pump()
	}()
}

// Disconnect closes an active connection. Calling it while already
// disconnected is a no-op.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return
	}
	_ = c.transport.Close()
}

// Send transmits one transcript entry, best effort. No acknowledgment is
// expected for text or image sends.
func (c *Channel) Send(ctx context.Context, entry domain.Entry) error {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return errors.ErrNotConnected
	}

	data, err := json.Marshal(wireEntry{Type: string(entry.Type), Value: entry.Value})
	if err != nil {
		return err
	}
	return c.transport.Send(ctx, contract.Envelope{Event: "chatMessage", Data: data})
}

// SendCommand transmits a named command and blocks until its single
// correlated confirmation arrives, the channel disconnects, or the
// context ends. It resolves exactly once; a disconnect before the
// confirmation resolves it as Failed("disconnected").
func (c *Channel) SendCommand(ctx context.Context, name string) (domain.RoomCommandResult, error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return domain.Failed("disconnected"), errors.ErrNotConnected
	}
	id := uuid.NewString()
	confirmation := make(chan domain.RoomCommandResult, 1)
	c.pending[id] = confirmation
	c.mu.Unlock()

	data, err := json.Marshal(wireCommand{ID: id})
	if err != nil {
		c.resolve(id, domain.Failed(err.Error()))
	} else if err := c.transport.Send(ctx, contract.Envelope{Event: name, Data: data}); err != nil {
		c.resolve(id, domain.Failed(err.Error()))
	}

	select {
	case result := <-confirmation:
		return result, nil
	case <-ctx.Done():
		c.resolve(id, domain.Failed("cancelled"))
		return domain.Failed("cancelled"), ctx.Err()
	}
}

// pump drains the transport until its event channel closes, which is the
// single source of truth for a disconnect whatever its cause.
func (c *Channel) pump() {
	for envelope := range c.transport.Events() {
		c.handle(envelope)
	}

	c.mu.Lock()
	c.open = false
	c.mu.Unlock()

	c.failPending()
	c.dispatch(event.Disconnected{})
}

func (c *Channel) handle(envelope contract.Envelope) {
	switch envelope.Event {
	case "connect":
		c.dispatch(event.Connected{})
	case "connect_error":
		var payload wireError
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.log.Error("Malformed connect_error payload", "error", err)
			return
		}
		c.dispatch(event.ConnectError{Reason: payload.Message})
	case "disconnect":
		// Logical teardown from the remote side. Closing the transport
		// ends the pump, which emits the single Disconnected event.
		_ = c.transport.Close()
	case "users":
		var payload []wireUser
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.log.Error("Malformed users payload", "error", err)
			return
		}
		c.dispatch(event.RosterSnapshot{Users: lo.Map(payload, func(u wireUser, _ int) domain.Participant {
			return toParticipant(u)
		})})
	case "userConnected":
		var payload wireUser
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.log.Error("Malformed userConnected payload", "error", err)
			return
		}
		c.dispatch(event.ParticipantJoined{User: toParticipant(payload)})
	case "userDisconnected":
		var payload wireUser
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.log.Error("Malformed userDisconnected payload", "error", err)
			return
		}
		c.dispatch(event.ParticipantDisconnected{ID: payload.ID})
	case "chatMessage":
		var payload wireEntry
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.log.Error("Malformed chatMessage payload", "error", err)
			return
		}
		c.dispatch(event.EntryReceived{Entry: toEntry(payload)})
	case "usersCount":
		var count int
		if err := json.Unmarshal(envelope.Data, &count); err != nil {
			c.log.Error("Malformed usersCount payload", "error", err)
			return
		}
		c.dispatch(event.PresenceCount{Count: count})
	case "commandAck":
		var payload wireAck
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.log.Error("Malformed commandAck payload", "error", err)
			return
		}
		if payload.OK {
			c.resolve(payload.ID, domain.Acknowledged())
		} else {
			c.resolve(payload.ID, domain.Failed(payload.Reason))
		}
	default:
		c.log.Debug("Ignoring unknown event", "event", envelope.Event)
	}
}

// resolve delivers a command result at most once: the pending entry is
// removed under the lock before anything is sent.
func (c *Channel) resolve(id string, result domain.RoomCommandResult) {
	c.mu.Lock()
	confirmation, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if ok {
		confirmation <- result
	}
}

// failPending cancels every in-flight command so no wait outlives the
// channel that carried it.
func (c *Channel) failPending() {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan domain.RoomCommandResult)
	c.mu.Unlock()

	for _, confirmation := range pending {
		confirmation <- domain.Failed("disconnected")
	}
}

func (c *Channel) dispatch(e event.ChannelEvent) {
	c.mu.Lock()
	listeners := lo.Values(c.listeners[e.Name()])
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
}
