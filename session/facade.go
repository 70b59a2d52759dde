package session

import (
	"chat-client/auth"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/errors"
	"chat-client/moderation"
	"chat-client/search"
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// Facade composes channel, roster, transcript, and moderation into the
// one state object the presentation layer consumes. It is the only
// component allowed to drive the channel lifecycle.
type Facade struct {
	log        *slog.Logger
	channel    *Channel
	entries    *Log
	moderation *Controller
	filter     *moderation.Filter
	transcript *search.Transcript

	mu         sync.RWMutex
	state      domain.SessionState
	attempting bool
	roster     domain.Roster
	presence   int
	left       bool
	lastErr    error

	observers []Listener
}

type Option func(*Facade)

// WithOutboundFilter masks censored words in outgoing text entries
// before they leave the client.
func WithOutboundFilter(f *moderation.Filter) Option {
	return func(s *Facade) { s.filter = f }
}

// WithTranscriptIndex keeps a session-resident search index in sync with
// the transcript.
func WithTranscriptIndex(t *search.Transcript) Option {
	return func(s *Facade) { s.transcript = t }
}

func NewFacade(log *slog.Logger, channel *Channel, opts ...Option) *Facade {
	f := &Facade{
		log:     log,
		channel: channel,
		entries: NewLog(),
		state:   domain.StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.moderation = NewController(log, channel, f.entries, f.disconnect, f.markLeft)

	for _, name := range []string{
		"connect", "connect_error", "disconnect",
		"users", "userConnected", "userDisconnected",
		"chatMessage", "usersCount",
	} {
		channel.On(name, f.HandleEvent)
	}
	return f
}

// Submit validates the display name and starts a connection attempt.
// An invalid identity is reported synchronously and leaves the session
// state untouched; every later outcome arrives as a channel event.
func (f *Facade) Submit(ctx context.Context, displayName string) error {
	credentials, err := auth.Attempt(displayName)
	if err != nil {
		return err
	}

	f.mu.Lock()
	// Only a live attempt or an authorized session blocks resubmission.
	// A transient connection error leaves the state at Connecting with no
	// attempt in flight, and the retry must go through.
	if f.attempting || f.state == domain.StateAuthorized {
		f.mu.Unlock()
		return errors.ErrSessionActive
	}
	f.state = domain.StateConnecting
	f.attempting = true
	f.roster = nil
	f.presence = 0
	f.left = false
	f.lastErr = nil
	f.mu.Unlock()

	f.channel.Connect(ctx, credentials)
	return nil
}

// HandleEvent applies one channel event to the session state. All state
// mutation funnels through here, in delivery order.
func (f *Facade) HandleEvent(e event.ChannelEvent) {
	f.mu.Lock()
	switch evt := e.(type) {
	case event.Connected:
		f.attempting = false
		if f.state == domain.StateConnecting {
			f.state = domain.StateAuthorized
			f.roster = f.roster.SetSelfConnected(true)
		}
	case event.ConnectError:
		f.attempting = false
		classified := errors.ClassifyConnectError(evt.Reason)
		f.lastErr = classified
		// An unauthorized identity forces re-registration; any other
		// error leaves the retry decision with the user.
		if classified == errors.ErrNotAuthorized {
			f.state = domain.StateUnauthenticated
		}
	case event.Disconnected:
		f.attempting = false
		if f.state == domain.StateAuthorized {
			f.state = domain.StateDisconnected
		}
		f.roster = f.roster.SetSelfConnected(false)
		f.presence = 0
	case event.RosterSnapshot:
		f.roster = domain.NewRosterFromSnapshot(evt.Users, f.channel.LocalID())
	case event.ParticipantJoined:
		f.roster = f.roster.ApplyJoin(evt.User)
	case event.ParticipantDisconnected:
		f.roster = f.roster.MarkDisconnected(evt.ID)
	case event.EntryReceived:
		f.entries.Append(evt.Entry)
		if f.transcript != nil {
			if err := f.transcript.Index(evt.Entry); err != nil {
				f.log.Error("Failed to index transcript entry", "error", err)
			}
		}
	case event.PresenceCount:
		f.presence = evt.Count
	}
	observers := f.observers
	f.mu.Unlock()

	for _, fn := range observers {
		fn(e)
	}
}

// Notify registers a render hook invoked after each applied event.
func (f *Facade) Notify(fn Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

// SendText transmits one text entry, passing it through the outbound
// filter when one is configured. Fire and forget.
func (f *Facade) SendText(ctx context.Context, body string) error {
	if f.filter != nil {
		body, _ = f.filter.Apply(body)
	}
	self, _ := f.Roster().Self()
	return f.channel.Send(ctx, domain.NewTextEntry(self.DisplayName, body))
}

// SendImage transmits one base64-encoded image payload.
func (f *Facade) SendImage(ctx context.Context, payload string) error {
	self, _ := f.Roster().Self()
	return f.channel.Send(ctx, domain.NewImageEntry(self.DisplayName, payload))
}

// CloseRoomForAll ends the room for everyone, pending remote confirmation.
func (f *Facade) CloseRoomForAll(ctx context.Context) (domain.RoomCommandResult, error) {
	result, err := f.moderation.CloseRoomForAll(ctx)
	f.resetTranscriptIndex()
	return result, err
}

// LeaveRoom tears the session down locally and flags it for a farewell
// notice.
func (f *Facade) LeaveRoom() {
	f.moderation.LeaveRoom()
	f.resetTranscriptIndex()
}

func (f *Facade) disconnect() {
	f.channel.Disconnect()
}

func (f *Facade) markLeft() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left = true
	f.attempting = false
	f.state = domain.StateDisconnected
}

func (f *Facade) resetTranscriptIndex() {
	if f.transcript == nil {
		return
	}
	if err := f.transcript.Reset(); err != nil {
		f.log.Error("Failed to reset transcript index", "error", err)
	}
}

func (f *Facade) State() domain.SessionState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Roster returns the current participant view. The returned value is
// immutable: later events produce new roster values.
func (f *Facade) Roster() domain.Roster {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.roster
}

func (f *Facade) Entries() *Log {
	return f.entries
}

// Presence is the number of connected sessions reported room-wide.
func (f *Facade) Presence() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.presence
}

// Left reports whether the local participant quit on purpose, so the
// presentation layer can render a farewell notice.
func (f *Facade) Left() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.left
}

// LastError is the most recent classified connection failure, if any.
func (f *Facade) LastError() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastErr
}

// ActiveNames lists connected participants for quick rendering.
func (f *Facade) ActiveNames() []string {
	return lo.FilterMap(f.Roster(), func(p domain.Participant, _ int) (string, bool) {
		return p.DisplayName, p.Connected
	})
}
