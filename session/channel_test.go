package session

import (
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/errors"
	"chat-client/mocks"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTransport struct {
	mu      sync.Mutex
	id      string
	dialErr error
	events  chan contract.Envelope
	sent    []contract.Envelope
	closed  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{id: "self", events: make(chan contract.Envelope, 16)}
}

func (t *fakeTransport) Dial(context.Context, domain.Credentials) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dialErr
}

func (t *fakeTransport) ID() string { return t.id }

func (t *fakeTransport) Send(_ context.Context, envelope contract.Envelope) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, envelope)
	return nil
}

func (t *fakeTransport) Events() <-chan contract.Envelope { return t.events }

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.events)
	}
	return nil
}

func (t *fakeTransport) emit(name string, payload any) {
	data, _ := json.Marshal(payload)
	t.events <- contract.Envelope{Event: name, Data: data}
}

func (t *fakeTransport) sentEnvelope(name string) (contract.Envelope, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, envelope := range t.sent {
		if envelope.Event == name {
			return envelope, true
		}
	}
	return contract.Envelope{}, false
}

// recorder collects dispatched events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []event.ChannelEvent
}

func (r *recorder) record(e event.ChannelEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) last() event.ChannelEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func TestChannel_DialFailureSurfacesAsConnectError(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	transport.dialErr = fmt.Errorf("connection refused")
	channel := NewChannel(discardLogger(), transport)

	rec := &recorder{}
	channel.On("connect_error", rec.record)

	// When connecting fails at transport level
	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})

	// Then the error surfaces only as a connect_error event
	req.Eventually(func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	connectError, ok := rec.last().(event.ConnectError)
	req.True(ok)
	req.Contains(connectError.Reason, "connection refused")
}

func TestChannel_DispatchesToEverySubscriber(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	channel := NewChannel(discardLogger(), transport)

	first, second := &recorder{}, &recorder{}
	channel.On("connect", first.record)
	unsubscribe := channel.On("connect", second.record)

	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})
	transport.emit("connect", nil)

	req.Eventually(func() bool { return first.count() == 1 && second.count() == 1 },
		time.Second, 5*time.Millisecond)

	// After unsubscribing, the second listener stops receiving
	unsubscribe()
	transport.emit("connect", nil)
	req.Eventually(func() bool { return first.count() == 2 }, time.Second, 5*time.Millisecond)
	req.Equal(1, second.count())
}

func TestChannel_SendWrapsEntryAsChatMessage(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	channel := NewChannel(discardLogger(), transport)
	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})

	req.NoError(channel.Send(context.Background(), domain.NewTextEntry("leon", "hello")))

	envelope, found := transport.sentEnvelope("chatMessage")
	req.True(found)
	var payload wireEntry
	req.NoError(json.Unmarshal(envelope.Data, &payload))
	req.Equal("text", payload.Type)
	req.Equal("hello", payload.Value)
}

func TestChannel_SendRequiresConnection(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(discardLogger(), newFakeTransport())

	err := channel.Send(context.Background(), domain.NewTextEntry("leon", "hello"))

	req.ErrorIs(err, errors.ErrNotConnected)
}

func TestChannel_SendCommandResolvesOnAck(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	channel := NewChannel(discardLogger(), transport)
	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})

	// The remote side confirms the command once it shows up
	go func() {
		for {
			envelope, found := transport.sentEnvelope(CloseRoomCommand)
			if found {
				var command wireCommand
				_ = json.Unmarshal(envelope.Data, &command)
				transport.emit("commandAck", wireAck{ID: command.ID, OK: true})
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	result, err := channel.SendCommand(context.Background(), CloseRoomCommand)

	req.NoError(err)
	req.True(result.Acknowledged)
}

func TestChannel_SendCommandFailsOnDisconnect(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	channel := NewChannel(discardLogger(), transport)
	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})

	rec := &recorder{}
	channel.On("disconnect", rec.record)

	// The channel drops before any confirmation arrives
	go func() {
		for {
			if _, found := transport.sentEnvelope(CloseRoomCommand); found {
				_ = transport.Close()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	result, err := channel.SendCommand(context.Background(), CloseRoomCommand)

	// Then the wait resolves as Failed exactly once, no hang
	req.NoError(err)
	req.False(result.Acknowledged)
	req.Equal("disconnected", result.Reason)
	req.Eventually(func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestChannel_SendCommandRequiresConnection(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(discardLogger(), newFakeTransport())

	result, err := channel.SendCommand(context.Background(), CloseRoomCommand)

	req.ErrorIs(err, errors.ErrNotConnected)
	req.False(result.Acknowledged)
}

func TestChannel_DisconnectIsIdempotent(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	channel := NewChannel(discardLogger(), transport)
	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})

	rec := &recorder{}
	channel.On("disconnect", rec.record)

	channel.Disconnect()
	req.Eventually(func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	// A second disconnect is a no-op
	channel.Disconnect()
	time.Sleep(20 * time.Millisecond)
	req.Equal(1, rec.count())
}

func TestChannel_SendCommandFailsWhenTransportRejectsWrite(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)

	events := make(chan contract.Envelope)
	transport.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(nil)
	transport.EXPECT().Events().Return((<-chan contract.Envelope)(events)).AnyTimes()
	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(fmt.Errorf("broken pipe"))

	channel := NewChannel(discardLogger(), transport)
	channel.Connect(context.Background(), domain.Credentials{DisplayName: "leon"})

	result, err := channel.SendCommand(context.Background(), CloseRoomCommand)

	req.NoError(err)
	req.False(result.Acknowledged)
	req.Contains(result.Reason, "broken pipe")
	close(events)
}
