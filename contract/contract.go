//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-client/domain"
	"context"
	"encoding/json"
	"reflect"
)

// Envelope is the wire frame exchanged with the room service: an event
// name plus its raw payload. Decoding into typed events is the session
// channel's job, not the transport's.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Transport is one bidirectional event connection to the room service.
//
// Dial attaches the credentials as connection-time metadata. The events
// channel is closed when the connection drops, whatever the cause; that
// closure is the single source of truth for "disconnected".
type Transport interface {
	Dial(ctx context.Context, credentials domain.Credentials) error
	ID() string
	Send(ctx context.Context, envelope Envelope) error
	Events() <-chan Envelope
	Close() error
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging purposes during worker initialization or
// lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
