// Package ws implements the session transport over one websocket
// connection, framing events as JSON envelopes.
package ws

import (
	"chat-client/contract"
	"chat-client/domain"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // base64 image payloads

	// SessionIDHeader is set by the room service on the upgrade response:
	// the identity it assigned to this connection.
	SessionIDHeader = "X-Session-Id"

	// DisplayNameHeader carries the chosen display name as
	// connection-time metadata alongside the signed token.
	DisplayNameHeader = "X-Display-Name"
)

// Transport dials the room service and pumps JSON envelopes in both
// directions. It supports re-dialing after a close: each dial starts a
// fresh event stream.
type Transport struct {
	log *slog.Logger
	url string

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	events  chan contract.Envelope
	id      string
	done    chan struct{}
}

func NewTransport(log *slog.Logger, url string) *Transport {
	return &Transport{log: log, url: url}
}

// Dial opens the connection, attaching the credentials as request
// headers. The session id assigned by the remote side is read from the
// upgrade response.
func (t *Transport) Dial(ctx context.Context, credentials domain.Credentials) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+credentials.Token)
	header.Set(DisplayNameHeader, credentials.DisplayName)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, t.url, header)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", t.url, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.id = resp.Header.Get(SessionIDHeader)
	t.events = make(chan contract.Envelope, 32)
	t.done = make(chan struct{})
	events, done := t.events, t.done
	t.mu.Unlock()

	go t.readPump(conn, events, done)
	go t.pingLoop(conn, done)
	return nil
}

func (t *Transport) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

func (t *Transport) Events() <-chan contract.Envelope {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events
}

func (t *Transport) Send(_ context.Context, envelope contract.Envelope) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("transport is not connected")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(envelope)
}

// Close tears the connection down. The read pump notices and closes the
// event stream, which is what upper layers treat as the disconnect.
// Closing an already closed or never dialed transport is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()
	if conn == nil {
		return nil
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return conn.Close()
}

func (t *Transport) readPump(conn *websocket.Conn, events chan contract.Envelope, done chan struct{}) {
	defer func() {
		close(done)
		close(events)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var envelope contract.Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.log.Warn("Websocket closed unexpectedly", "error", err)
			}
			return
		}
		events <- envelope
	}
}

func (t *Transport) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
