package session

import (
	"chat-client/domain"
	"context"
	"log/slog"
)

// Controller issues the room-ending commands. Both paths discard the
// local transcript: leaving or closing a room drops its view.
type Controller struct {
	log     *slog.Logger
	channel *Channel
	entries *Log

	// Lifecycle of the shared channel belongs to the facade; the
	// controller only borrows these two hooks.
	disconnect func()
	markLeft   func()
}

func NewController(log *slog.Logger, channel *Channel, entries *Log,
	disconnect, markLeft func()) *Controller {
	return &Controller{
		log:        log,
		channel:    channel,
		entries:    entries,
		disconnect: disconnect,
		markLeft:   markLeft,
	}
}

// CloseRoomForAll asks the remote side to end the room for every
// participant. On acknowledgment the remote side disconnects everyone,
// the caller included; responsibility here ends at the confirmation.
func (c *Controller) CloseRoomForAll(ctx context.Context) (domain.RoomCommandResult, error) {
	c.entries.Clear()

	result, err := c.channel.SendCommand(ctx, CloseRoomCommand)
	if err != nil {
		return result, err
	}
	if !result.Acknowledged {
		c.log.Warn("Room close command not acknowledged", "reason", result.Reason)
	}
	return result, nil
}

// LeaveRoom tears the session down for the local participant only. It is
// a pure local action: no round trip, no confirmation.
func (c *Controller) LeaveRoom() {
	c.entries.Clear()
	c.disconnect()
	c.markLeft()
}
