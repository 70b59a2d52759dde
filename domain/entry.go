// Package domain contains core concepts of the chat client.
// This file defines transcript entries and related rules.
// Entries are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType discriminates the three transcript entry variants
// carried by the chatMessage wire event.
type EntryType string

const (
	EntryText   EntryType = "text"
	EntryImage  EntryType = "image"
	EntryNotice EntryType = "notice"
)

// Entry represents one immutable unit of the chat transcript.
// For images, Value holds the base64-encoded payload.
// Notices are system-authored: Author stays empty.
type Entry struct {
	ID     uuid.UUID
	Type   EntryType
	Author string
	Value  string
	At     time.Time
}

func NewTextEntry(author, body string) Entry {
	return Entry{
		ID:     uuid.New(),
		Type:   EntryText,
		Author: author,
		Value:  body,
		At:     time.Now().UTC(),
	}
}

func NewImageEntry(author, payload string) Entry {
	return Entry{
		ID:     uuid.New(),
		Type:   EntryImage,
		Author: author,
		Value:  payload,
		At:     time.Now().UTC(),
	}
}

func NewNotice(body string) Entry {
	return Entry{
		ID:    uuid.New(),
		Type:  EntryNotice,
		Value: body,
		At:    time.Now().UTC(),
	}
}
