package session

import "chat-client/domain"

// Wire payload shapes of the room service events. Kept private to the
// channel: everything above it deals in domain types only.

type wireUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type wireEntry struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Author string `json:"author,omitempty"`
}

type wireError struct {
	Message string `json:"message"`
}

type wireCommand struct {
	ID string `json:"id"`
}

type wireAck struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func toParticipant(u wireUser) domain.Participant {
	return domain.Participant{ID: u.ID, DisplayName: u.DisplayName, Connected: true}
}

func toEntry(e wireEntry) domain.Entry {
	switch domain.EntryType(e.Type) {
	case domain.EntryImage:
		return domain.NewImageEntry(e.Author, e.Value)
	case domain.EntryNotice:
		return domain.NewNotice(e.Value)
	default:
		return domain.NewTextEntry(e.Author, e.Value)
	}
}
