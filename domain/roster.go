// Package domain contains core concepts of the chat client.
// This file defines the Roster and its reconciliation rules.
package domain

import (
	"sort"

	"github.com/samber/lo"
)

// Roster is the ordered set of participants currently known to the client.
//
// Every operation returns a new Roster value instead of mutating the
// receiver, so a view handed out earlier can never observe a later change.
type Roster []Participant

// NewRosterFromSnapshot replaces the whole roster from a full snapshot.
// Each record is stamped Self when its id matches localID. The result is
// ordered with the self participant first and all others sorted
// lexicographically by display name; the sort is stable so equal names
// keep their snapshot order.
func NewRosterFromSnapshot(users []Participant, localID string) Roster {
	roster := lo.Map(users, func(u Participant, _ int) Participant {
		u.Self = u.ID == localID
		if u.Self {
			u.Connected = true
		}
		return u
	})

	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Self {
			return true
		}
		if roster[j].Self {
			return false
		}
		return roster[i].DisplayName < roster[j].DisplayName
	})
	return roster
}

// ApplyJoin appends a newly joined participant to the existing order.
// The incremental path intentionally does not re-sort: a late joiner lands
// at the end until the next full snapshot. Joins for an id already present
// are dropped rather than duplicated.
func (r Roster) ApplyJoin(p Participant) Roster {
	if _, found := lo.Find(r, func(existing Participant) bool {
		return existing.ID == p.ID
	}); found {
		return r
	}

	p.Connected = true
	next := make(Roster, 0, len(r)+1)
	next = append(next, r...)
	return append(next, p)
}

// SetSelfConnected flips the presence flag of the self participant only.
func (r Roster) SetSelfConnected(connected bool) Roster {
	return lo.Map(r, func(p Participant, _ int) Participant {
		if p.Self {
			p.Connected = connected
		}
		return p
	})
}

// MarkDisconnected flags a remote participant as gone without removing it.
// Departure is only ever signalled by an explicit userDisconnected event;
// there is no removal path.
func (r Roster) MarkDisconnected(id string) Roster {
	return lo.Map(r, func(p Participant, _ int) Participant {
		if p.ID == id {
			p.Connected = false
		}
		return p
	})
}

// Self returns the local participant, if the roster holds one.
func (r Roster) Self() (Participant, bool) {
	return lo.Find(r, func(p Participant) bool { return p.Self })
}
