package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRosterFromSnapshot_SelfFirstThenByName(t *testing.T) {
	req := require.New(t)

	// Given a snapshot where the local id is not first
	users := []Participant{
		{ID: "A", DisplayName: "bob"},
		{ID: "self", DisplayName: "amy"},
		{ID: "B", DisplayName: "zoe"},
		{ID: "C", DisplayName: "carol"},
	}

	// When the snapshot is applied
	roster := NewRosterFromSnapshot(users, "self")

	// Then self sorts first and the rest is lexicographic by name
	req.Len(roster, 4)
	req.True(roster[0].Self)
	req.Equal("amy", roster[0].DisplayName)
	req.True(roster[0].Connected)
	req.Equal([]string{"bob", "carol", "zoe"}, []string{
		roster[1].DisplayName, roster[2].DisplayName, roster[3].DisplayName,
	})
	req.False(roster[1].Self)
}

func TestNewRosterFromSnapshot_StableForEqualNames(t *testing.T) {
	req := require.New(t)

	users := []Participant{
		{ID: "1", DisplayName: "bob"},
		{ID: "2", DisplayName: "bob"},
		{ID: "3", DisplayName: "bob"},
	}

	roster := NewRosterFromSnapshot(users, "absent")

	// Equal names keep their snapshot order, and no one is self
	req.Equal([]string{"1", "2", "3"}, []string{roster[0].ID, roster[1].ID, roster[2].ID})
	_, found := roster.Self()
	req.False(found)
}

func TestApplyJoin_AppendsWithoutResorting(t *testing.T) {
	req := require.New(t)
	roster := NewRosterFromSnapshot([]Participant{
		{ID: "self", DisplayName: "mia"},
		{ID: "A", DisplayName: "zoe"},
	}, "self")

	// When a participant joins whose name sorts before the others
	next := roster.ApplyJoin(Participant{ID: "B", DisplayName: "abe"})

	// Then the size grows by one and prior ordering is untouched
	req.Len(next, 3)
	req.Equal("mia", next[0].DisplayName)
	req.Equal("zoe", next[1].DisplayName)
	req.Equal("abe", next[2].DisplayName)
	req.True(next[2].Connected)
}

func TestApplyJoin_DropsDuplicateID(t *testing.T) {
	req := require.New(t)
	roster := NewRosterFromSnapshot([]Participant{
		{ID: "A", DisplayName: "bob"},
	}, "self")

	next := roster.ApplyJoin(Participant{ID: "A", DisplayName: "bob"})

	req.Len(next, 1)
}

func TestApplyJoin_DoesNotMutateOriginal(t *testing.T) {
	req := require.New(t)
	roster := NewRosterFromSnapshot([]Participant{
		{ID: "A", DisplayName: "bob"},
	}, "self")

	_ = roster.ApplyJoin(Participant{ID: "B", DisplayName: "amy"})

	req.Len(roster, 1)
}

func TestSetSelfConnected_TouchesOnlySelf(t *testing.T) {
	req := require.New(t)
	roster := NewRosterFromSnapshot([]Participant{
		{ID: "self", DisplayName: "amy"},
		{ID: "A", DisplayName: "bob"},
	}, "self")

	next := roster.SetSelfConnected(false)

	self, found := next.Self()
	req.True(found)
	req.False(self.Connected)
	req.True(next[1].Connected)
}

func TestMarkDisconnected_FlagsWithoutRemoving(t *testing.T) {
	req := require.New(t)
	roster := NewRosterFromSnapshot([]Participant{
		{ID: "self", DisplayName: "amy"},
		{ID: "A", DisplayName: "bob"},
	}, "self")

	next := roster.MarkDisconnected("A")

	req.Len(next, 2)
	req.False(next[1].Connected)
	req.True(next[0].Connected)
}
