package session

import (
	"chat-client/domain"
	"iter"
	"sync"
)

// Log is the append-only ordered transcript of the current room.
// Ordering is strictly arrival order on the channel: no deduplication,
// no reordering, no edits after insertion.
type Log struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(e domain.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Clear empties the transcript. Used when a room is torn down; calling it
// on an already empty log is a no-op.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// All returns a lazy, restartable view over the transcript: each range
// re-reads from the start against a snapshot taken when iteration begins,
// so appends during a render never shift what that render sees.
func (l *Log) All() iter.Seq[domain.Entry] {
	return func(yield func(domain.Entry) bool) {
		l.mu.RLock()
		snapshot := make([]domain.Entry, len(l.entries))
		copy(snapshot, l.entries)
		l.mu.RUnlock()

		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}
