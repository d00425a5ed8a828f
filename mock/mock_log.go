package mock

import (
	"sync"

	"github.com/shadowmint/loghaul"
)

// Log records every KeeperLogEntry it receives, guarded by a mutex so it
// can be read safely from the test goroutine while a Keeper drain
// (Keeper.Step or Keeper.Halt) on another goroutine is still writing to it.
type Log struct {
	mu      sync.Mutex
	entries []loghaul.KeeperLogEntry
}

// NewLog builds an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Log implements loghaul.KeeperLog.
func (l *Log) Log(entry loghaul.KeeperLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a snapshot of every entry recorded so far.
func (l *Log) Entries() []loghaul.KeeperLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]loghaul.KeeperLogEntry(nil), l.entries...)
}

// HasKind reports whether any recorded entry has the given kind.
func (l *Log) HasKind(kind loghaul.KeeperLogKind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
