// Package mock provides in-memory Source, Target, and KeeperLog test
// doubles so this repo's own tests, and anyone downstream, can exercise a
// Stream or Keeper without touching a real file or socket.
package mock

import (
	"sync"

	"github.com/shadowmint/loghaul"
)

// Source replays a fixed sequence of string records. It comes in three
// flavors, selected at construction:
//   - NewSource: replays its values once, then yields NoData forever.
//   - NewClosedSource: replays its values once, then reports EOF. If the
//     KeeperEofStrategy resumes it, Resume restores the full sequence.
//   - NewEmptySource: never has any data; always NoData.
//
// An empty string in the sequence is replayed as a NoData tick, since
// Data entries carry a non-empty buffer.
type Source struct {
	mu      sync.Mutex
	backup  []string
	pending []string
	finite  bool
	closed  bool
	nextErr error
}

// NewSource builds a Source that replays values once and then idles.
func NewSource(values ...string) *Source {
	s := &Source{backup: append([]string(nil), values...)}
	s.restore()
	return s
}

// NewClosedSource builds a Source that EOFs once its values are exhausted,
// and can be restarted from the top via Resume.
func NewClosedSource(values ...string) *Source {
	s := &Source{backup: append([]string(nil), values...), finite: true}
	s.restore()
	return s
}

// NewEmptySource builds a Source with no data at all.
func NewEmptySource() *Source {
	s := &Source{}
	s.restore()
	return s
}

// FailNextPoll makes the next Poll call return err instead of a record.
func (s *Source) FailNextPoll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr = err
}

func (s *Source) restore() {
	s.pending = append([]string(nil), s.backup...)
	s.closed = false
}

// Poll implements loghaul.Source.
func (s *Source) Poll(buf *[]byte) (loghaul.StreamEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextErr != nil {
		err := s.nextErr
		s.nextErr = nil
		return loghaul.StreamEntryNoData, err
	}

	if len(s.pending) == 0 && s.finite {
		s.closed = true
	}
	if s.closed {
		return loghaul.StreamEntryEOF, nil
	}

	if len(s.pending) > 0 {
		entry := s.pending[0]
		s.pending = s.pending[1:]
		// Data implies a non-empty buffer; an empty fixture value is a
		// tick with nothing to yield.
		if entry == "" {
			*buf = (*buf)[:0]
			return loghaul.StreamEntryNoData, nil
		}
		loghaul.NewStreamBuffer(buf).PushString(entry)
		return loghaul.StreamEntryData, nil
	}

	*buf = (*buf)[:0]
	return loghaul.StreamEntryNoData, nil
}

// Resume implements loghaul.Source: it restores the full backup sequence.
func (s *Source) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore()
	return nil
}
