package mock

import (
	"sync"

	"github.com/shadowmint/loghaul"
)

// Target records every (entry, data) pair it is given, and optionally
// invokes a caller-supplied consumer for each one. A nil consumer always
// succeeds.
type Target struct {
	mu       sync.Mutex
	consumer func(entry loghaul.StreamEntry, data []byte) error
	Records  []Record
}

// Record is one observed Consume call. Data is copied, since the core
// reuses its buffer after the call returns.
type Record struct {
	Entry loghaul.StreamEntry
	Data  []byte
}

// NewTarget builds a Target that defers to consumer for every Consume
// call, in addition to recording the call.
func NewTarget(consumer func(entry loghaul.StreamEntry, data []byte) error) *Target {
	return &Target{consumer: consumer}
}

// Consume implements loghaul.Target.
func (t *Target) Consume(entry loghaul.StreamEntry, data []byte) error {
	t.mu.Lock()
	t.Records = append(t.Records, Record{Entry: entry, Data: append([]byte(nil), data...)})
	t.mu.Unlock()

	if t.consumer != nil {
		return t.consumer(entry, data)
	}
	return nil
}

// DataRecords returns the string payloads of every recorded
// StreamEntryData call, in order.
func (t *Target) DataRecords() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, r := range t.Records {
		if r.Entry == loghaul.StreamEntryData {
			out = append(out, string(r.Data))
		}
	}
	return out
}
