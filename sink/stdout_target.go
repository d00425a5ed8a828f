// Package sink provides ready-made loghaul.Target implementations: stdout,
// file, syslog, Elasticsearch, Redis, webhook, and MongoDB. The stream
// engine itself knows nothing about any of them; they obey the Target
// contract like any caller-supplied consumer would.
package sink

import (
	"bufio"
	"io"
	"sync"

	"github.com/shadowmint/loghaul"
)

// StdoutTarget writes every Data record verbatim to an io.Writer (normally
// os.Stdout), one write per record, each terminated with a newline.
type StdoutTarget struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewStdoutTarget wraps w (typically os.Stdout) in a buffered writer.
func NewStdoutTarget(w io.Writer) *StdoutTarget {
	return &StdoutTarget{w: bufio.NewWriter(w)}
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored.
func (t *StdoutTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.w.Write(data); err != nil {
		return err
	}
	if err := t.w.WriteByte('\n'); err != nil {
		return err
	}
	return t.w.Flush()
}
