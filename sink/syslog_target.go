package sink

import (
	"sync"

	"github.com/RackSec/srslog"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// SyslogTarget ships every Data record to a syslog daemon, local or
// remote.
type SyslogTarget struct {
	mu     sync.Mutex
	writer *srslog.Writer
	tag    string
}

// NewSyslogTarget dials network (e.g. "udp"/"tcp", empty for local) at
// raddr (empty for the local syslog daemon) and tags every message with
// tag.
func NewSyslogTarget(network, raddr, tag string) (*SyslogTarget, error) {
	w, err := srslog.Dial(network, raddr, srslog.LOG_INFO, tag)
	if err != nil {
		return nil, err
	}
	return &SyslogTarget{writer: w, tag: tag}, nil
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored.
func (t *SyslogTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.writer.Write(data); err != nil {
		metrics.LogErrors.WithLabelValues(t.tag).Inc()
		return err
	}
	metrics.LogLines.WithLabelValues(t.tag).Inc()
	return nil
}

// Close releases the underlying syslog connection.
func (t *SyslogTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writer.Close()
}
