package tail

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
	"github.com/shadowmint/loghaul/waker"
)

// SocketSource is a loghaul.Source that reads whatever is currently
// available off an already-accepted net.Conn (TCP or UDP), one record per
// Poll call.
//
// Poll never blocks longer than readTimeout: it sets a short read deadline
// before every read so a quiet connection yields NoData instead of
// stalling the worker tick.
type SocketSource struct {
	conn        net.Conn
	id          uuid.UUID
	readTimeout time.Duration
	buf         []byte

	mu     sync.Mutex
	closed bool
}

// NewSocketSource wraps an already-connected net.Conn. readTimeout bounds
// how long a single Poll may wait for data; it should be comfortably
// shorter than the Keeper's polling interval.
func NewSocketSource(conn net.Conn, readTimeout time.Duration) *SocketSource {
	return &SocketSource{
		conn:        conn,
		id:          uuid.New(),
		readTimeout: readTimeout,
		buf:         make([]byte, defaultReadBufferSize),
	}
}

// Poll implements loghaul.Source.
func (s *SocketSource) Poll(buf *[]byte) (loghaul.StreamEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return loghaul.StreamEntryEOF, nil
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		metrics.LogErrors.WithLabelValues(s.conn.RemoteAddr().String()).Inc()
		return loghaul.StreamEntryNoData, err
	}

	n, err := s.conn.Read(s.buf)
	if n > 0 {
		loghaul.NewStreamBuffer(buf).PushBytes(s.buf[:n])
		metrics.LogLines.WithLabelValues(s.conn.RemoteAddr().String()).Inc()
		return loghaul.StreamEntryData, nil
	}

	if err == io.EOF {
		s.closed = true
		return loghaul.StreamEntryEOF, nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return loghaul.StreamEntryNoData, nil
	}
	if err != nil {
		metrics.LogErrors.WithLabelValues(s.conn.RemoteAddr().String()).Inc()
		return loghaul.StreamEntryNoData, err
	}
	return loghaul.StreamEntryNoData, nil
}

// Resume implements loghaul.Source. A closed socket cannot be reopened by
// this type (the accept/dial that produced the net.Conn happened outside
// it); Resume always fails so a SocketSource under
// ResumeSourceAfterCooldown simply never comes back, equivalent to
// DropSource for this collaborator.
func (s *SocketSource) Resume() error {
	return errClosedSocket
}

var errClosedSocket = &socketClosedError{}

type socketClosedError struct{}

func (*socketClosedError) Error() string { return "tail: socket source cannot be resumed" }

// Wake returns a channel that becomes ready after readTimeout, matching the
// cadence Poll itself uses to avoid blocking indefinitely.
func (s *SocketSource) Wake() <-chan struct{} {
	return waker.NewTicker(s.readTimeout).Wake()
}
