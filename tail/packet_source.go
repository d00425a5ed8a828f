package tail

import (
	"sync"
	"time"

	"github.com/google/gopacket/pcap"
	"github.com/google/uuid"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// PacketSource is a loghaul.Source that yields each captured frame off a
// live interface as one Data record.
//
// The underlying pcap handle is opened with a short read timeout so a
// single Poll call never blocks materially longer than that timeout,
// honoring the Source contract's non-blocking obligation.
type PacketSource struct {
	id     uuid.UUID
	device string
	handle *pcap.Handle

	timeout time.Duration
	snaplen int32
	promisc bool

	mu   sync.Mutex
	done bool
}

// NewPacketSource builds a PacketSource that will capture off device (a
// live interface name, opened with pcap.OpenLive) once Poll first opens
// it. Offline capture from a pcap file is not supported.
func NewPacketSource(device string, snaplen int32, promisc bool, timeout time.Duration) *PacketSource {
	return &PacketSource{
		id:      uuid.New(),
		device:  device,
		snaplen: snaplen,
		promisc: promisc,
		timeout: timeout,
	}
}

// Poll implements loghaul.Source: it opens the capture handle on first
// call and thereafter reads one packet per call, reporting NoData when the
// read timeout elapses with nothing captured.
func (p *PacketSource) Poll(buf *[]byte) (loghaul.StreamEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return loghaul.StreamEntryEOF, nil
	}

	if p.handle == nil {
		handle, err := pcap.OpenLive(p.device, p.snaplen, p.promisc, p.timeout)
		if err != nil {
			metrics.LogErrors.WithLabelValues(p.device).Inc()
			return loghaul.StreamEntryNoData, err
		}
		metrics.LogOpens.WithLabelValues(p.device).Inc()
		p.handle = handle
	}

	data, _, err := p.handle.ReadPacketData()
	switch err {
	case nil:
		loghaul.NewStreamBuffer(buf).PushBytes(data)
		metrics.LogLines.WithLabelValues(p.device).Inc()
		return loghaul.StreamEntryData, nil
	case pcap.NextErrorTimeoutExpired:
		return loghaul.StreamEntryNoData, nil
	case pcap.NextErrorNoMorePackets:
		p.done = true
		return loghaul.StreamEntryEOF, nil
	default:
		metrics.LogErrors.WithLabelValues(p.device).Inc()
		return loghaul.StreamEntryNoData, err
	}
}

// Resume implements loghaul.Source: it closes the current handle (if any)
// so the next Poll reopens capture from scratch.
func (p *PacketSource) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		p.handle.Close()
		metrics.LogCloses.WithLabelValues(p.device).Inc()
		p.handle = nil
	}
	p.done = false
	return nil
}
