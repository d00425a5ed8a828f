package loghaul

import (
	"testing"

	"github.com/shadowmint/loghaul/testutil"
)

// PushString replaces the buffer wholesale: a shorter record must not
// leave residual tail bytes from a longer previous one.
func TestStreamBufferPushStringReplaces(t *testing.T) {
	var raw []byte
	buf := NewStreamBuffer(&raw)

	buf.PushString("a long first record")
	buf.PushString("short")

	testutil.ExpectNoDiff(t, "short", string(raw))
}

// PushBytes copies the input, so mutating the caller's slice afterward
// must not leak into the buffer.
func TestStreamBufferPushBytesCopies(t *testing.T) {
	var raw []byte
	buf := NewStreamBuffer(&raw)

	record := []byte("record")
	buf.PushBytes(record)
	record[0] = 'X'

	testutil.ExpectNoDiff(t, "record", string(raw))
}

// Clear empties the buffer while keeping its capacity for reuse.
func TestStreamBufferClearKeepsCapacity(t *testing.T) {
	var raw []byte
	buf := NewStreamBuffer(&raw)

	buf.PushString("something substantial")
	before := cap(raw)
	buf.Clear()

	if len(raw) != 0 {
		t.Fatalf("clear must empty the buffer, len=%d", len(raw))
	}
	if cap(raw) != before {
		t.Fatalf("clear must not reallocate: cap %d -> %d", before, cap(raw))
	}
}
