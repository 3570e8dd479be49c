// Package audio provides a bounded in-memory buffer of PCM chunks.
//
// The hub retains recent microphone audio here for the status endpoint and
// for debugging; the live streaming path never reads from it. When the cap is
// reached the oldest chunks are evicted, so memory use stays bounded no
// matter how long a client streams.
package audio

import (
	"sync"
	"time"
)

// DefaultMaxBytes caps the buffer at roughly half a minute of 16 kHz mono
// 16-bit audio.
const DefaultMaxBytes = 1 << 20

// Buffer is a bounded FIFO of raw PCM chunks. Safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	chunks   [][]byte
	bytes    int
	maxBytes int

	bytesPerSecond int
}

// New creates a Buffer for audio at the given sample rate (mono 16-bit
// samples assumed). maxBytes <= 0 selects DefaultMaxBytes.
func New(sampleRate, maxBytes int) *Buffer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Buffer{
		maxBytes:       maxBytes,
		bytesPerSecond: sampleRate * 2,
	}
}

// Push appends a copy of chunk, evicting the oldest chunks once the byte cap
// is exceeded. Empty chunks are ignored.
func (b *Buffer) Push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.chunks = append(b.chunks, append([]byte(nil), chunk...))
	b.bytes += len(chunk)

	for b.bytes > b.maxBytes && len(b.chunks) > 0 {
		b.bytes -= len(b.chunks[0])
		b.chunks[0] = nil
		b.chunks = b.chunks[1:]
	}
}

// Chunks returns the number of buffered chunks.
func (b *Buffer) Chunks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}

// Bytes returns the total buffered byte count.
func (b *Buffer) Bytes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bytes
}

// Duration returns the playback time the buffered audio represents.
func (b *Buffer) Duration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(b.bytes) * time.Second / time.Duration(b.bytesPerSecond)
}

// Clear discards all buffered audio.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
	b.bytes = 0
}
