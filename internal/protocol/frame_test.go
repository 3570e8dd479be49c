package protocol

import (
	"bytes"
	"errors"
	"testing"
)

// drain pulls every complete frame out of the decoder, failing the test on
// codec errors.
func drain(t *testing.T, d *Decoder) []*Frame {
	t.Helper()
	var frames []*Frame
	for {
		f, err := d.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if f == nil {
			return frames
		}
		frames = append(frames, f)
	}
}

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		msgType uint32
		payload []byte
		want    []byte
	}{
		{
			name:    "empty payload",
			msgType: 7,
			payload: nil,
			want:    []byte{0x00, 0x00, 0x07},
		},
		{
			name:    "short payload",
			msgType: 1,
			payload: []byte{0xaa, 0xbb},
			want:    []byte{0x00, 0x02, 0x01, 0xaa, 0xbb},
		},
		{
			name:    "multi-byte type varint",
			msgType: 200,
			payload: []byte{0x01},
			want:    []byte{0x00, 0x01, 0xc8, 0x01, 0x01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeFrame(tt.msgType, tt.payload)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeFrame() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestDecoderRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		msgType uint32
		payload []byte
	}{
		{"empty payload", 8, nil},
		{"handshake sized", 1, []byte("client info here")},
		{"type above 127", 106, bytes.Repeat([]byte{0x5a}, 300)},
		{"payload above 127 bytes", 64, bytes.Repeat([]byte{0x00}, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Decoder{}
			d.Feed(EncodeFrame(tt.msgType, tt.payload))

			frames := drain(t, d)
			if len(frames) != 1 {
				t.Fatalf("got %d frames, want 1", len(frames))
			}
			f := frames[0]
			if f.Type != tt.msgType {
				t.Errorf("type = %d, want %d", f.Type, tt.msgType)
			}
			if !bytes.Equal(f.Payload, tt.payload) {
				t.Errorf("payload = %x, want %x", f.Payload, tt.payload)
			}
			if d.Buffered() != 0 {
				t.Errorf("decoder retained %d bytes after full frame", d.Buffered())
			}
		})
	}
}

func TestDecoderPartialDelivery(t *testing.T) {
	// Feeding an encoded frame in arbitrary-sized pieces must yield exactly
	// the frame that feeding it whole yields.
	payload := []byte("the rain in spain stays mainly in the plain")
	encoded := EncodeFrame(92, payload)

	for chunk := 1; chunk <= len(encoded); chunk++ {
		d := &Decoder{}
		var frames []*Frame
		for off := 0; off < len(encoded); off += chunk {
			end := off + chunk
			if end > len(encoded) {
				end = len(encoded)
			}
			d.Feed(encoded[off:end])
			frames = append(frames, drain(t, d)...)
		}
		if len(frames) != 1 {
			t.Fatalf("chunk size %d: got %d frames, want 1", chunk, len(frames))
		}
		if frames[0].Type != 92 || !bytes.Equal(frames[0].Payload, payload) {
			t.Errorf("chunk size %d: frame = %v", chunk, frames[0])
		}
	}
}

func TestDecoderMultipleFramesPerFeed(t *testing.T) {
	d := &Decoder{}
	var stream []byte
	stream = append(stream, EncodeFrame(1, []byte("a"))...)
	stream = append(stream, EncodeFrame(7, nil)...)
	stream = append(stream, EncodeFrame(20, []byte("cc"))...)
	d.Feed(stream)

	frames := drain(t, d)
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	wantTypes := []uint32{1, 7, 20}
	for i, f := range frames {
		if f.Type != wantTypes[i] {
			t.Errorf("frame %d type = %d, want %d", i, f.Type, wantTypes[i])
		}
	}
}

func TestDecoderResync(t *testing.T) {
	valid := EncodeFrame(7, nil)

	tests := []struct {
		name       string
		input      []byte
		wantFrames int
		wantResync bool
	}{
		{
			name:       "no garbage",
			input:      valid,
			wantFrames: 1,
			wantResync: false,
		},
		{
			name:       "one garbage byte",
			input:      append([]byte{0x7e}, valid...),
			wantFrames: 1,
			wantResync: true,
		},
		{
			name:       "many garbage bytes",
			input:      append(bytes.Repeat([]byte{0xff}, 64), valid...),
			wantFrames: 1,
			wantResync: true,
		},
		{
			name:       "garbage only, no preamble",
			input:      bytes.Repeat([]byte{0x42}, 32),
			wantFrames: 0,
			wantResync: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Decoder{}
			d.Feed(tt.input)

			frames := drain(t, d)
			if len(frames) != tt.wantFrames {
				t.Fatalf("got %d frames, want %d", len(frames), tt.wantFrames)
			}
			if tt.wantFrames == 1 && frames[0].Type != 7 {
				t.Errorf("type = %d, want 7", frames[0].Type)
			}
			if (d.Resyncs() > 0) != tt.wantResync {
				t.Errorf("resyncs = %d, wantResync %v", d.Resyncs(), tt.wantResync)
			}
			if tt.wantFrames == 0 && d.Buffered() != 0 {
				t.Errorf("garbage-only buffer not drained, %d bytes left", d.Buffered())
			}
		})
	}
}

func TestDecoderGarbageBetweenFrames(t *testing.T) {
	d := &Decoder{}
	d.Feed(EncodeFrame(1, []byte("x")))
	d.Feed([]byte{0xde, 0xad, 0xbe, 0xef})
	d.Feed(EncodeFrame(3, []byte("y")))

	frames := drain(t, d)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Type != 1 || frames[1].Type != 3 {
		t.Errorf("types = %d,%d, want 1,3", frames[0].Type, frames[1].Type)
	}
}

func TestDecoderCorruptVarint(t *testing.T) {
	d := &Decoder{}
	// Preamble followed by an unbounded length varint.
	d.Feed(append([]byte{0x00}, bytes.Repeat([]byte{0xff}, 12)...))

	_, err := d.Next()
	if !errors.Is(err, ErrVarintOverflow) {
		t.Fatalf("Next() error = %v, want ErrVarintOverflow", err)
	}

	// The stream must recover: a valid frame after the junk still decodes.
	d.Feed(EncodeFrame(7, nil))
	frames := drain(t, d)
	if len(frames) != 1 || frames[0].Type != 7 {
		t.Fatalf("decoder did not recover after corrupt varint: %v", frames)
	}
}

func TestDecoderFrameTooLarge(t *testing.T) {
	d := &Decoder{}
	var b []byte
	b = append(b, FramePreamble)
	b = AppendUvarint(b, MaxFrameLen+1)
	b = AppendUvarint(b, 1)
	d.Feed(b)

	if _, err := d.Next(); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("Next() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestDecoderAwaitsPayload(t *testing.T) {
	encoded := EncodeFrame(64, bytes.Repeat([]byte{0x01}, 50))

	d := &Decoder{}
	d.Feed(encoded[:10])

	f, err := d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if f != nil {
		t.Fatalf("got frame %v from incomplete input", f)
	}

	d.Feed(encoded[10:])
	frames := drain(t, d)
	if len(frames) != 1 || len(frames[0].Payload) != 50 {
		t.Fatalf("frame after completion = %v", frames)
	}
}
