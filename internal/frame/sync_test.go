package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedAll pushes every byte through the synchronizer and collects the
// completed payloads.
func feedAll(s *Synchronizer, stream []byte) [][PayloadLen]byte {
	var frames [][PayloadLen]byte
	for _, b := range stream {
		if payload, ok := s.Feed(b); ok {
			frames = append(frames, payload)
		}
	}
	return frames
}

func preamble(n int) []byte {
	return bytes.Repeat([]byte{PreambleByte}, n)
}

func TestFeed_SingleFrame(t *testing.T) {
	t.Parallel()

	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	stream := append(preamble(10), payload...)

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0][:])
}

func TestFeed_LeadingNoiseIgnored(t *testing.T) {
	t.Parallel()

	payload := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}
	stream := []byte{0x00, 0x7F, 0x12, 0x34}
	stream = append(stream, preamble(12)...)
	stream = append(stream, payload...)

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0][:])
}

// A non-preamble byte arriving while the run is still short does not
// reset the run counter. The hardware scanner behaves this way; the
// leniency is intentional and kept.
func TestFeed_PartialPreambleSurvivesNoise(t *testing.T) {
	t.Parallel()

	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0x11}
	stream := preamble(9)
	stream = append(stream, 0x42) // junk below the threshold
	stream = append(stream, PreambleByte)
	stream = append(stream, payload...)

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, 1, "run of 9+1 preamble bytes around junk should still sync")
	assert.Equal(t, payload, frames[0][:])
}

func TestFeed_ShortPreambleNeverSyncs(t *testing.T) {
	t.Parallel()

	// Nine preamble bytes followed by data: the run never reached 10,
	// so nothing is collected.
	stream := preamble(9)
	stream = append(stream, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06)

	frames := feedAll(NewSynchronizer(), stream)
	assert.Empty(t, frames)
}

func TestFeed_ExtraPreambleBytesAbsorbed(t *testing.T) {
	t.Parallel()

	// A longer-than-minimum preamble just keeps counting; the first
	// non-preamble byte is payload byte zero no matter how long the
	// run was.
	payload := []byte{0x09, 0x08, 0x07, 0x06, 0x05, 0x04}
	stream := append(preamble(50), payload...)

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0][:])
}

func TestFeed_PreambleByteInsidePayload(t *testing.T) {
	t.Parallel()

	// Once collecting, 0xFF is ordinary data.
	payload := []byte{0x01, PreambleByte, PreambleByte, 0x02, PreambleByte, 0x03}
	stream := append(preamble(10), payload...)

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0][:])
}

func TestFeed_BackToBackFrames(t *testing.T) {
	t.Parallel()

	first := []byte{1, 2, 3, 4, 5, 6}
	second := []byte{7, 8, 9, 10, 11, 12}

	stream := append(preamble(10), first...)
	stream = append(stream, preamble(10)...)
	stream = append(stream, second...)

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, 2)
	assert.Equal(t, first, frames[0][:])
	assert.Equal(t, second, frames[1][:])
}

func TestFeed_FreshRunRequiredAfterFrame(t *testing.T) {
	t.Parallel()

	// After a frame completes the counter starts over: nine preamble
	// bytes are not enough for the next frame.
	stream := append(preamble(10), 1, 2, 3, 4, 5, 6)
	stream = append(stream, preamble(9)...)
	stream = append(stream, 7, 8, 9, 10, 11, 12)

	s := NewSynchronizer()
	frames := feedAll(s, stream)
	require.Len(t, frames, 1)

	// One more preamble byte plus payload completes the second frame,
	// because the nine-byte run survived the junk in between.
	tail := append(preamble(1), 13, 14, 15, 16, 17, 18)
	frames = feedAll(s, tail)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{13, 14, 15, 16, 17, 18}, frames[0][:])
}

func TestFeed_NoiseThenManyFrames(t *testing.T) {
	t.Parallel()

	var stream []byte
	var want [][]byte
	noise := []byte{0x00, 0x55, 0x7E} // never forms a 10-byte 0xFF run
	for i := 0; i < 20; i++ {
		stream = append(stream, noise...)
		stream = append(stream, preamble(10+i%5)...)
		payload := []byte{byte(i), byte(i + 1), byte(i + 2), byte(i + 3), byte(i + 4), byte(i + 5)}
		stream = append(stream, payload...)
		want = append(want, payload)
	}

	frames := feedAll(NewSynchronizer(), stream)
	require.Len(t, frames, len(want))
	for i, payload := range want {
		assert.Equal(t, payload, frames[i][:], "frame %d", i)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := NewSynchronizer()
	// Leave the synchronizer mid-payload.
	for _, b := range append(preamble(10), 0x01, 0x02) {
		s.Feed(b)
	}
	s.Reset()

	// The partial payload is gone; a fresh frame decodes cleanly.
	payload := []byte{9, 9, 9, 9, 9, 9}
	frames := feedAll(s, append(preamble(10), payload...))
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0][:])
}
