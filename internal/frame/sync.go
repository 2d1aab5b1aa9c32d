// Package frame recovers fixed-length frames from the unstructured byte
// stream produced by the accelerometer module. The link carries no
// out-of-band framing: a frame is a run of at least PreambleRun 0xFF
// bytes followed immediately by a PayloadLen-byte payload, with no
// checksum. A corrupted payload inside a well-formed preamble/length
// window is therefore indistinguishable from a valid one; that is a
// property of the physical protocol.
package frame

const (
	// PreambleByte is the marker byte whose repetition announces a frame.
	PreambleByte = 0xFF

	// PreambleRun is the minimum number of consecutive PreambleByte
	// values that must be seen before payload collection begins.
	PreambleRun = 10

	// PayloadLen is the fixed payload size of every frame.
	PayloadLen = 6
)

// syncState tags which Synchronizer fields are currently meaningful:
// run while seeking, buf/filled while collecting.
type syncState int

const (
	seeking syncState = iota
	collecting
)

// Synchronizer is the byte-at-a-time state machine that locates frame
// boundaries. The zero value is not ready for use; call NewSynchronizer.
type Synchronizer struct {
	state syncState

	// run counts consecutive preamble bytes; valid in seeking.
	run int

	// buf and filled hold the partially assembled payload; valid in
	// collecting.
	buf    [PayloadLen]byte
	filled int
}

// NewSynchronizer returns a Synchronizer in the seeking state.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// Feed consumes a single byte from the link. When the byte completes a
// frame, Feed returns the payload and ok=true and the synchronizer is
// immediately ready to seek the next preamble.
//
// While seeking, a non-preamble byte seen before the run reaches
// PreambleRun is discarded without resetting the run counter. A partial
// preamble therefore survives interleaved noise bytes. The hardware
// protocol scanner behaves this way and downstream captures depend on
// it, so it is preserved as-is rather than tightened.
func (s *Synchronizer) Feed(b byte) (payload [PayloadLen]byte, ok bool) {
	switch s.state {
	case seeking:
		if b == PreambleByte {
			s.run++
			return payload, false
		}
		if s.run >= PreambleRun {
			// First non-preamble byte after a complete run is
			// payload byte zero.
			s.run = 0
			s.buf[0] = b
			s.filled = 1
			s.state = collecting
		}
		return payload, false

	case collecting:
		s.buf[s.filled] = b
		s.filled++
		if s.filled == PayloadLen {
			s.filled = 0
			s.state = seeking
			return s.buf, true
		}
		return payload, false
	}
	return payload, false
}

// Reset discards any partial preamble or payload and returns the
// synchronizer to the seeking state.
func (s *Synchronizer) Reset() {
	s.state = seeking
	s.run = 0
	s.filled = 0
}
