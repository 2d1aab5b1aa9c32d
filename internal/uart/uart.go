// Package uart reads accelerometer samples from the serial link. It
// owns the port handle, drives the frame synchronizer byte by byte, and
// yields one decoded sample per physical frame.
package uart

import (
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/banshee-data/road.report/internal/frame"
	"github.com/banshee-data/road.report/internal/monitoring"
	"github.com/banshee-data/road.report/internal/telemetry"
)

// DefaultBaudRate is the transfer rate the accelerometer module is
// flashed with.
const DefaultBaudRate = 115200

// Port is the minimal serial capability the source needs. go.bug.st's
// serial.Port satisfies it; tests substitute an in-memory
// implementation.
type Port interface {
	io.Reader
	io.Closer
}

// Source pulls bytes from a serial port and assembles them into
// samples. Not safe for concurrent use; each instance owns its port
// exclusively.
type Source struct {
	port   Port
	sync   *frame.Synchronizer
	closed bool
}

// Open opens the serial device at path configured for raw byte-oriented
// transfer: 8 data bits, no parity, one stop bit, no flow control. The
// mode is applied once at open time, mirroring the fixed terminal
// configuration the hardware expects.
func Open(path string, baudRate int) (*Source, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	return NewSource(port), nil
}

// NewSource wraps an already-open port. The source takes ownership of
// the port and closes it on end of stream or Close.
func NewSource(port Port) *Source {
	return &Source{port: port, sync: frame.NewSynchronizer()}
}

// NewDetached returns a source with no port. ReadNext and Close on a
// detached source fail with telemetry.ErrNotConfigured. Used by tests
// and tooling that construct the type without hardware present.
func NewDetached() *Source {
	return &Source{}
}

// ReadNext blocks until the next complete frame arrives and returns the
// decoded sample. When the link reports end of stream (zero bytes from
// a blocking read, or EOF), the source closes its port and returns
// telemetry.ErrStreamExhausted; that condition is terminal, not
// retryable.
func (s *Source) ReadNext() (telemetry.Sample, error) {
	if s.port == nil {
		return telemetry.Sample{}, telemetry.ErrNotConfigured
	}
	if s.closed {
		return telemetry.Sample{}, telemetry.ErrStreamExhausted
	}

	var b [1]byte
	for {
		n, err := s.port.Read(b[:])
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.closeQuietly()
				return telemetry.Sample{}, telemetry.ErrStreamExhausted
			}
			return telemetry.Sample{}, fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			// A blocking read that returns no data means the link
			// is gone.
			s.closeQuietly()
			return telemetry.Sample{}, telemetry.ErrStreamExhausted
		}

		if payload, ok := s.sync.Feed(b[0]); ok {
			return frame.DecodeSample(payload), nil
		}
	}
}

// Close releases the port. Safe to call multiple times; only the first
// call reaches the underlying handle.
func (s *Source) Close() error {
	if s.port == nil {
		return telemetry.ErrNotConfigured
	}
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}

// closeQuietly tears the port down when the stream ends. A close failure
// at that point cannot affect correctness, so it is logged and dropped.
func (s *Source) closeQuietly() {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.port.Close(); err != nil {
		monitoring.Logf("uart: ignoring close error after end of stream: %v", err)
	}
}
