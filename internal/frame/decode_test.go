package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/road.report/internal/telemetry"
)

func TestDecodeSample_SignedBoundaries(t *testing.T) {
	t.Parallel()

	// Little-endian per axis, two's-complement: 0x7FFF is the positive
	// limit, 0x8000 wraps to the negative limit.
	got := DecodeSample([PayloadLen]byte{0x01, 0x00, 0xFF, 0x7F, 0x00, 0x80})
	assert.Equal(t, telemetry.Sample{X: 1, Y: 32767, Z: -32768}, got)
}

func TestDecodeSample_Zero(t *testing.T) {
	t.Parallel()

	got := DecodeSample([PayloadLen]byte{})
	assert.Equal(t, telemetry.Sample{}, got)
}

func TestDecodeSample_ByteOrder(t *testing.T) {
	t.Parallel()

	// 0x0201 = 513, 0x0403 = 1027, 0xFFFF = -1.
	got := DecodeSample([PayloadLen]byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0xFF})
	assert.Equal(t, telemetry.Sample{X: 513, Y: 1027, Z: -1}, got)
}
