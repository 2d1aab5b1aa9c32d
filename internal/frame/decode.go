package frame

import (
	"encoding/binary"

	"github.com/banshee-data/road.report/internal/telemetry"
)

// DecodeSample converts a raw frame payload into a three-axis sample.
// Each axis is a little-endian signed 16-bit value: bytes 0-1 are X,
// 2-3 are Y, 4-5 are Z. Pure function; never fails for a full payload.
func DecodeSample(p [PayloadLen]byte) telemetry.Sample {
	return telemetry.Sample{
		X: int(int16(binary.LittleEndian.Uint16(p[0:2]))),
		Y: int(int16(binary.LittleEndian.Uint16(p[2:4]))),
		Z: int(int16(binary.LittleEndian.Uint16(p[4:6]))),
	}
}
