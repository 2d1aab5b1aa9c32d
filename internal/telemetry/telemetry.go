// Package telemetry defines the data model shared by the acquisition
// sources: the decoded accelerometer sample, the GPS point, and the
// aggregated reading handed to downstream consumers.
package telemetry

import "time"

// Sample is one instantaneous three-axis accelerometer reading. The UART
// path always produces values in the signed 16-bit range; the replay path
// passes through whatever integers the CSV contains.
type Sample struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// GeoPoint is a GPS position in decimal degrees.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// ParkingZone reports the free-spot count observed at a position.
type ParkingZone struct {
	EmptyCount int      `json:"empty_count"`
	Geo        GeoPoint `json:"gps"`
}

// AggregatedReading is the unit of output from a combined source: one
// accelerometer sample paired with one GPS point, stamped at assembly
// time. Parking is nil unless the source was configured with a parking
// zone file. The caller owns the reading after it is returned.
type AggregatedReading struct {
	Accelerometer Sample       `json:"accelerometer"`
	Geo           GeoPoint     `json:"gps"`
	Parking       *ParkingZone `json:"parking,omitempty"`
	CapturedAt    time.Time    `json:"time"`
	UserID        int          `json:"user_id"`
}

// Source produces an unbounded stream of aggregated readings. Start must
// be called before Read. Implementations are single-threaded: a Source
// must not be shared between goroutines without external locking.
type Source interface {
	// Start acquires the underlying resources. Calling Start on an
	// already-started source is a no-op.
	Start() error

	// Read blocks until the next reading is available.
	Read() (AggregatedReading, error)

	// Stop releases the underlying resources. Safe to call repeatedly.
	Stop() error
}
