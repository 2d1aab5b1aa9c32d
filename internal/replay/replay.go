// Package replay simulates the live sensor stream from recorded CSV
// files. One accelerometer row and one GPS row are combined per read;
// each file rewinds independently when exhausted, so the stream never
// terminates.
package replay

import (
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/banshee-data/road.report/internal/fsutil"
	"github.com/banshee-data/road.report/internal/telemetry"
	"github.com/banshee-data/road.report/internal/timeutil"
)

// Options configures a replay source. The zero value is usable: no
// pacing, user id 0, no parking file, the real filesystem and clock.
type Options struct {
	// Delay is slept after each reading is assembled, pacing the replay
	// to approximate real sensor cadence. Zero disables pacing.
	Delay time.Duration

	// UserID is stamped on every reading.
	UserID int

	// ParkingPath optionally names a third CSV
	// (empty_count,longitude,latitude) cycled alongside the other two.
	ParkingPath string

	// FS overrides the filesystem, for tests.
	FS fsutil.FileSystem

	// Clock overrides time and sleeping, for tests.
	Clock timeutil.Clock
}

// Source replays accelerometer and GPS CSV files as an unbounded stream
// of aggregated readings. Not safe for concurrent use.
type Source struct {
	acc     *cursor
	gps     *cursor
	parking *cursor // nil when no parking file is configured

	opts    Options
	clock   timeutil.Clock
	started bool
}

var _ telemetry.Source = (*Source)(nil)

// NewSource creates a replay source over the two CSV paths. Nothing is
// opened until Start.
func NewSource(accPath, gpsPath string, opts Options) *Source {
	fsys := opts.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	s := &Source{
		acc: newCursor(fsys, accPath, columnSpec{
			role:    "accelerometer",
			tokens:  []string{"x", "y", "z"},
			columns: 3,
		}),
		gps: newCursor(fsys, gpsPath, columnSpec{
			role:    "gps",
			tokens:  []string{"longitude", "latitude"},
			columns: 2,
		}),
		opts:  opts,
		clock: clock,
	}

	if opts.ParkingPath != "" {
		s.parking = newCursor(fsys, opts.ParkingPath, columnSpec{
			role:    "parking",
			tokens:  []string{"empty_count", "longitude", "latitude"},
			columns: 3,
		})
	}

	return s
}

// Start verifies that every configured file exists, opens them for
// sequential reading, and runs header detection on each. A missing path
// fails with an error satisfying errors.Is(err, fs.ErrNotExist) and
// leaves no handles open, so a retry after the file appears succeeds.
// Calling Start on a started source is a no-op.
func (s *Source) Start() error {
	if s.started {
		return nil
	}

	for _, c := range s.cursors() {
		if !c.fsys.Exists(c.path) {
			return fmt.Errorf("%s file %s: %w", c.spec.role, c.path, fs.ErrNotExist)
		}
	}

	opened := make([]*cursor, 0, 3)
	for _, c := range s.cursors() {
		if err := c.open(); err != nil {
			for _, o := range opened {
				o.close()
			}
			return err
		}
		opened = append(opened, c)
	}

	s.started = true
	return nil
}

// Read advances each cursor by one row, parses the rows, and packages
// them into one reading stamped with the current time. The cursors
// advance independently; they are not required to be on the same row
// number. A malformed row aborts only this call: the cursor has already
// moved past it, so the next Read proceeds on fresh data.
func (s *Source) Read() (telemetry.AggregatedReading, error) {
	if !s.started {
		return telemetry.AggregatedReading{}, telemetry.ErrNotStarted
	}

	accRow, err := s.acc.next()
	if err != nil {
		return telemetry.AggregatedReading{}, err
	}
	gpsRow, err := s.gps.next()
	if err != nil {
		return telemetry.AggregatedReading{}, err
	}
	var parkingRow []string
	if s.parking != nil {
		if parkingRow, err = s.parking.next(); err != nil {
			return telemetry.AggregatedReading{}, err
		}
	}

	sample, err := parseAccelerometer(accRow)
	if err != nil {
		return telemetry.AggregatedReading{}, err
	}
	geo, err := parseGPS(gpsRow)
	if err != nil {
		return telemetry.AggregatedReading{}, err
	}

	reading := telemetry.AggregatedReading{
		Accelerometer: sample,
		Geo:           geo,
		CapturedAt:    s.clock.Now().UTC(),
		UserID:        s.opts.UserID,
	}

	if parkingRow != nil {
		zone, err := parseParking(parkingRow)
		if err != nil {
			return telemetry.AggregatedReading{}, err
		}
		reading.Parking = &zone
	}

	// Pacing belongs to the source, not its callers.
	if s.opts.Delay > 0 {
		s.clock.Sleep(s.opts.Delay)
	}

	return reading, nil
}

// Stop closes every file and resets cursor state. Safe to call when
// already stopped.
func (s *Source) Stop() error {
	for _, c := range s.cursors() {
		c.close()
	}
	s.started = false
	return nil
}

func (s *Source) cursors() []*cursor {
	cs := []*cursor{s.acc, s.gps}
	if s.parking != nil {
		cs = append(cs, s.parking)
	}
	return cs
}

// parseAccelerometer converts a row into a sample. Values are parsed as
// numbers and truncated to integers; unlike the UART path they are not
// clamped to the 16-bit range, matching the recorded-data format.
func parseAccelerometer(row []string) (telemetry.Sample, error) {
	if len(row) < 3 {
		return telemetry.Sample{}, &telemetry.MalformedRowError{
			File: "accelerometer", Row: row, Reason: "need 3 values (x,y,z)",
		}
	}
	var axes [3]int
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return telemetry.Sample{}, &telemetry.MalformedRowError{
				File: "accelerometer", Row: row,
				Reason: fmt.Sprintf("cell %d is not numeric", i),
			}
		}
		axes[i] = int(f)
	}
	return telemetry.Sample{X: axes[0], Y: axes[1], Z: axes[2]}, nil
}

func parseGPS(row []string) (telemetry.GeoPoint, error) {
	if len(row) < 2 {
		return telemetry.GeoPoint{}, &telemetry.MalformedRowError{
			File: "gps", Row: row, Reason: "need 2 values (longitude,latitude)",
		}
	}
	lon, err := strconv.ParseFloat(row[0], 64)
	if err != nil {
		return telemetry.GeoPoint{}, &telemetry.MalformedRowError{
			File: "gps", Row: row, Reason: "longitude is not numeric",
		}
	}
	lat, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return telemetry.GeoPoint{}, &telemetry.MalformedRowError{
			File: "gps", Row: row, Reason: "latitude is not numeric",
		}
	}
	return telemetry.GeoPoint{Longitude: lon, Latitude: lat}, nil
}

func parseParking(row []string) (telemetry.ParkingZone, error) {
	if len(row) < 3 {
		return telemetry.ParkingZone{}, &telemetry.MalformedRowError{
			File: "parking", Row: row, Reason: "need 3 values (empty_count,longitude,latitude)",
		}
	}
	count, err := strconv.ParseFloat(row[0], 64)
	if err != nil {
		return telemetry.ParkingZone{}, &telemetry.MalformedRowError{
			File: "parking", Row: row, Reason: "empty_count is not numeric",
		}
	}
	geo, err := parseGPS(row[1:])
	if err != nil {
		return telemetry.ParkingZone{}, &telemetry.MalformedRowError{
			File: "parking", Row: row, Reason: "coordinates are not numeric",
		}
	}
	return telemetry.ParkingZone{EmptyCount: int(count), Geo: geo}, nil
}
