package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/banshee-data/road.report/internal/fsutil"
	"github.com/banshee-data/road.report/internal/monitoring"
)

// columnSpec describes the expected shape of one replay file: the header
// tokens that identify a header row and the minimum number of data
// columns.
type columnSpec struct {
	role    string // used in error messages, e.g. "accelerometer"
	tokens  []string
	columns int
}

// cursor tracks the read position within one replay file: the open
// handle, the CSV reader, and the single buffered row left over from
// header detection. On exhaustion the file is reopened from the start
// and header detection reruns, so the row stream never ends.
type cursor struct {
	fsys fsutil.FileSystem
	path string
	spec columnSpec

	file     fs.File
	rd       *csv.Reader
	buffered []string // first data row of a headerless file, nil otherwise
}

func newCursor(fsys fsutil.FileSystem, path string, spec columnSpec) *cursor {
	return &cursor{fsys: fsys, path: path, spec: spec}
}

// open opens the file and runs header detection. Any previous handle is
// released first.
func (c *cursor) open() error {
	c.close()

	f, err := c.fsys.Open(c.path)
	if err != nil {
		return fmt.Errorf("open %s file: %w", c.spec.role, err)
	}

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	c.file = f
	c.rd = rd
	c.buffered = nil

	return c.detectHeader()
}

// close releases the file handle and clears all cursor state. Close
// failures during teardown are logged and dropped; they cannot affect a
// subsequent open.
func (c *cursor) close() {
	if c.file != nil {
		if err := c.file.Close(); err != nil {
			monitoring.Logf("replay: ignoring close error for %s file: %v", c.spec.role, err)
		}
	}
	c.file = nil
	c.rd = nil
	c.buffered = nil
}

// detectHeader classifies the first non-blank row three ways:
//
//   - it contains every expected header token (trimmed, lowercased) →
//     header, discarded;
//   - it has at least the expected column count and the first N cells
//     are all numeric → data, buffered for the first next() call;
//   - anything else → header-like, discarded.
//
// The ordering and casing of header tokens does not matter, and a file
// with no header at all loses no data.
func (c *cursor) detectHeader() error {
	var first []string
	for {
		row, err := c.rd.Read()
		if err == io.EOF {
			// Nothing but blank rows; leave the cursor at EOF and
			// let next() report the empty file.
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s file: %w", c.spec.role, err)
		}
		row = trimRow(row)
		if !blankRow(row) {
			first = row
			break
		}
	}

	norm := make([]string, len(first))
	for i, cell := range first {
		norm[i] = strings.ToLower(cell)
	}

	if containsAll(norm, c.spec.tokens) {
		return nil
	}

	if len(norm) >= c.spec.columns && allNumeric(norm[:c.spec.columns]) {
		c.buffered = first
		return nil
	}

	// Not a recognizable header, not numeric data: treat it as a
	// header-like row and drop it.
	return nil
}

// next returns the next data row, consuming the buffered row first,
// skipping blank rows, and rewinding transparently at end of file. A
// file that yields no data rows across a full pass is reported as an
// error instead of spinning on rewinds forever.
func (c *cursor) next() ([]string, error) {
	if c.rd == nil {
		return nil, fmt.Errorf("%s cursor is not open", c.spec.role)
	}

	rewound := false
	for {
		if c.buffered != nil {
			row := c.buffered
			c.buffered = nil
			return row, nil
		}

		row, err := c.rd.Read()
		if err == io.EOF {
			if rewound {
				return nil, fmt.Errorf("%s file %s has no data rows", c.spec.role, c.path)
			}
			rewound = true
			monitoring.Logf("replay: %s file exhausted, rewinding %s", c.spec.role, c.path)
			if err := c.open(); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", c.spec.role, err)
		}

		row = trimRow(row)
		if blankRow(row) {
			continue
		}
		return row, nil
	}
}

func trimRow(row []string) []string {
	for i, cell := range row {
		row[i] = strings.TrimSpace(cell)
	}
	return row
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func containsAll(row, tokens []string) bool {
	for _, tok := range tokens {
		found := false
		for _, cell := range row {
			if cell == tok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func allNumeric(cells []string) bool {
	for _, cell := range cells {
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return true
}
