// Command uart-capture records decoded accelerometer samples from the
// serial link into a CSV file with an x,y,z header. The output is
// directly usable as a replay input for the agent.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"log"
	"strconv"

	"github.com/banshee-data/road.report/internal/fsutil"
	"github.com/banshee-data/road.report/internal/telemetry"
	"github.com/banshee-data/road.report/internal/uart"
)

var (
	port  = flag.String("port", "/dev/ttyUSB0", "Serial port to read from")
	baud  = flag.Int("baud", uart.DefaultBaudRate, "Serial baud rate")
	out   = flag.String("out", "savefile.csv", "Output CSV path")
	count = flag.Int("count", 500, "Number of samples to capture")
)

func main() {
	flag.Parse()

	src, err := uart.Open(*port, *baud)
	if err != nil {
		log.Fatalf("Failed to open serial port: %v", err)
	}
	defer src.Close()

	var fsys fsutil.FileSystem = fsutil.OSFileSystem{}
	f, err := fsys.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "z"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	captured := 0
	for captured < *count {
		sample, err := src.ReadNext()
		if err != nil {
			if errors.Is(err, telemetry.ErrStreamExhausted) {
				log.Printf("Stream ended after %d samples", captured)
				break
			}
			log.Fatalf("Read failed: %v", err)
		}

		row := []string{
			strconv.Itoa(sample.X),
			strconv.Itoa(sample.Y),
			strconv.Itoa(sample.Z),
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("Failed to write row: %v", err)
		}
		captured++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush output: %v", err)
	}
	log.Printf("Captured %d samples to %s", captured, *out)
}
