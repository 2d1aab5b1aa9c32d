// Command agent streams sensor readings from either the live UART link
// or the CSV replay source and logs each reading as a JSON line. Onward
// delivery (network, storage) is out of scope here; pipe the output to
// whatever consumer needs it.
//
// Usage:
//
//	go run ./cmd/agent -mode=replay -acc=data/accelerometer.csv -gps=data/gps.csv
//	go run ./cmd/agent -mode=uart -port=/dev/ttyUSB0
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/road.report/internal/config"
	"github.com/banshee-data/road.report/internal/replay"
	"github.com/banshee-data/road.report/internal/telemetry"
	"github.com/banshee-data/road.report/internal/uart"
	"github.com/banshee-data/road.report/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON config file (optional)")
	mode       = flag.String("mode", "replay", "Source to run: replay or uart")
	port       = flag.String("port", "", "Serial port (uart mode, overrides config)")
	baud       = flag.Int("baud", 0, "Serial baud rate (uart mode, overrides config)")
	accPath    = flag.String("acc", "", "Accelerometer CSV (replay mode, overrides config)")
	gpsPath    = flag.String("gps", "", "GPS CSV (replay mode, overrides config)")
	parking    = flag.String("parking", "", "Parking CSV (replay mode, optional)")
	delay      = flag.Duration("delay", -1, "Replay pacing delay (overrides config; -1 keeps config value)")
	userID     = flag.Int("user", -1, "User id tag for replay readings (overrides config; -1 keeps config value)")
	count      = flag.Int("count", 0, "Stop after this many readings (0 = run until interrupted)")
)

func main() {
	flag.Parse()

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := uuid.New()
	log.Printf("Agent %s session %s starting (mode=%s)", version.String(), session, *mode)

	var err error
	switch *mode {
	case "replay":
		err = runReplay(ctx, cfg)
	case "uart":
		err = runUART(ctx, cfg)
	default:
		log.Fatalf("Unknown mode %q: expected replay or uart", *mode)
	}
	if err != nil {
		log.Fatalf("Agent stopped: %v", err)
	}
	log.Printf("Agent session %s done", session)
}

func runReplay(ctx context.Context, cfg *config.Config) error {
	acc := cfg.GetAccelerometerCSV()
	if *accPath != "" {
		acc = *accPath
	}
	gps := cfg.GetGPSCSV()
	if *gpsPath != "" {
		gps = *gpsPath
	}

	opts := replay.Options{
		Delay:       cfg.GetReplayDelay(),
		UserID:      cfg.GetUserID(),
		ParkingPath: cfg.GetParkingCSV(),
	}
	if *delay >= 0 {
		opts.Delay = *delay
	}
	if *userID >= 0 {
		opts.UserID = *userID
	}
	if *parking != "" {
		opts.ParkingPath = *parking
	}

	src := replay.NewSource(acc, gps, opts)
	if err := src.Start(); err != nil {
		return err
	}
	defer src.Stop()

	for i := 0; *count == 0 || i < *count; i++ {
		if ctx.Err() != nil {
			return nil
		}
		reading, err := src.Read()
		if err != nil {
			var malformed *telemetry.MalformedRowError
			if errors.As(err, &malformed) {
				log.Printf("Skipping %v", malformed)
				continue
			}
			return err
		}
		logJSON(reading)
	}
	return nil
}

func runUART(ctx context.Context, cfg *config.Config) error {
	device := cfg.GetSerialPort()
	if *port != "" {
		device = *port
	}
	rate := cfg.GetSerialBaud()
	if *baud > 0 {
		rate = *baud
	}

	src, err := uart.Open(device, rate)
	if err != nil {
		return err
	}
	defer src.Close()

	for i := 0; *count == 0 || i < *count; i++ {
		if ctx.Err() != nil {
			return nil
		}
		sample, err := src.ReadNext()
		if err != nil {
			if errors.Is(err, telemetry.ErrStreamExhausted) {
				log.Printf("Serial link reported end of stream")
				return nil
			}
			return err
		}
		logJSON(struct {
			telemetry.Sample
			Time time.Time `json:"time"`
		}{sample, time.Now().UTC()})
	}
	return nil
}

func logJSON(v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal reading: %v", err)
		return
	}
	log.Printf("%s", out)
}
