// Command tlb6700-monitor polls a TLB-6700 laser controller and records its
// sensed values (wavelength, power, currents, temperatures) into a local
// sqlite database, optionally serving the latest readings over HTTP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/photonbench/tlb6700"
	"github.com/photonbench/tlb6700/internal/telemetry"
	"github.com/photonbench/tlb6700/usbdriver"
)

var (
	dllPath  = flag.String("dll", "", "path to the Newport USB driver library (default: UsbDll.dll on the system search path)")
	deviceID = flag.Int("device", 1, "USB device id")
	interval = flag.Duration("interval", 5*time.Second, "polling interval")
	dbPath   = flag.String("db", "laser_readings.db", "path to the readings database")
	listen   = flag.String("listen", "", "optional HTTP listen address for /status and /readings")
	devMode  = flag.Bool("dev", false, "use the built-in instrument simulator instead of hardware")
)

func main() {
	flag.Parse()

	var handle *usbdriver.Handle
	var err error
	if *devMode {
		handle = usbdriver.NewHandle(tlb6700.NewSimulator())
	} else {
		handle, err = usbdriver.Acquire(*dllPath)
		if err != nil {
			log.Fatalf("failed to load driver: %v", err)
		}
	}

	if err := handle.InitSystem(); err != nil {
		log.Fatalf("failed to initialise USB system: %v", err)
	}
	defer handle.CloseSystem()

	session := tlb6700.NewSession(handle, *deviceID)

	idn, err := session.Identification()
	if err != nil {
		log.Fatalf("device %d did not identify: %v", *deviceID, err)
	}
	log.Printf("monitoring %s (device %d) every %s", idn, *deviceID, *interval)

	db, err := telemetry.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open readings database: %v", err)
	}
	defer db.Close()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// poll loop
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Print("poll routine terminated")
				return
			case <-ticker.C:
				reading, err := pollReading(session, *deviceID)
				if err != nil {
					log.Printf("poll failed: %v", err)
					continue
				}
				if err := db.RecordReading(reading); err != nil {
					log.Printf("failed to record reading: %v", err)
				}
			}
		}
	}()

	// optional HTTP status server
	if *listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveHTTP(ctx, *listen, db)
		}()
	}

	wg.Wait()
	log.Print("shutdown complete")
}

// pollReading takes one snapshot of the laser's sensed values.
func pollReading(s *tlb6700.Session, deviceID int) (telemetry.Reading, error) {
	var r telemetry.Reading
	var err error

	r.DeviceID = deviceID
	r.Timestamp = time.Now().UTC()

	if r.WavelengthNm, err = s.Wavelength(); err != nil {
		return r, err
	}
	if r.PowerMw, err = s.Power(); err != nil {
		return r, err
	}
	if r.DiodeCurrentMa, err = s.DiodeCurrent(); err != nil {
		return r, err
	}
	if r.DiodeTempC, err = s.DiodeTemperature(); err != nil {
		return r, err
	}
	if r.CavityTempC, err = s.CavityTemperature(); err != nil {
		return r, err
	}
	if r.PiezoVoltagePct, err = s.PiezoVoltageSetpoint(); err != nil {
		return r, err
	}
	return r, nil
}

func serveHTTP(ctx context.Context, addr string, db *telemetry.DB) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		reading, err := db.LatestReading()
		if err != nil {
			http.Error(w, "no readings yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reading)
	})
	mux.HandleFunc("/readings", func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if q := r.URL.Query().Get("limit"); q != "" {
			v, err := strconv.Atoi(q)
			if err != nil || v < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = v
		}
		readings, err := db.Readings(limit)
		if err != nil {
			http.Error(w, "failed to load readings", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(readings)
	})

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start status server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("status server shutdown error: %v", err)
	}
	log.Print("status server stopped")
}
