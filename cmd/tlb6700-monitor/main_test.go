package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/photonbench/tlb6700"
	"github.com/photonbench/tlb6700/internal/telemetry"
	"github.com/photonbench/tlb6700/usbdriver"
)

func TestPollReadingEndToEnd(t *testing.T) {
	handle := usbdriver.NewHandle(tlb6700.NewSimulator())
	if err := handle.InitSystem(); err != nil {
		t.Fatalf("failed to initialise simulated handle: %v", err)
	}
	session := tlb6700.NewSession(handle, 1)

	if err := session.SetOutput(true); err != nil {
		t.Fatalf("failed to enable output: %v", err)
	}

	reading, err := pollReading(session, 1)
	if err != nil {
		t.Fatalf("pollReading failed: %v", err)
	}
	if reading.Timestamp.IsZero() {
		t.Error("reading has no timestamp")
	}
	if reading.WavelengthNm <= 0 {
		t.Errorf("wavelength = %v, want positive", reading.WavelengthNm)
	}
	if reading.PowerMw <= 0 {
		t.Errorf("power = %v, want positive with output on", reading.PowerMw)
	}

	// Round-trip through the store the monitor writes to.
	db, err := telemetry.Open(t.TempDir() + "/readings.db")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	if err := db.RecordReading(reading); err != nil {
		t.Fatalf("failed to record reading: %v", err)
	}
	latest, err := db.LatestReading()
	if err != nil {
		t.Fatalf("failed to load latest reading: %v", err)
	}
	if diff := cmp.Diff(reading, latest, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}
}

func TestPollReadingSurfacesErrors(t *testing.T) {
	driver := usbdriver.NewMockDriver()
	driver.SendResult = -1
	handle := usbdriver.NewHandle(driver)
	session := tlb6700.NewSession(handle, 1)

	if _, err := pollReading(session, 1); err == nil {
		t.Fatal("pollReading succeeded against a failing driver")
	}
}
