// Package tlb6700 controls Newport TLB-6700 tunable laser controllers.
//
// The instrument is reached through the vendor USB driver managed by the
// usbdriver package, or over its RS-232 port via OpenSerial. A Session binds
// one enumerated device id to a shared driver handle and exposes the typed
// operation set; every operation is a self-contained command/response
// exchange, with no state cached on this side of the wire.
//
// Calls are synchronous and blocking. A session performs no internal
// locking: concurrent callers sharing one device id race on the driver's
// buffers and must serialise externally.
package tlb6700

import (
	"strconv"
	"strings"
	"time"

	"github.com/photonbench/tlb6700/usbdriver"
)

const (
	// settleDelay is the pause between sending a command and reading its
	// response. The instrument firmware needs this processing window; it
	// is a hardware timing constraint, not a tunable.
	settleDelay = 50 * time.Millisecond

	// responseBufferSize is the read buffer size for a single response.
	responseBufferSize = 1024
)

// transport carries one side of the command/response exchange. send delivers
// the command bytes; receive fills buf and reports the bytes read plus the
// native result code of the receive call (always 0 for transports without
// native result codes).
type transport interface {
	send(cmd []byte) error
	receive(buf []byte) (n int, status int, err error)
	Close() error
}

// Session issues typed operations against one device. Construct with
// NewSession for USB devices or OpenSerial for the RS-232 port.
type Session struct {
	transport transport
}

// NewSession binds the device with the given id to a driver handle. The
// handle is borrowed, may be shared by other sessions, and must already be
// initialised (or be initialised before the first operation).
func NewSession(handle *usbdriver.Handle, deviceID int) *Session {
	return &Session{transport: &usbTransport{
		driver:   handle.Driver(),
		deviceID: deviceID,
	}}
}

// Close releases the session's transport. For USB sessions this is a no-op;
// the shared driver handle is torn down separately via CloseSystem.
func (s *Session) Close() error {
	return s.transport.Close()
}

// usbTransport exchanges ASCII through the vendor driver's send/receive
// primitives for one device id.
type usbTransport struct {
	driver   usbdriver.Driver
	deviceID int
}

func (t *usbTransport) send(cmd []byte) error {
	if code := t.driver.SendASCII(t.deviceID, cmd); code != 0 {
		return &SendError{Code: code}
	}
	return nil
}

func (t *usbTransport) receive(buf []byte) (int, int, error) {
	n, status := t.driver.GetASCII(t.deviceID, buf)
	return n, status, nil
}

func (t *usbTransport) Close() error { return nil }

// sendCommand performs one raw exchange: send, settle, read, frame-check.
// The logical response is the first line of the buffer; it must end with a
// carriage return or the exchange is reported as a read failure carrying the
// receive call's result code (see ReadError). The returned string is the
// response with surrounding whitespace and control characters stripped.
func (s *Session) sendCommand(command string) (string, error) {
	if err := s.transport.send([]byte(command)); err != nil {
		return "", err
	}

	time.Sleep(settleDelay)

	buf := make([]byte, responseBufferSize)
	n, status, err := s.transport.receive(buf)
	if err != nil {
		return "", err
	}

	raw := string(buf[:n])
	if i := strings.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	line, _, _ := strings.Cut(raw, "\n")

	if !strings.HasSuffix(line, "\r") {
		return "", &ReadError{Code: status}
	}

	return strings.TrimSpace(line), nil
}

// query sends a command and returns its response, surfacing instrument-side
// errors ("ERROR…" replies) as *InstrumentError.
func (s *Session) query(command string) (string, error) {
	response, err := s.sendCommand(command)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(response, "ERROR") {
		return "", &InstrumentError{Message: response}
	}
	return response, nil
}

// set sends a command and verifies the "OK" confirmation.
func (s *Session) set(command string) error {
	response, err := s.sendCommand(command)
	if err != nil {
		return err
	}
	if response != "OK" {
		return &CommandRejected{Response: response}
	}
	return nil
}

func (s *Session) queryFloat(command string) (float64, error) {
	response, err := s.query(command)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(response, 64)
	if err != nil {
		return 0, &InstrumentError{Message: "unexpected response to " + command + ": " + response}
	}
	return v, nil
}

func (s *Session) queryInt(command string) (int, error) {
	response, err := s.query(command)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(response)
	if err != nil {
		return 0, &InstrumentError{Message: "unexpected response to " + command + ": " + response}
	}
	return v, nil
}

func (s *Session) queryBool(command string) (bool, error) {
	response, err := s.query(command)
	if err != nil {
		return false, err
	}
	return response == "1", nil
}

// ListDevices loads the driver (from dllPath, or the default library name
// when empty), initialises the USB system, and enumerates the connected
// devices. Convenience wrapper around usbdriver.Acquire for one-shot use.
func ListDevices(dllPath string) ([]usbdriver.DeviceDescriptor, error) {
	handle, err := usbdriver.Acquire(dllPath)
	if err != nil {
		return nil, err
	}
	if err := handle.InitSystem(); err != nil {
		return nil, err
	}
	return handle.ListDevices()
}
