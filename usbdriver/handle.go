package usbdriver

import (
	"bytes"
	"log"
	"strconv"
	"strings"
	"sync"
)

// deviceInfoBufferSize is the buffer size the vendor library expects for the
// device-info call.
const deviceInfoBufferSize = 4096

// DeviceDescriptor is one enumerated device: the id used to address commands
// and the human-readable description reported by the driver. Descriptors are
// a snapshot of the hardware present at enumeration time and go stale when
// devices are plugged or unplugged.
type DeviceDescriptor struct {
	ID          int
	Description string
}

// Handle owns the initialised/uninitialised state of a loaded driver. It is
// shared by every session in the process: initialisation and teardown happen
// once, before any session issues commands and after the last one is done.
// Sessions borrow the handle and must not outlive it.
type Handle struct {
	driver Driver

	mu          sync.Mutex
	initialized bool
}

// openDriver is swapped out in tests to avoid loading the vendor library.
var openDriver = loadNative

var (
	acquireMu sync.Mutex
	handles   = map[string]*Handle{}
)

// Acquire loads the native driver from path (or the platform default when
// path is empty) and returns a handle for it. Repeated acquisitions with the
// same path return the same handle, preserving the one-driver-system-per-
// process invariant without hidden global state.
func Acquire(path string) (*Handle, error) {
	acquireMu.Lock()
	defer acquireMu.Unlock()

	if h, ok := handles[path]; ok {
		return h, nil
	}

	driver, err := openDriver(path)
	if err != nil {
		return nil, err
	}

	h := NewHandle(driver)
	handles[path] = h
	return h, nil
}

// NewHandle wraps an already-loaded driver. Use Acquire for the native
// library; NewHandle exists for injected drivers such as mocks and the
// instrument simulator.
func NewHandle(driver Driver) *Handle {
	return &Handle{driver: driver}
}

// Driver exposes the underlying driver for issuing raw ASCII exchanges.
func (h *Handle) Driver() Driver { return h.driver }

// InitSystem initialises the USB system and opens all connected devices.
// It must complete before any command traffic.
func (h *Handle) InitSystem() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if code := h.driver.InitSystem(); code != 0 {
		return &InitError{Code: code}
	}
	h.initialized = true
	return nil
}

// CloseSystem closes all USB devices. Teardown is best-effort: the native
// call reports nothing, so there is nothing to surface to the caller.
func (h *Handle) CloseSystem() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		log.Printf("usbdriver: CloseSystem called on uninitialised handle")
	}
	h.driver.UninitSystem()
	h.initialized = false
}

// Initialized reports whether InitSystem has completed on this handle.
func (h *Handle) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initialized
}

// ListDevices enumerates the devices currently known to the driver, in the
// driver's emission order.
func (h *Handle) ListDevices() ([]DeviceDescriptor, error) {
	buf := make([]byte, deviceInfoBufferSize)
	if code := h.driver.DeviceInfo(buf); code != 0 {
		return nil, &EnumerationError{Code: code}
	}
	return parseDeviceInfo(cstring(buf)), nil
}

// parseDeviceInfo splits the raw device-info text into descriptors. Records
// are ';'-separated "id,description" pairs; the description may itself
// contain commas. Empty and malformed records are skipped so a truncated or
// partially written buffer still yields the valid entries.
func parseDeviceInfo(info string) []DeviceDescriptor {
	var devices []DeviceDescriptor
	for _, record := range strings.Split(info, ";") {
		if strings.TrimSpace(record) == "" {
			continue
		}
		parts := strings.SplitN(record, ",", 2)
		if len(parts) != 2 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		devices = append(devices, DeviceDescriptor{ID: id, Description: parts[1]})
	}
	return devices
}

// cstring interprets buf as NUL-terminated ASCII, as written by the native
// library.
func cstring(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}
