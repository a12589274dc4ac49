// Package usbdriver manages the vendor USB driver library used to reach
// Newport instruments. It owns loading the native library, the one-per-process
// init/uninit lifecycle, and device enumeration. The command protocol built on
// top of it lives in the root tlb6700 package.
package usbdriver

import "fmt"

// DefaultLibraryName is the library name used when no explicit path is given.
const DefaultLibraryName = "UsbDll.dll"

// Driver mirrors the five native entry points of the vendor USB library.
// All calls report success as a zero result code; nonzero is a failure code.
// This abstraction enables unit testing without the vendor DLL installed.
type Driver interface {
	// InitSystem initialises the USB system and opens all devices.
	InitSystem() int
	// UninitSystem closes all USB devices. The native call returns nothing.
	UninitSystem()
	// DeviceInfo writes a ';'-separated list of "id,description" records
	// into buf as NUL-terminated ASCII.
	DeviceInfo(buf []byte) int
	// SendASCII writes the command bytes to the device with the given id.
	SendASCII(deviceID int, data []byte) int
	// GetASCII reads up to len(buf) response bytes from the device. It
	// returns the number of bytes read and the native result code.
	GetASCII(deviceID int, buf []byte) (n int, status int)
}

// Load loads the native driver library. An empty path loads
// DefaultLibraryName from the system search path.
func Load(path string) (Driver, error) {
	return loadNative(path)
}

// LoadError indicates the native driver library could not be located or
// loaded. It is fatal; there is nothing to retry.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("usbdriver: could not load %s (is the Newport USB driver installed?): %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// InitError indicates the native system init call returned a nonzero code.
type InitError struct {
	Code int
}

func (e *InitError) Error() string {
	return fmt.Sprintf("usbdriver: failed to initialize USB system: error code %d", e.Code)
}

// EnumerationError indicates the native device-info call returned a nonzero
// code.
type EnumerationError struct {
	Code int
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("usbdriver: failed to get device info: error code %d", e.Code)
}
