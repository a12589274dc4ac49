//go:build !windows

package usbdriver

import "errors"

// The vendor library only ships for Windows. Other platforms can still use
// injected drivers (NewHandle) or the RS-232 transport in the root package.
func loadNative(path string) (Driver, error) {
	name := path
	if name == "" {
		name = DefaultLibraryName
	}
	return nil, &LoadError{Path: name, Err: errors.New("native driver is only available on windows")}
}
