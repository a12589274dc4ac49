//go:build windows

package usbdriver

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// nativeDriver binds the five entry points of the vendor DLL.
type nativeDriver struct {
	dll *windows.DLL

	initSystem    *windows.Proc
	uninitSystem  *windows.Proc
	getDeviceInfo *windows.Proc
	sendASCII     *windows.Proc
	getASCII      *windows.Proc
}

func loadNative(path string) (Driver, error) {
	name := path
	if name == "" {
		name = DefaultLibraryName
	}

	dll, err := windows.LoadDLL(name)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}

	d := &nativeDriver{dll: dll}
	for _, p := range []struct {
		name string
		proc **windows.Proc
	}{
		{"newp_usb_init_system", &d.initSystem},
		{"newp_usb_uninit_system", &d.uninitSystem},
		{"newp_usb_get_device_info", &d.getDeviceInfo},
		{"newp_usb_send_ascii", &d.sendASCII},
		{"newp_usb_get_ascii", &d.getASCII},
	} {
		proc, err := dll.FindProc(p.name)
		if err != nil {
			dll.Release()
			return nil, &LoadError{Path: name, Err: err}
		}
		*p.proc = proc
	}

	return d, nil
}

func (d *nativeDriver) InitSystem() int {
	r, _, _ := d.initSystem.Call()
	return int(int32(r))
}

func (d *nativeDriver) UninitSystem() {
	d.uninitSystem.Call()
}

func (d *nativeDriver) DeviceInfo(buf []byte) int {
	r, _, _ := d.getDeviceInfo.Call(uintptr(unsafe.Pointer(&buf[0])))
	return int(int32(r))
}

func (d *nativeDriver) SendASCII(deviceID int, data []byte) int {
	if len(data) == 0 {
		return 0
	}
	r, _, _ := d.sendASCII.Call(
		uintptr(deviceID),
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(uint32(len(data))),
	)
	return int(int32(r))
}

func (d *nativeDriver) GetASCII(deviceID int, buf []byte) (int, int) {
	var read uint32
	r, _, _ := d.getASCII.Call(
		uintptr(deviceID),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(&read)),
	)
	return int(read), int(int32(r))
}
