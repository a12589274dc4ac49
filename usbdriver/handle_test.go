package usbdriver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDeviceInfo(t *testing.T) {
	tests := []struct {
		name string
		info string
		want []DeviceDescriptor
	}{
		{
			name: "two devices with trailing separator",
			info: "1,Laser A;2,Laser B;",
			want: []DeviceDescriptor{
				{ID: 1, Description: "Laser A"},
				{ID: 2, Description: "Laser B"},
			},
		},
		{
			name: "entry without a comma is skipped",
			info: "1,Laser A;garbage;2,Laser B",
			want: []DeviceDescriptor{
				{ID: 1, Description: "Laser A"},
				{ID: 2, Description: "Laser B"},
			},
		},
		{
			name: "non-integer id is skipped",
			info: "x,Broken;3,TLB-6700",
			want: []DeviceDescriptor{
				{ID: 3, Description: "TLB-6700"},
			},
		},
		{
			name: "description keeps embedded commas",
			info: "7,TLB-6700, velocity head",
			want: []DeviceDescriptor{
				{ID: 7, Description: "TLB-6700, velocity head"},
			},
		},
		{
			name: "empty buffer",
			info: "",
			want: nil,
		},
		{
			name: "only separators",
			info: ";;;",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDeviceInfo(tt.info)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseDeviceInfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListDevices(t *testing.T) {
	driver := NewMockDriver()
	driver.Info = "1,TLB-6700 SN1001;2,TLB-6700 SN1002;"
	h := NewHandle(driver)

	devices, err := h.ListDevices()
	if err != nil {
		t.Fatalf("ListDevices returned error: %v", err)
	}

	want := []DeviceDescriptor{
		{ID: 1, Description: "TLB-6700 SN1001"},
		{ID: 2, Description: "TLB-6700 SN1002"},
	}
	if diff := cmp.Diff(want, devices); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}
}

func TestListDevicesError(t *testing.T) {
	driver := NewMockDriver()
	driver.InfoResult = -3
	h := NewHandle(driver)

	_, err := h.ListDevices()
	var enumErr *EnumerationError
	if !errors.As(err, &enumErr) {
		t.Fatalf("expected *EnumerationError, got %v", err)
	}
	if enumErr.Code != -3 {
		t.Errorf("expected code -3, got %d", enumErr.Code)
	}
}

func TestInitSystem(t *testing.T) {
	driver := NewMockDriver()
	h := NewHandle(driver)

	if h.Initialized() {
		t.Fatal("handle reports initialized before InitSystem")
	}
	if err := h.InitSystem(); err != nil {
		t.Fatalf("InitSystem returned error: %v", err)
	}
	if !h.Initialized() {
		t.Error("handle does not report initialized after InitSystem")
	}

	h.CloseSystem()
	if h.Initialized() {
		t.Error("handle still reports initialized after CloseSystem")
	}
	if driver.UninitCalls != 1 {
		t.Errorf("expected 1 uninit call, got %d", driver.UninitCalls)
	}
}

func TestInitSystemError(t *testing.T) {
	driver := NewMockDriver()
	driver.InitResult = 5
	h := NewHandle(driver)

	err := h.InitSystem()
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected *InitError, got %v", err)
	}
	if initErr.Code != 5 {
		t.Errorf("expected code 5, got %d", initErr.Code)
	}
	if h.Initialized() {
		t.Error("handle reports initialized after failed init")
	}
}

func TestAcquireReturnsSameHandle(t *testing.T) {
	orig := openDriver
	defer func() { openDriver = orig }()

	loads := 0
	openDriver = func(path string) (Driver, error) {
		loads++
		return NewMockDriver(), nil
	}

	// Reset the process-wide registry for the test.
	acquireMu.Lock()
	handles = map[string]*Handle{}
	acquireMu.Unlock()

	h1, err := Acquire("testdriver.dll")
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	h2, err := Acquire("testdriver.dll")
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	if h1 != h2 {
		t.Error("Acquire returned different handles for the same path")
	}
	if loads != 1 {
		t.Errorf("expected 1 driver load, got %d", loads)
	}
}

func TestAcquireLoadError(t *testing.T) {
	orig := openDriver
	defer func() { openDriver = orig }()

	openDriver = func(path string) (Driver, error) {
		return nil, &LoadError{Path: path, Err: errors.New("not found")}
	}

	acquireMu.Lock()
	handles = map[string]*Handle{}
	acquireMu.Unlock()

	_, err := Acquire("missing.dll")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestCString(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "hello\x00trailing")
	if got := cstring(buf); got != "hello" {
		t.Errorf("cstring = %q, want %q", got, "hello")
	}

	full := []byte("no terminator")
	if got := cstring(full); got != "no terminator" {
		t.Errorf("cstring = %q, want %q", got, "no terminator")
	}
}
