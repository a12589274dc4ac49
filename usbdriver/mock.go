package usbdriver

import "sync"

// MockDriver implements Driver with configurable behaviour for testing.
// Responses are scripted per command; sends are captured for inspection.
type MockDriver struct {
	mu sync.Mutex

	// InitResult is returned by InitSystem.
	InitResult int

	// Info is the device-info text written by DeviceInfo.
	Info string

	// InfoResult is returned by DeviceInfo.
	InfoResult int

	// SendResult is returned by SendASCII.
	SendResult int

	// ReceiveStatus is the result code returned by GetASCII.
	ReceiveStatus int

	// Responses maps a sent command to the raw response buffer contents
	// (framing bytes included). DefaultResponse is used for commands with
	// no entry.
	Responses       map[string]string
	DefaultResponse string

	// Sent records every command passed to SendASCII, in order.
	Sent []string

	// InitCalls and UninitCalls count lifecycle invocations.
	InitCalls   int
	UninitCalls int
}

// NewMockDriver returns a MockDriver that answers every command with "OK\r\n".
func NewMockDriver() *MockDriver {
	return &MockDriver{
		Responses:       map[string]string{},
		DefaultResponse: "OK\r\n",
	}
}

func (m *MockDriver) InitSystem() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
	return m.InitResult
}

func (m *MockDriver) UninitSystem() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UninitCalls++
}

func (m *MockDriver) DeviceInfo(buf []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InfoResult != 0 {
		return m.InfoResult
	}
	writeCString(buf, m.Info)
	return 0
}

func (m *MockDriver) SendASCII(deviceID int, data []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendResult != 0 {
		return m.SendResult
	}
	m.Sent = append(m.Sent, string(data))
	return 0
}

func (m *MockDriver) GetASCII(deviceID int, buf []byte) (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	response := m.DefaultResponse
	if len(m.Sent) > 0 {
		if r, ok := m.Responses[m.Sent[len(m.Sent)-1]]; ok {
			response = r
		}
	}
	n := writeCString(buf, response)
	return n, m.ReceiveStatus
}

// LastSent returns the most recent command, or "" if none were sent.
func (m *MockDriver) LastSent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1]
}

// Respond scripts the raw buffer contents returned after cmd is sent.
func (m *MockDriver) Respond(cmd, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmd] = response
}

// writeCString copies s into buf with a trailing NUL, truncating if needed,
// and returns the number of payload bytes written.
func writeCString(buf []byte, s string) int {
	n := copy(buf, s)
	if n < len(buf) {
		buf[n] = 0
	}
	return n
}
