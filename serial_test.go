package tlb6700

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSerialPort implements serialPort for testing the RS-232 transport
// without hardware. An empty read buffer behaves like a read timeout.
type fakeSerialPort struct {
	readData []byte
	written  bytes.Buffer
	readErr  error
	writeErr error
	closed   bool
	timeout  time.Duration
}

func (p *fakeSerialPort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.readData) == 0 {
		return 0, nil
	}
	n := copy(b, p.readData)
	p.readData = p.readData[n:]
	return n, nil
}

func (p *fakeSerialPort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakeSerialPort) Close() error {
	p.closed = true
	return nil
}

func (p *fakeSerialPort) SetReadTimeout(d time.Duration) error {
	p.timeout = d
	return nil
}

func TestSerialSessionQuery(t *testing.T) {
	port := &fakeSerialPort{readData: []byte("1550.1200\r\n")}
	s, err := newSerialSession(port)
	require.NoError(t, err)
	assert.Equal(t, serialReadTimeout, port.timeout)

	wl, err := s.Wavelength()
	require.NoError(t, err)
	assert.Equal(t, 1550.12, wl)

	// Commands on the serial line are CRLF-terminated.
	assert.Equal(t, "SENSE:WAVELENGTH?\r\n", port.written.String())
}

func TestSerialSessionSet(t *testing.T) {
	port := &fakeSerialPort{readData: []byte("OK\r\n")}
	s, err := newSerialSession(port)
	require.NoError(t, err)

	require.NoError(t, s.SetWavelength(1064))
	assert.Equal(t, "SOURCE:WAVELENGTH 1064\r\n", port.written.String())
}

func TestSerialSessionMissingFraming(t *testing.T) {
	port := &fakeSerialPort{readData: []byte("partial")}
	s, err := newSerialSession(port)
	require.NoError(t, err)

	_, err = s.Identification()
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr), "expected *ReadError, got %v", err)
	assert.Equal(t, 0, readErr.Code)
}

func TestSerialSessionReadFailure(t *testing.T) {
	ioErr := errors.New("port gone")
	port := &fakeSerialPort{readErr: ioErr}
	s, err := newSerialSession(port)
	require.NoError(t, err)

	_, err = s.Identification()
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr), "expected *ReadError, got %v", err)
	require.ErrorIs(t, err, ioErr)
}

func TestSerialSessionWriteFailure(t *testing.T) {
	ioErr := errors.New("port gone")
	port := &fakeSerialPort{writeErr: ioErr}
	s, err := newSerialSession(port)
	require.NoError(t, err)

	err = s.Reset()
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr), "expected *SendError, got %v", err)
	require.ErrorIs(t, err, ioErr)
}

func TestSerialSessionClose(t *testing.T) {
	port := &fakeSerialPort{}
	s, err := newSerialSession(port)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, port.closed)
}
