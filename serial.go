package tlb6700

import (
	"bytes"
	"io"
	"time"

	"go.bug.st/serial"
)

// serialReadTimeout bounds each read while collecting a response line.
const serialReadTimeout = 500 * time.Millisecond

// serialPort is the subset of go.bug.st/serial.Port the transport needs.
// The narrow interface enables unit testing without serial hardware.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
}

// OpenSerial opens a session over the controller's RS-232 port, which speaks
// the same command set as the USB interface. The port runs at 38400 8N1.
func OpenSerial(portName string) (*Session, error) {
	mode := &serial.Mode{
		BaudRate: 38400,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	return newSerialSession(port)
}

func newSerialSession(port serialPort) (*Session, error) {
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, err
	}
	return &Session{transport: &serialTransport{port: port}}, nil
}

// serialTransport frames commands for the RS-232 port. Unlike the USB
// driver, the serial line has no out-of-band result codes, so failures carry
// the underlying I/O error and a zero code.
type serialTransport struct {
	port serialPort
}

func (t *serialTransport) send(cmd []byte) error {
	framed := make([]byte, 0, len(cmd)+2)
	framed = append(framed, cmd...)
	framed = append(framed, '\r', '\n')
	if _, err := t.port.Write(framed); err != nil {
		return &SendError{Err: err}
	}
	return nil
}

func (t *serialTransport) receive(buf []byte) (int, int, error) {
	total := 0
	for total < len(buf) {
		n, err := t.port.Read(buf[total:])
		if err != nil {
			return total, 0, &ReadError{Err: err}
		}
		if n == 0 {
			// Read timeout: whatever arrived is the whole response.
			break
		}
		total += n
		if bytes.IndexByte(buf[:total], '\n') >= 0 {
			break
		}
	}
	return total, 0, nil
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}
