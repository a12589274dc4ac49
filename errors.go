package tlb6700

import (
	"errors"
	"fmt"
)

// ErrValidation marks an argument that violates an operation's contract. The
// check happens before any wire traffic, so the instrument never sees the
// bad value.
var ErrValidation = errors.New("invalid argument")

// SendError indicates the driver's send call failed. Code is the native
// result code; Err is set when the failure came from a transport below the
// driver (the RS-232 path).
type SendError struct {
	Code int
	Err  error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tlb6700: failed to send command: %v", e.Err)
	}
	return fmt.Sprintf("tlb6700: failed to send command: error code %d", e.Code)
}

func (e *SendError) Unwrap() error { return e.Err }

// ReadError indicates a malformed or truncated response. A well-formed
// response ends with a carriage return; when that framing is violated the
// reported Code is whatever the receive call returned, even if the call
// itself succeeded. That attribution is inherited instrument behaviour and
// kept as-is.
type ReadError struct {
	Code int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tlb6700: failed to read response: %v", e.Err)
	}
	return fmt.Sprintf("tlb6700: failed to read response: error code %d", e.Code)
}

func (e *ReadError) Unwrap() error { return e.Err }

// InstrumentError is an error string reported by the instrument in reply to
// a query.
type InstrumentError struct {
	Message string
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("tlb6700: %s", e.Message)
}

// CommandRejected indicates a set command did not return the "OK"
// confirmation. Response holds what came back instead.
type CommandRejected struct {
	Response string
}

func (e *CommandRejected) Error() string {
	return fmt.Sprintf("tlb6700: command failed: %s", e.Response)
}
