package tlb6700

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonbench/tlb6700/usbdriver"
)

// End-to-end over the simulated driver: enumerate, bind a session, drive the
// laser through a plausible bring-up sequence.
func TestSimulatorEndToEnd(t *testing.T) {
	handle := usbdriver.NewHandle(NewSimulator())
	require.NoError(t, handle.InitSystem())

	devices, err := handle.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, 1, devices[0].ID)

	s := NewSession(handle, devices[0].ID)

	idn, err := s.Identification()
	require.NoError(t, err)
	assert.Contains(t, idn, "TLB-6700")

	require.NoError(t, s.SetControlMode(ControlRemote))
	mode, err := s.ControlMode()
	require.NoError(t, err)
	assert.Equal(t, ControlRemote, mode)

	require.NoError(t, s.SetWavelength(1547.5))
	wl, err := s.WavelengthSetpoint()
	require.NoError(t, err)
	assert.Equal(t, 1547.5, wl)

	require.NoError(t, s.SetDiodeCurrent(MaxSetpoint))
	current, err := s.DiodeCurrentSetpoint()
	require.NoError(t, err)
	assert.Equal(t, simMaxDiodeCurrent, current)

	// Output starts off, and the sensed power follows it.
	power, err := s.Power()
	require.NoError(t, err)
	assert.Zero(t, power)

	require.NoError(t, s.SetOutput(true))
	on, err := s.Output()
	require.NoError(t, err)
	assert.True(t, on)

	power, err = s.Power()
	require.NoError(t, err)
	assert.Positive(t, power)

	require.NoError(t, s.SetLambdaTrack(true))
	track, err := s.LambdaTrack()
	require.NoError(t, err)
	assert.True(t, track)

	// Reset returns the simulator to its power-on state.
	require.NoError(t, s.Reset())
	on, err = s.Output()
	require.NoError(t, err)
	assert.False(t, on)

	wl, err = s.WavelengthSetpoint()
	require.NoError(t, err)
	assert.Equal(t, simWavelength, wl)

	handle.CloseSystem()
	assert.False(t, handle.Initialized())
}

func TestSimulatorRejectsOutOfRangeSets(t *testing.T) {
	handle := usbdriver.NewHandle(NewSimulator())
	require.NoError(t, handle.InitSystem())
	s := NewSession(handle, 1)

	// In-contract for the binding, out of range for the simulated head:
	// the instrument answers with a rejection, not an OK.
	err := s.SetDiodePower(Value(simMaxDiodePower + 1))
	var rejected *CommandRejected
	require.ErrorAs(t, err, &rejected)
}

func TestSimulatorUnknownCommand(t *testing.T) {
	handle := usbdriver.NewHandle(NewSimulator())
	s := NewSession(handle, 1)

	_, err := s.query("BOGUS?")
	var instErr *InstrumentError
	require.ErrorAs(t, err, &instErr)
}
