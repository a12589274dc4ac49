package tlb6700

import (
	"fmt"
	"strconv"
	"strings"
)

// Control mode tokens accepted by SetControlMode.
const (
	ControlRemote = "REM"
	ControlLocal  = "LOC"
)

// Setpoint is a value for the SOURce setpoint commands: either a number or
// the instrument's MAX token, which selects the laser head's maximum rating.
type Setpoint struct {
	max   bool
	value float64
}

// Value returns a numeric setpoint.
func Value(v float64) Setpoint { return Setpoint{value: v} }

// MaxSetpoint selects the maximum rating for the target parameter.
var MaxSetpoint = Setpoint{max: true}

// ParseSetpoint parses a numeric setpoint or the MAX token
// (case-insensitive).
func ParseSetpoint(s string) (Setpoint, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "MAX") {
		return MaxSetpoint, nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Setpoint{}, fmt.Errorf("%w: setpoint must be a number or MAX, got %q", ErrValidation, s)
	}
	return Value(v), nil
}

// IsMax reports whether the setpoint is the MAX token.
func (p Setpoint) IsMax() bool { return p.max }

// Float returns the numeric value; zero for MAX.
func (p Setpoint) Float() float64 { return p.value }

func (p Setpoint) String() string {
	if p.max {
		return "MAX"
	}
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

// ParseOutputState interprets the accepted spellings of the laser output
// state: ON/OFF, 1/0, or true/false, case-insensitively.
func ParseOutputState(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON", "1", "TRUE":
		return true, nil
	case "OFF", "0", "FALSE":
		return false, nil
	default:
		return false, fmt.Errorf("%w: output state must be ON or OFF, got %q", ErrValidation, s)
	}
}

// Identification returns the instrument identification string.
func (s *Session) Identification() (string, error) {
	return s.query("*IDN?")
}

// RecallSettings restores settings from memory: bin 0 for factory defaults,
// 1-5 for saved settings.
func (s *Session) RecallSettings(bin int) error {
	if bin < 0 || bin > 5 {
		return fmt.Errorf("%w: recall bin must be 0-5, got %d", ErrValidation, bin)
	}
	return s.set(fmt.Sprintf("*RCL %d", bin))
}

// Reset performs a soft reset of the controller.
func (s *Session) Reset() error {
	return s.set("*RST")
}

// SaveSettings stores the current settings in memory bin 2-5.
func (s *Session) SaveSettings(bin int) error {
	if bin < 2 || bin > 5 {
		return fmt.Errorf("%w: save bin must be 2-5, got %d", ErrValidation, bin)
	}
	return s.set(fmt.Sprintf("*SAV %d", bin))
}

// OperationComplete reports whether no long-running operation is in
// progress.
func (s *Session) OperationComplete() (bool, error) {
	return s.queryBool("*OPC?")
}

// StatusByte returns the controller status byte: 0 when the error buffer is
// empty, 128 when errors are present.
func (s *Session) StatusByte() (int, error) {
	return s.queryInt("*STB?")
}

// SetBeep controls the beeper: 0 off, 1 on, 2 test beep.
func (s *Session) SetBeep(state int) error {
	if state < 0 || state > 2 {
		return fmt.Errorf("%w: beep state must be 0, 1, or 2, got %d", ErrValidation, state)
	}
	return s.set(fmt.Sprintf("BEEP %d", state))
}

// Beep reports whether the beeper is enabled.
func (s *Session) Beep() (bool, error) {
	return s.queryBool("BEEP?")
}

// SetBrightness sets the display brightness as a percentage, 1-100.
func (s *Session) SetBrightness(percent int) error {
	if percent < 1 || percent > 100 {
		return fmt.Errorf("%w: brightness must be 1-100, got %d", ErrValidation, percent)
	}
	return s.set(fmt.Sprintf("BRIGHT %d", percent))
}

// Brightness returns the display brightness percentage.
func (s *Session) Brightness() (int, error) {
	return s.queryInt("BRIGHT?")
}

// ErrorString pops the next error from the controller's error buffer.
func (s *Session) ErrorString() (string, error) {
	return s.query("ERRSTR?")
}

// SetLockout sets the front panel lockout: 0 all enabled, 1 all disabled,
// 2 dial only disabled.
func (s *Session) SetLockout(mode int) error {
	if mode < 0 || mode > 2 {
		return fmt.Errorf("%w: lockout mode must be 0, 1, or 2, got %d", ErrValidation, mode)
	}
	return s.set(fmt.Sprintf("LOCKOUT %d", mode))
}

// Lockout returns the front panel lockout state.
func (s *Session) Lockout() (int, error) {
	return s.queryInt("LOCKOUT?")
}

// SetOnDelay sets the laser turn-on delay in milliseconds, 3000-60000.
func (s *Session) SetOnDelay(milliseconds int) error {
	if milliseconds < 3000 || milliseconds > 60000 {
		return fmt.Errorf("%w: on delay must be 3000-60000 ms, got %d", ErrValidation, milliseconds)
	}
	return s.set(fmt.Sprintf("ONDELAY %d", milliseconds))
}

// OnDelay returns the laser turn-on delay in milliseconds.
func (s *Session) OnDelay() (int, error) {
	return s.queryInt("ONDELAY?")
}

// SetOutput turns the laser output on or off.
func (s *Session) SetOutput(on bool) error {
	state := "OFF"
	if on {
		state = "ON"
	}
	return s.set("OUTPut:STATe " + state)
}

// Output reports whether the laser output is on.
func (s *Session) Output() (bool, error) {
	return s.queryBool("OUTPut:STATe?")
}

// DiodeCurrent returns the actual diode current in mA.
func (s *Session) DiodeCurrent() (float64, error) {
	return s.queryFloat("SENSe:CURRent:DIODe")
}

// DiodeTemperature returns the actual diode temperature in degrees C.
func (s *Session) DiodeTemperature() (float64, error) {
	return s.queryFloat("SENSe:TEMPerature:DIODe")
}

// CavityTemperature returns the actual cavity temperature in degrees C.
func (s *Session) CavityTemperature() (float64, error) {
	return s.queryFloat("SENSe:TEMPerature:CAVity")
}

// AuxiliaryVoltage returns the auxiliary detector input voltage in V.
func (s *Session) AuxiliaryVoltage() (float64, error) {
	return s.queryFloat("SENSe:VOLTage:AUXiliary")
}

// SetDiodeCurrent sets the diode current setpoint in mA, or MAX for the
// head's maximum rating.
func (s *Session) SetDiodeCurrent(current Setpoint) error {
	return s.set("SOURce:CURRent:DIODe " + current.String())
}

// DiodeCurrentSetpoint returns the diode current setpoint in mA.
func (s *Session) DiodeCurrentSetpoint() (float64, error) {
	return s.queryFloat("SOURce:CURRent:DIODe?")
}

// SetDiodePower sets the diode power setpoint in mW, or MAX for the head's
// maximum rating.
func (s *Session) SetDiodePower(power Setpoint) error {
	return s.set("SOURCE:POWER:DIODE " + power.String())
}

// DiodePowerSetpoint returns the diode power setpoint in mW.
func (s *Session) DiodePowerSetpoint() (float64, error) {
	return s.queryFloat("SOURCE:POWER:DIODE?")
}

// Power returns the detected diode power.
func (s *Session) Power() (float64, error) {
	return s.queryFloat("SENSE:POWER:DIODE?")
}

// SetWavelength sets the wavelength setpoint in nm.
func (s *Session) SetWavelength(nm float64) error {
	return s.set("SOURCE:WAVELENGTH " + strconv.FormatFloat(nm, 'f', -1, 64))
}

// WavelengthSetpoint returns the wavelength setpoint in nm.
func (s *Session) WavelengthSetpoint() (float64, error) {
	return s.queryFloat("SOURCE:WAVELENGTH?")
}

// Wavelength returns the measured wavelength in nm.
func (s *Session) Wavelength() (float64, error) {
	return s.queryFloat("SENSE:WAVELENGTH?")
}

// SetLambdaTrack turns lambda track on or off.
func (s *Session) SetLambdaTrack(on bool) error {
	state := "0"
	if on {
		state = "1"
	}
	return s.set("OUTPUT:TRACK " + state)
}

// LambdaTrack reports whether lambda track is on.
func (s *Session) LambdaTrack() (bool, error) {
	return s.queryBool("OUTPUT:TRACK?")
}

// SetPiezoVoltage sets the piezo voltage setpoint as a percentage, 0-100,
// or MAX for 100%.
func (s *Session) SetPiezoVoltage(voltage Setpoint) error {
	if !voltage.IsMax() {
		if v := voltage.Float(); v < 0 || v > 100 {
			return fmt.Errorf("%w: piezo voltage must be 0-100%%, got %v", ErrValidation, v)
		}
	}
	return s.set("SOURce:VOLTage:PIEZo " + voltage.String())
}

// PiezoVoltageSetpoint returns the piezo voltage setpoint as a percentage.
func (s *Session) PiezoVoltageSetpoint() (float64, error) {
	return s.queryFloat("SOURce:VOLTage:PIEZo?")
}

// DiodeTemperatureSetpoint returns the diode temperature setpoint in
// degrees C.
func (s *Session) DiodeTemperatureSetpoint() (float64, error) {
	return s.queryFloat("SOURce:TEMPerature:DIODe?")
}

// CavityTemperatureSetpoint returns the cavity temperature setpoint in
// degrees C.
func (s *Session) CavityTemperatureSetpoint() (float64, error) {
	return s.queryFloat("SOURce:TEMPerature:CAVity?")
}

// EnableTime returns the total laser enable time in minutes.
func (s *Session) EnableTime() (int, error) {
	return s.queryInt("SYSTem:ENTIME?")
}

// SetControlMode selects remote (REM) or local (LOC) operation.
func (s *Session) SetControlMode(mode string) error {
	if mode != ControlRemote && mode != ControlLocal {
		return fmt.Errorf("%w: control mode must be REM or LOC, got %q", ErrValidation, mode)
	}
	return s.set("SYSTem:MCONtrol " + mode)
}

// ControlMode returns the controller operation mode, REM or LOC.
func (s *Session) ControlMode() (string, error) {
	return s.query("SYSTem:MCONtrol?")
}

// LaserModel returns the laser head model number.
func (s *Session) LaserModel() (string, error) {
	return s.query("SYSTem:LASer:MODEL?")
}

// LaserSerial returns the laser head serial number.
func (s *Session) LaserSerial() (string, error) {
	return s.query("SYSTem:LASer:SN?")
}

// LaserRevision returns the laser head revision number.
func (s *Session) LaserRevision() (string, error) {
	return s.query("SYSTem:LASer:REV?")
}

// LaserCalibrationDate returns the laser head calibration date.
func (s *Session) LaserCalibrationDate() (string, error) {
	return s.query("SYSTem:LASer:CALDATE?")
}
