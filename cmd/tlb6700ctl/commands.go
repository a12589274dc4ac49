package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/photonbench/tlb6700"
)

// command is one named operation the CLI can run against a session.
type command struct {
	name string
	arg  string // argument placeholder, "" when the command takes none
	help string
	run  func(s *tlb6700.Session, arg string) (string, error)
}

var commands = []command{
	{"idn", "", "instrument identification string", func(s *tlb6700.Session, _ string) (string, error) {
		return s.Identification()
	}},
	{"reset", "", "soft reset of the controller", func(s *tlb6700.Session, _ string) (string, error) {
		return "", s.Reset()
	}},
	{"recall", "<bin>", "recall settings from bin 0-5 (0 = factory defaults)", func(s *tlb6700.Session, arg string) (string, error) {
		bin, err := parseInt(arg)
		if err != nil {
			return "", err
		}
		return "", s.RecallSettings(bin)
	}},
	{"save", "<bin>", "save current settings to bin 2-5", func(s *tlb6700.Session, arg string) (string, error) {
		bin, err := parseInt(arg)
		if err != nil {
			return "", err
		}
		return "", s.SaveSettings(bin)
	}},
	{"opc", "", "whether any long-running operation has completed", func(s *tlb6700.Session, _ string) (string, error) {
		return boolOut(s.OperationComplete())
	}},
	{"stb", "", "controller status byte", func(s *tlb6700.Session, _ string) (string, error) {
		return intOut(s.StatusByte())
	}},
	{"errstr", "", "next error from the error buffer", func(s *tlb6700.Session, _ string) (string, error) {
		return s.ErrorString()
	}},
	{"beep", "", "beeper enable state", func(s *tlb6700.Session, _ string) (string, error) {
		return boolOut(s.Beep())
	}},
	{"set-beep", "<0|1|2>", "beeper off, on, or test beep", func(s *tlb6700.Session, arg string) (string, error) {
		state, err := parseInt(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetBeep(state)
	}},
	{"brightness", "", "display brightness percentage", func(s *tlb6700.Session, _ string) (string, error) {
		return intOut(s.Brightness())
	}},
	{"set-brightness", "<1-100>", "display brightness percentage", func(s *tlb6700.Session, arg string) (string, error) {
		pct, err := parseInt(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetBrightness(pct)
	}},
	{"lockout", "", "front panel lockout state", func(s *tlb6700.Session, _ string) (string, error) {
		return intOut(s.Lockout())
	}},
	{"set-lockout", "<0|1|2>", "front panel lockout mode", func(s *tlb6700.Session, arg string) (string, error) {
		mode, err := parseInt(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetLockout(mode)
	}},
	{"ondelay", "", "laser turn-on delay in ms", func(s *tlb6700.Session, _ string) (string, error) {
		return intOut(s.OnDelay())
	}},
	{"set-ondelay", "<ms>", "laser turn-on delay, 3000-60000 ms", func(s *tlb6700.Session, arg string) (string, error) {
		ms, err := parseInt(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetOnDelay(ms)
	}},
	{"output", "", "laser output state", func(s *tlb6700.Session, _ string) (string, error) {
		return boolOut(s.Output())
	}},
	{"set-output", "<on|off>", "turn the laser output on or off", func(s *tlb6700.Session, arg string) (string, error) {
		on, err := tlb6700.ParseOutputState(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetOutput(on)
	}},
	{"current", "", "actual diode current in mA", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.DiodeCurrent())
	}},
	{"current-setpoint", "", "diode current setpoint in mA", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.DiodeCurrentSetpoint())
	}},
	{"set-current", "<mA|MAX>", "diode current setpoint", func(s *tlb6700.Session, arg string) (string, error) {
		sp, err := tlb6700.ParseSetpoint(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetDiodeCurrent(sp)
	}},
	{"power", "", "detected diode power in mW", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.Power())
	}},
	{"power-setpoint", "", "diode power setpoint in mW", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.DiodePowerSetpoint())
	}},
	{"set-power", "<mW|MAX>", "diode power setpoint", func(s *tlb6700.Session, arg string) (string, error) {
		sp, err := tlb6700.ParseSetpoint(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetDiodePower(sp)
	}},
	{"wavelength", "", "measured wavelength in nm", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.Wavelength())
	}},
	{"wavelength-setpoint", "", "wavelength setpoint in nm", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.WavelengthSetpoint())
	}},
	{"set-wavelength", "<nm>", "wavelength setpoint", func(s *tlb6700.Session, arg string) (string, error) {
		nm, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return "", fmt.Errorf("expected a wavelength in nm, got %q", arg)
		}
		return "", s.SetWavelength(nm)
	}},
	{"track", "", "lambda track state", func(s *tlb6700.Session, _ string) (string, error) {
		return boolOut(s.LambdaTrack())
	}},
	{"set-track", "<on|off>", "turn lambda track on or off", func(s *tlb6700.Session, arg string) (string, error) {
		on, err := tlb6700.ParseOutputState(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetLambdaTrack(on)
	}},
	{"piezo", "", "piezo voltage setpoint as a percentage", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.PiezoVoltageSetpoint())
	}},
	{"set-piezo", "<pct|MAX>", "piezo voltage setpoint, 0-100%", func(s *tlb6700.Session, arg string) (string, error) {
		sp, err := tlb6700.ParseSetpoint(arg)
		if err != nil {
			return "", err
		}
		return "", s.SetPiezoVoltage(sp)
	}},
	{"diode-temp", "", "actual diode temperature in C", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.DiodeTemperature())
	}},
	{"diode-temp-setpoint", "", "diode temperature setpoint in C", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.DiodeTemperatureSetpoint())
	}},
	{"cavity-temp", "", "actual cavity temperature in C", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.CavityTemperature())
	}},
	{"cavity-temp-setpoint", "", "cavity temperature setpoint in C", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.CavityTemperatureSetpoint())
	}},
	{"aux-voltage", "", "auxiliary detector input voltage in V", func(s *tlb6700.Session, _ string) (string, error) {
		return floatOut(s.AuxiliaryVoltage())
	}},
	{"entime", "", "total laser enable time in minutes", func(s *tlb6700.Session, _ string) (string, error) {
		return intOut(s.EnableTime())
	}},
	{"mode", "", "controller operation mode (REM or LOC)", func(s *tlb6700.Session, _ string) (string, error) {
		return s.ControlMode()
	}},
	{"set-mode", "<REM|LOC>", "remote or local operation", func(s *tlb6700.Session, arg string) (string, error) {
		return "", s.SetControlMode(strings.ToUpper(strings.TrimSpace(arg)))
	}},
	{"laser-info", "", "laser head model, serial, revision, calibration date", func(s *tlb6700.Session, _ string) (string, error) {
		model, err := s.LaserModel()
		if err != nil {
			return "", err
		}
		sn, err := s.LaserSerial()
		if err != nil {
			return "", err
		}
		rev, err := s.LaserRevision()
		if err != nil {
			return "", err
		}
		caldate, err := s.LaserCalibrationDate()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("model %s\nserial %s\nrevision %s\ncalibrated %s", model, sn, rev, caldate), nil
	}},
}

var commandIndex = func() map[string]command {
	index := make(map[string]command, len(commands))
	for _, cmd := range commands {
		index[cmd.name] = cmd
	}
	return index
}()

func parseInt(arg string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", arg)
	}
	return v, nil
}

func boolOut(v bool, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if v {
		return "1", nil
	}
	return "0", nil
}

func intOut(v int, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.Itoa(v), nil
}

func floatOut(v float64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}
