package tlb6700

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/photonbench/tlb6700/usbdriver"
)

// Simulator is an in-memory usbdriver.Driver that answers the TLB-6700
// command set with plausible instrument state. It backs the CLIs' dev mode
// and end-to-end tests, so the full stack can run without hardware or the
// vendor driver. Wrap it with usbdriver.NewHandle.
type Simulator struct {
	mu      sync.Mutex
	pending string

	output      bool
	lambdaTrack bool
	beep        int
	brightness  int
	lockout     int
	onDelay     int
	controlMode string

	wavelengthSet float64
	diodeCurrent  float64
	diodePower    float64
	piezoVoltage  float64
}

// Simulator head ratings, loosely modelled on a TLB-6712 velocity head.
const (
	simMaxDiodeCurrent = 152.0  // mA
	simMaxDiodePower   = 20.0   // mW
	simWavelength      = 1550.0 // nm, default setpoint
)

// NewSimulator returns a simulator in its power-on state.
func NewSimulator() *Simulator {
	s := &Simulator{}
	s.reset()
	return s
}

func (s *Simulator) InitSystem() int { return 0 }

func (s *Simulator) UninitSystem() {}

func (s *Simulator) DeviceInfo(buf []byte) int {
	n := copy(buf, "1,TLB-6700 simulator;")
	if n < len(buf) {
		buf[n] = 0
	}
	return 0
}

func (s *Simulator) SendASCII(deviceID int, data []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.respond(string(data)) + "\r\n"
	return 0
}

func (s *Simulator) GetASCII(deviceID int, buf []byte) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := copy(buf, s.pending)
	if n < len(buf) {
		buf[n] = 0
	}
	s.pending = ""
	return n, 0
}

// reset restores the power-on state. Callers hold s.mu.
func (s *Simulator) reset() {
	s.output = false
	s.lambdaTrack = false
	s.beep = 1
	s.brightness = 80
	s.lockout = 0
	s.onDelay = 3000
	s.controlMode = ControlLocal
	s.wavelengthSet = simWavelength
	s.diodeCurrent = 100.0
	s.diodePower = 10.0
	s.piezoVoltage = 50.0
}

func (s *Simulator) respond(command string) string {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(command), " ")
	upper := strings.ToUpper(name)

	if !hasArg {
		return s.respondQuery(upper)
	}
	return s.respondSet(upper, arg)
}

func (s *Simulator) respondQuery(name string) string {
	onOff := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}

	switch name {
	case "*IDN?":
		return "New Focus TLB-6700 Simulator v1.0"
	case "*RST":
		s.reset()
		return "OK"
	case "*OPC?":
		return "1"
	case "*STB?":
		return "0"
	case "BEEP?":
		return strconv.Itoa(s.beep)
	case "BRIGHT?":
		return strconv.Itoa(s.brightness)
	case "ERRSTR?":
		return "0,NO ERROR"
	case "LOCKOUT?":
		return strconv.Itoa(s.lockout)
	case "ONDELAY?":
		return strconv.Itoa(s.onDelay)
	case "OUTPUT:STATE?":
		return onOff(s.output)
	case "OUTPUT:TRACK?":
		return onOff(s.lambdaTrack)
	case "SENSE:CURRENT:DIODE":
		if s.output {
			return num(s.diodeCurrent)
		}
		return num(0)
	case "SENSE:TEMPERATURE:DIODE":
		return num(25.0)
	case "SENSE:TEMPERATURE:CAVITY":
		return num(24.5)
	case "SENSE:VOLTAGE:AUXILIARY":
		return num(0.1)
	case "SOURCE:CURRENT:DIODE?":
		return num(s.diodeCurrent)
	case "SOURCE:POWER:DIODE?":
		return num(s.diodePower)
	case "SENSE:POWER:DIODE?":
		if s.output {
			return num(s.diodePower)
		}
		return num(0)
	case "SOURCE:WAVELENGTH?":
		return num(s.wavelengthSet)
	case "SENSE:WAVELENGTH?":
		return num(s.wavelengthSet)
	case "SOURCE:VOLTAGE:PIEZO?":
		return num(s.piezoVoltage)
	case "SOURCE:TEMPERATURE:DIODE?":
		return num(25.0)
	case "SOURCE:TEMPERATURE:CAVITY?":
		return num(24.5)
	case "SYSTEM:ENTIME?":
		return "120"
	case "SYSTEM:MCONTROL?":
		return s.controlMode
	case "SYSTEM:LASER:MODEL?":
		return "TLB-6712-P"
	case "SYSTEM:LASER:SN?":
		return "SIM0001"
	case "SYSTEM:LASER:REV?":
		return "2.3"
	case "SYSTEM:LASER:CALDATE?":
		return "2024-01-15"
	default:
		return fmt.Sprintf("ERROR: unknown command %q", name)
	}
}

func (s *Simulator) respondSet(name, arg string) string {
	argInt := func(min, max int, target *int) string {
		v, err := strconv.Atoi(arg)
		if err != nil || v < min || v > max {
			return "ERROR: value out of range"
		}
		*target = v
		return "OK"
	}
	argLevel := func(max float64, target *float64) string {
		if strings.EqualFold(arg, "MAX") {
			*target = max
			return "OK"
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 || v > max {
			return "ERROR: value out of range"
		}
		*target = v
		return "OK"
	}

	switch name {
	case "*RCL":
		if bin, err := strconv.Atoi(arg); err != nil || bin < 0 || bin > 5 {
			return "ERROR: value out of range"
		}
		return "OK"
	case "*SAV":
		if bin, err := strconv.Atoi(arg); err != nil || bin < 2 || bin > 5 {
			return "ERROR: value out of range"
		}
		return "OK"
	case "BEEP":
		return argInt(0, 2, &s.beep)
	case "BRIGHT":
		return argInt(1, 100, &s.brightness)
	case "LOCKOUT":
		return argInt(0, 2, &s.lockout)
	case "ONDELAY":
		return argInt(3000, 60000, &s.onDelay)
	case "OUTPUT:STATE":
		switch strings.ToUpper(arg) {
		case "ON":
			s.output = true
		case "OFF":
			s.output = false
		default:
			return "ERROR: expected ON or OFF"
		}
		return "OK"
	case "OUTPUT:TRACK":
		switch arg {
		case "1":
			s.lambdaTrack = true
		case "0":
			s.lambdaTrack = false
		default:
			return "ERROR: expected 0 or 1"
		}
		return "OK"
	case "SOURCE:CURRENT:DIODE":
		return argLevel(simMaxDiodeCurrent, &s.diodeCurrent)
	case "SOURCE:POWER:DIODE":
		return argLevel(simMaxDiodePower, &s.diodePower)
	case "SOURCE:VOLTAGE:PIEZO":
		return argLevel(100, &s.piezoVoltage)
	case "SOURCE:WAVELENGTH":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return "ERROR: expected wavelength in nm"
		}
		s.wavelengthSet = v
		return "OK"
	case "SYSTEM:MCONTROL":
		mode := strings.ToUpper(arg)
		if mode != ControlRemote && mode != ControlLocal {
			return "ERROR: expected REM or LOC"
		}
		s.controlMode = mode
		return "OK"
	default:
		return fmt.Sprintf("ERROR: unknown command %q", name)
	}
}

var _ usbdriver.Driver = (*Simulator)(nil)
