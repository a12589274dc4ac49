// Command tlb6700ctl issues one-shot operations against a TLB-6700 laser
// controller: enumerate devices, read sensed values, change setpoints.
//
// Usage:
//
//	tlb6700ctl [flags] <command> [arg]
//	tlb6700ctl list
//	tlb6700ctl -device 1 set-wavelength 1550.12
//	tlb6700ctl -serial /dev/ttyUSB0 wavelength
//	tlb6700ctl -dev output
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/photonbench/tlb6700"
	"github.com/photonbench/tlb6700/usbdriver"
)

var (
	dllPath    = flag.String("dll", "", "path to the Newport USB driver library (default: UsbDll.dll on the system search path)")
	serialPort = flag.String("serial", "", "RS-232 port to use instead of the USB driver")
	deviceID   = flag.Int("device", 1, "USB device id (see the list command)")
	devMode    = flag.Bool("dev", false, "use the built-in instrument simulator instead of hardware")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	name, arg := args[0], ""
	if len(args) > 1 {
		arg = args[1]
	}

	if name == "list" {
		runList()
		return
	}

	cmd, ok := commandIndex[name]
	if !ok {
		log.Fatalf("unknown command %q (run without arguments for the command list)", name)
	}
	if cmd.arg != "" && arg == "" {
		log.Fatalf("command %s requires an argument: %s", cmd.name, cmd.arg)
	}

	session, cleanup, err := openSession()
	if err != nil {
		log.Fatalf("failed to open session: %v", err)
	}
	defer cleanup()

	out, err := cmd.run(session, arg)
	if err != nil {
		log.Fatalf("%s failed: %v", cmd.name, err)
	}
	if out != "" {
		fmt.Println(out)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <command> [arg]\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), "\nCommands:\n  %-28s %s\n", "list", "enumerate connected devices")
	for _, cmd := range commands {
		name := cmd.name
		if cmd.arg != "" {
			name += " " + cmd.arg
		}
		fmt.Fprintf(flag.CommandLine.Output(), "  %-28s %s\n", name, cmd.help)
	}
}

func runList() {
	handle, err := acquireHandle()
	if err != nil {
		log.Fatalf("failed to load driver: %v", err)
	}
	if err := handle.InitSystem(); err != nil {
		log.Fatalf("failed to initialise USB system: %v", err)
	}
	defer handle.CloseSystem()

	devices, err := handle.ListDevices()
	if err != nil {
		log.Fatalf("failed to enumerate devices: %v", err)
	}
	if len(devices) == 0 {
		fmt.Println("no devices found")
		return
	}
	for _, d := range devices {
		fmt.Printf("%d\t%s\n", d.ID, d.Description)
	}
}

func acquireHandle() (*usbdriver.Handle, error) {
	if *devMode {
		return usbdriver.NewHandle(tlb6700.NewSimulator()), nil
	}
	return usbdriver.Acquire(*dllPath)
}

// openSession builds a session from the flags: simulator, RS-232, or USB.
// cleanup tears down whatever the session borrowed.
func openSession() (*tlb6700.Session, func(), error) {
	if *serialPort != "" && !*devMode {
		session, err := tlb6700.OpenSerial(*serialPort)
		if err != nil {
			return nil, nil, err
		}
		return session, func() { session.Close() }, nil
	}

	handle, err := acquireHandle()
	if err != nil {
		return nil, nil, err
	}
	if err := handle.InitSystem(); err != nil {
		return nil, nil, err
	}
	return tlb6700.NewSession(handle, *deviceID), func() { handle.CloseSystem() }, nil
}
