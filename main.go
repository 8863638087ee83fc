// main.go - entry point for the Transam Triton emulator.

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// framesPerSecond and cyclesPerFrame reproduce the host shell's documented
// cadence: an 800kHz effective clock run in 25 frame-sized chunks a second.
const (
	framesPerSecond = 25
	cyclesPerFrame  = 32000
)

// monitorROMAFile, monitorROMBFile, trapROMFile and basicROMFile are the fixed image names
// the real Triton's monitor expects to find alongside the binary; unlike
// memtop, tape and the two user ROM slots, these are not configurable from
// the command line.
const (
	monitorROMAFile = "MONA72_ROM"
	monitorROMBFile = "MONB72_ROM"
	trapROMFile     = "TRAP_ROM"
	basicROMFile    = "BASIC72_ROM"
)

func boilerPlate() {
	fmt.Println("Transam Triton emulator")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	var (
		memTopFlag string
		tapeFile   string
		userROMs   string
		epromFile  string
		showHelp   bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.StringVar(&memTopFlag, "m", "0x2000", "top of writable RAM, exclusive (hex or decimal)")
	flagSet.StringVar(&tapeFile, "t", "", "cassette tape image, opened for both CLOAD and CSAVE")
	flagSet.StringVar(&userROMs, "u", "", "user ROM image(s) for 0x0400-0x0800[,0x0800-0x0C00]")
	flagSet.StringVar(&epromFile, "z", "", "EPROM programmer image to preload")
	flagSet.BoolVar(&showHelp, "h", false, "print version banner and exit")

	flagSet.Usage = func() {
		fmt.Println("Usage: triton [-m memtop] [-t tapefile] [-u userrom[,userrom2]] [-z epromfile]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if showHelp {
		boilerPlate()
		os.Exit(0)
	}

	memTop, err := parseUint16Flag(memTopFlag)
	if err != nil {
		fmt.Printf("Invalid -m: %v\n", err)
		os.Exit(1)
	}

	m := NewMachine(int(memTop))

	loadROM(m.Mem, monitorROMAStart, monitorROMAFile, true)
	loadROM(m.Mem, monitorROMBStart, monitorROMBFile, true)
	loadROM(m.Mem, trapROMStart, trapROMFile, false)
	loadROM(m.Mem, basicROMStart, basicROMFile, false)

	if userROMs != "" {
		parts := strings.SplitN(userROMs, ",", 2)
		loadROM(m.Mem, userROM1Start, parts[0], false)
		if len(parts) == 2 {
			loadROM(m.Mem, userROM2Start, parts[1], false)
		}
	}

	if tapeFile != "" {
		loadTape(m, tapeFile)
	}

	if epromFile != "" {
		if err := m.EPROM.Load(epromFile); err != nil {
			fmt.Printf("warning: cannot load EPROM image %q: %v\n", epromFile, err)
		}
	}

	runWindowed(m)
}

// loadROM reads path and installs it at start. Monitor ROMs A and B are
// mandatory (ROM A holds the reset vector), so the absence of either is
// fatal. The others are optional expansion ROMs; their absence is a warning.
func loadROM(mem *Memory, start uint16, path string, mandatory bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mandatory {
			fmt.Printf("fatal: cannot load ROM %q: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("warning: cannot load ROM %q: %v (leaving that region blank)\n", path, err)
		return
	}
	mem.LoadROM(start, data)
}

// loadTape opens path read-write and wires it to the tape peripheral. A
// failure here is a host I/O error, not a fatal one: the relay flag stays
// clear and the machine runs on with CLOAD always returning 0xFF.
func loadTape(m *Machine, path string) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		fmt.Printf("warning: cannot open tape image %q: %v\n", path, err)
		m.Tape.Relay = false
		return
	}
	m.Tape.Reader = f
	m.Tape.Writer = f
}

// runHeadless drives the machine without any graphics or audio backend,
// suitable for CI and for terminals that can't host the windowed front end.
// The headless build's main_windowed_headless.go stub directs users here.
func runHeadless(m *Machine) {
	host := NewTerminalHost(m)
	host.Start()
	defer host.Stop()

	front := NewHeadlessFrontEnd(m, cyclesPerFrame)
	ticker := time.NewTicker(time.Second / framesPerSecond)
	defer ticker.Stop()
	for range ticker.C {
		front.Tick()
		host.PrintOutput()
	}
}

func parseUint16Flag(value string) (uint16, error) {
	parsed, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return 0, err
	}
	if parsed > 0xFFFF {
		return 0, fmt.Errorf("value out of range: 0x%X", parsed)
	}
	return uint16(parsed), nil
}
