// host_commands.go - the F1-F9 host commands a front end maps its function
// keys to. Kept separate from any one front end so both the windowed and
// headless hosts could wire them up the same way.

package main

import "fmt"

const (
	rst1Opcode = 0xC7 | 1<<3
	rst2Opcode = 0xC7 | 2<<3
	hltOpcode  = 0x76
)

// HostCommands holds per-session state a front end needs across repeated
// key presses (just the pause flag, currently) alongside the Machine it
// drives.
type HostCommands struct {
	Machine *Machine
	Paused  bool
}

func NewHostCommands(m *Machine) *HostCommands {
	return &HostCommands{Machine: m}
}

// InjectRST1 services F1: raise a maskable RST 1, taken on the next Step if
// the guest has interrupts enabled.
func (h *HostCommands) InjectRST1() { h.Machine.Interrupt(rst1Opcode) }

// InjectRST2 services F2: raise a maskable RST 2.
func (h *HostCommands) InjectRST2() { h.Machine.Interrupt(rst2Opcode) }

// ResetCPU services F3: reset the 8080 to its power-on state.
func (h *HostCommands) ResetCPU() { h.Machine.CPU.Reset() }

// ForceHalt services F4: halt the CPU unconditionally, unlike RST1/RST2
// this bypasses int_enable since it's a host debugging action, not a
// guest-visible interrupt.
func (h *HostCommands) ForceHalt() {
	h.Machine.CPU.Halted = true
	h.Machine.CPU.PendingInterrupt = 0
}

// TogglePause services F5.
func (h *HostCommands) TogglePause() { h.Paused = !h.Paused }

// Status services F6: format the current CPU state as one line.
func (h *HostCommands) Status() string { return StatusLine(h.Machine.CPU) }

// EraseEPROM services F7.
func (h *HostCommands) EraseEPROM() { h.Machine.EPROM.Erase() }

// SaveEPROM services F8, writing the programmed image to path.
func (h *HostCommands) SaveEPROM(path string) error { return h.Machine.EPROM.Save(path) }

// ExitMessage services F9: the caller is responsible for actually
// terminating the process once this has been shown.
func (h *HostCommands) ExitMessage() string { return fmt.Sprintf("%s: exiting", "triton") }
