// frontend_headless.go - no-display front end, for CI and environments
// without a windowing system. Runs the machine at a fixed cycle budget per
// tick with no rendering of its own; the terminal host handles keyboard
// input and VDU-to-stdout mirroring separately.

package main

// HeadlessFrontEnd runs m without any windowing dependency, for build
// configurations where ebiten's platform backends aren't available.
type HeadlessFrontEnd struct {
	machine      *Machine
	cyclesPerTic int
	ticks        uint64
}

func NewHeadlessFrontEnd(m *Machine, cyclesPerTick int) *HeadlessFrontEnd {
	return &HeadlessFrontEnd{machine: m, cyclesPerTic: cyclesPerTick}
}

// Tick runs one frame's worth of cycles, stopping early if the CPU is halted,
// and returns how many ticks have run.
func (h *HeadlessFrontEnd) Tick() uint64 {
	for i := 0; i < h.cyclesPerTic; {
		n := h.machine.Step()
		if n == 0 { // halted with no interrupt to take
			break
		}
		i += n
	}
	h.ticks++
	return h.ticks
}

// Run ticks forever. Callers that want a bounded run should call Tick
// directly instead.
func (h *HeadlessFrontEnd) Run() error {
	for {
		h.Tick()
	}
}
