// machine.go - wires the CPU, memory and I/O bus into one runnable Triton

package main

// Machine is the complete emulated Triton: CPU, memory and every
// peripheral, bound together by an IOBus that routes port traffic.
type Machine struct {
	CPU    *CPU8080
	Mem    *Memory
	Bus    *IOBus
	Cycles uint64

	Keyboard   *Keyboard
	LED        *LEDLatch
	VDU        *VDU
	Printer    *Printer
	Tape       *Tape
	Oscillator *Oscillator
	EPROM      *EPROMProgrammer
}

// NewMachine builds a Triton whose writable RAM runs from the start of video
// RAM up to memTop (exclusive; pass defaultMemTop, 0x2000, for the stock
// 1 KiB video plus 3 KiB RAM configuration) and every peripheral registered
// on its port.
func NewMachine(memTop int) *Machine {
	m := &Machine{
		CPU:        NewCPU8080(),
		Mem:        NewMemory(memTop),
		Bus:        &IOBus{},
		Keyboard:   &Keyboard{},
		LED:        &LEDLatch{},
		Printer:    &Printer{},
		Tape:       &Tape{},
		Oscillator: &Oscillator{},
		EPROM:      newEPROMProgrammer(),
	}
	m.VDU = newVDU(m.Mem)
	m.registerPorts()
	return m
}

func (m *Machine) registerPorts() {
	m.Bus.register(portKeyboard, ioHandler{in: func(mm *Machine) byte { return mm.Keyboard.In(mm) }})
	m.Bus.register(portUART, ioHandler{in: uartStatusIn})
	m.Bus.register(portTape, ioHandler{out: func(mm *Machine, v byte) { mm.Tape.OutData(mm, v) }})
	m.Bus.register(portLED, ioHandler{out: func(mm *Machine, v byte) { mm.LED.Out(mm, v) }})
	m.Bus.register(portTapeIn, ioHandler{in: func(mm *Machine) byte { return mm.Tape.InData(mm) }})
	m.Bus.register(portVDU, ioHandler{out: func(mm *Machine, v byte) { mm.VDU.Out(mm, v) }})
	m.Bus.register(portPrinter, ioHandler{out: func(mm *Machine, v byte) { mm.Printer.Out(mm, v) }})
	m.Bus.register(portControl, ioHandler{out: func(mm *Machine, v byte) {
		mm.Tape.OutControl(mm, v)
		mm.Oscillator.Out(mm, v)
	}})

	m.Bus.register(portEPROMA, ioHandler{
		in:  func(mm *Machine) byte { return mm.EPROM.InA(mm) },
		out: func(mm *Machine, v byte) { mm.EPROM.OutA(mm, v) },
	})
	m.Bus.register(portEPROMB, ioHandler{
		in:  func(mm *Machine) byte { return mm.EPROM.InB(mm) },
		out: func(mm *Machine, v byte) { mm.EPROM.OutB(mm, v) },
	})
	m.Bus.register(portEPROMC, ioHandler{
		in:  func(mm *Machine) byte { return mm.EPROM.InC(mm) },
		out: func(mm *Machine, v byte) { mm.EPROM.OutC(mm, v) },
	})
	m.Bus.register(portEPROMControl, ioHandler{
		out: func(mm *Machine, v byte) { mm.EPROM.OutControl(mm, v) },
	})
}

// Step executes exactly one CPU instruction (or injected interrupt) and
// services any I/O request it raises, returning the machine cycles spent.
func (m *Machine) Step() int {
	cycles := m.CPU.Step(m.Mem)
	m.Bus.Service(m)
	m.Cycles += uint64(cycles)
	return cycles
}

// Interrupt raises a pending interrupt with the given RST opcode (e.g.
// 0xCF for RST 1), taken on the next Step if interrupts are enabled.
func (m *Machine) Interrupt(opcode byte) {
	m.CPU.PendingInterrupt = opcode
}
