package main

import "testing"

func TestVDUWritesThroughStrobe(t *testing.T) {
	m := NewMachine(defaultMemTop)
	m.VDU.Out(m, 0x80|'Q') // bit 7 set, not a reserved control code
	if m.VDU.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1 after one character", m.VDU.Cursor())
	}
	if got := m.Mem.Read(m.VDU.CellAddr(0, 0)); got != 'Q' {
		t.Fatalf("cell (0,0) = %q, want 'Q'", got)
	}
}

func TestVDUWithoutHighBitIsNoOp(t *testing.T) {
	m := NewMachine(defaultMemTop)
	m.VDU.Out(m, 'Q') // bit 7 clear: latched only, no display side effect
	if m.VDU.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0: a write with bit 7 clear must not move it", m.VDU.Cursor())
	}
	if got := m.Mem.Read(m.VDU.CellAddr(0, 0)); got == 'Q' {
		t.Fatalf("cell (0,0) should not have been written without the strobe bit")
	}
}

// TestVDUScrollsByStartRow exercises testable property #6: filling exactly
// one screen's worth of characters from (r=0,c=0) scrolls by advancing the
// start row rather than copying memory, and the row exposed at the bottom
// is the one just cleared.
func TestVDUScrollsByStartRow(t *testing.T) {
	m := NewMachine(defaultMemTop)
	for i := 0; i < vduSize; i++ {
		m.VDU.Out(m, 0x80|'x')
	}
	if m.VDU.StartRow() != 1 {
		t.Fatalf("startRow = %d, want 1 after exactly one screen", m.VDU.StartRow())
	}
	for col := 0; col < vduCols; col++ {
		if got := m.Mem.Read(m.VDU.CellAddr(vduRows-1, col)); got != ' ' {
			t.Fatalf("row %d col %d = %q, want blank after the scroll", vduRows-1, col, got)
		}
	}
	if got := m.Mem.Read(m.VDU.CellAddr(0, 0)); got != 'x' {
		t.Fatalf("row 0 col 0 = %q, want 'x' carried over from before the scroll", got)
	}

	for i := 0; i < vduCols; i++ {
		m.VDU.Out(m, 0x80|'y')
	}
	if m.VDU.StartRow() != 2 {
		t.Fatalf("startRow = %d, want 2 after one more full row", m.VDU.StartRow())
	}
}

func TestVDUClearStrobe(t *testing.T) {
	m := NewMachine(defaultMemTop)
	m.VDU.Out(m, 0x80|'Q')
	m.VDU.Out(m, 0x80|0x0C) // clear screen strobe
	if m.VDU.Cursor() != 0 {
		t.Fatalf("cursor after clear strobe = %d, want 0", m.VDU.Cursor())
	}
	if m.VDU.StartRow() != 0 {
		t.Fatalf("startRow after clear strobe = %d, want 0", m.VDU.StartRow())
	}
	if m.Mem.Read(videoRAMStart) != ' ' {
		t.Fatalf("screen not blanked after clear strobe")
	}
}

func TestVDUBackspaceAndLineFeed(t *testing.T) {
	m := NewMachine(defaultMemTop)
	for i := 0; i < 5; i++ {
		m.VDU.Out(m, 0x80|'a')
	}
	m.VDU.Out(m, 0x80|0x08) // backspace
	if m.VDU.Cursor() != 4 {
		t.Fatalf("cursor after backspace = %d, want 4", m.VDU.Cursor())
	}
	m.VDU.Out(m, 0x80|0x0A) // line feed
	if m.VDU.Cursor() != 4+vduCols {
		t.Fatalf("cursor after line feed = %d, want %d", m.VDU.Cursor(), 4+vduCols)
	}
}

func TestVDUCarriageReturnNoClear(t *testing.T) {
	m := NewMachine(defaultMemTop)
	for i := 0; i < 10; i++ {
		m.VDU.Out(m, 0x80|'a')
	}
	m.VDU.Out(m, 0x80|0x1D) // CR, no clear
	if m.VDU.Cursor() != 0 {
		t.Fatalf("cursor after CR-no-clear = %d, want 0", m.VDU.Cursor())
	}
}

func TestVDUScrollRoll(t *testing.T) {
	m := NewMachine(defaultMemTop)
	m.VDU.Out(m, 0x80|0x1B) // screen roll
	if m.VDU.StartRow() != 1 {
		t.Fatalf("startRow after scroll roll = %d, want 1", m.VDU.StartRow())
	}
	if m.VDU.Cursor() != vduSize-vduCols {
		t.Fatalf("cursor after scroll roll = %d, want %d", m.VDU.Cursor(), vduSize-vduCols)
	}
}

func TestKeyboardLatch(t *testing.T) {
	m := NewMachine(defaultMemTop)
	m.Keyboard.Press('A')
	if v := m.Keyboard.In(m); v != 'A'|0x80 {
		t.Fatalf("keyboard latch = %#x, want %#x", v, byte('A')|0x80)
	}
	m.Keyboard.Release()
	if v := m.Keyboard.In(m); v != 'A' {
		t.Fatalf("keyboard latch after release = %#x, want 'A'", v)
	}
}

func TestLEDLatchActiveLow(t *testing.T) {
	m := NewMachine(defaultMemTop)
	m.LED.Out(m, 0xFE) // bit 0 clear -> LED 0 lit
	if !m.LED.Lit(0) {
		t.Fatalf("LED 0 should be lit when its bit is clear")
	}
	if m.LED.Lit(1) {
		t.Fatalf("LED 1 should be dark when its bit is set")
	}
}

func TestEPROMProgramAndRead(t *testing.T) {
	e := newEPROMProgrammer()
	m := &Machine{EPROM: e}

	e.OutB(m, 0x05)        // address low byte
	e.OutC(m, 0x00|0x0C)   // address high bits 0, CS+WE asserted
	e.OutControl(m, 0x00)  // port A as output
	e.OutA(m, 0x3C)        // program byte

	e.OutC(m, 0x00) // drop CS/WE
	e.OutControl(m, 0x10) // port A as input
	e.OutC(m, 0x04)        // CS asserted, WE not
	if got := e.InA(m); got != 0x3C {
		t.Fatalf("readback = %#x, want 0x3C", got)
	}
	if e.writeCounts[5] != 1 {
		t.Fatalf("write count = %d, want 1", e.writeCounts[5])
	}
}

func TestEPROMProgramOnlyClearsBits(t *testing.T) {
	e := newEPROMProgrammer()
	e.rom[0] = 0xFF
	e.cLow = 0x0C
	e.control = 0x00
	e.OutA(nil, 0x0F) // AND 0x0F into a fully-erased (0xFF) cell
	if e.rom[0] != 0x0F {
		t.Fatalf("rom[0] = %#x, want 0x0F", e.rom[0])
	}
	e.rom[0] = 0x0F
	e.OutA(nil, 0xF0) // attempting to set already-cleared bits has no effect
	if e.rom[0] != 0x00 {
		t.Fatalf("rom[0] = %#x, want 0x00 (AND of 0x0F and 0xF0)", e.rom[0])
	}
}

func TestEPROMErase(t *testing.T) {
	e := newEPROMProgrammer()
	e.rom[10] = 0x00
	e.writeCounts[10] = 5
	e.Erase()
	if e.rom[10] != 0xFF || e.writeCounts[10] != 0 {
		t.Fatalf("erase did not reset cell state")
	}
}

// sendPrinterFrame drives one 1-start/7-data/1-stop frame through p and
// returns what it printed. bits are the 7 data values sent, in order, each
// already either 0x00 or 0x80 on the wire.
func sendPrinterFrame(p *Printer, bits [7]byte) {
	p.Out(nil, 0x80) // start bit
	for _, b := range bits {
		p.Out(nil, b)
	}
	p.Out(nil, 0x00) // stop bit (any write ends the frame)
}

func TestPrinterBitBangingAllZeroData(t *testing.T) {
	var buf []byte
	sink := &byteSliceWriter{&buf}
	p := &Printer{Sink: sink}

	// Every data bit 0x80 (wire-high) accumulates to 0x7F before the
	// complement, so the printed byte is 0x00.
	sendPrinterFrame(p, [7]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80})

	if len(buf) != 1 || buf[0] != 0x00 {
		t.Fatalf("printer decoded %v, want [0x00]", buf)
	}
}

func TestPrinterBitBangingAllOneData(t *testing.T) {
	var buf []byte
	sink := &byteSliceWriter{&buf}
	p := &Printer{Sink: sink}

	// Every data bit 0x00 (wire-low) accumulates to 0x00, so the
	// complement-and-mask printed byte is 0x7F.
	sendPrinterFrame(p, [7]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})

	if len(buf) != 1 || buf[0] != 0x7F {
		t.Fatalf("printer decoded %v, want [0x7F]", buf)
	}
}

func TestPrinterIgnoresNonStartWritesWhileIdle(t *testing.T) {
	var buf []byte
	sink := &byteSliceWriter{&buf}
	p := &Printer{Sink: sink}

	p.Out(nil, 0x00) // bit 7 clear: not a start bit, stays idle
	if len(buf) != 0 {
		t.Fatalf("printer printed %v before any start bit was seen", buf)
	}
}

type byteSliceWriter struct{ buf *[]byte }

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}

func TestTapeRelay(t *testing.T) {
	tape := &Tape{}
	tape.OutControl(nil, 0x80)
	if !tape.Relay {
		t.Fatalf("relay should be on when bit 7 is set")
	}
	tape.OutControl(nil, 0x00)
	if tape.Relay {
		t.Fatalf("relay should be off when bit 7 is clear")
	}
}

func TestUARTStatusFixed(t *testing.T) {
	if uartStatusIn(nil) != 0x11 {
		t.Fatalf("UART status should always read 0x11")
	}
}
