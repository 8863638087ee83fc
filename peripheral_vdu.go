// peripheral_vdu.go - port 5 VDU controller: 64-column x 16-row character
// display living in video RAM (0x1000-0x13FF), cursor tracking and scroll.

package main

const (
	vduCols = 64
	vduRows = 16
	vduSize = vduCols * vduRows // 1024, matches videoRAMSize
)

// VDU models the Triton's memory-mapped video display. A plain OUT with bit
// 7 clear just latches the byte with no visible effect; OUT with bit 7 set
// drives the VDU strobe, which either moves the cursor/scroll state or (for
// any code not claimed as a control function) writes the low 7 bits as a
// displayed character.
//
// The display is a 1024-cell ring buffer: cursor is a logical position in
// [0,1024) counting 64*row+col from the top of the currently-visible
// screen, and startRow is which physical row of the ring buffer that top
// currently sits at. Scrolling advances startRow instead of copying bytes.
type VDU struct {
	mem      *Memory
	cursor   int // 0..vduSize-1, 64*row+col relative to startRow
	startRow int // 0..vduRows-1
}

func newVDU(mem *Memory) *VDU {
	return &VDU{mem: mem}
}

// Out services a port 5 write.
func (v *VDU) Out(_ *Machine, value byte) {
	if value&0x80 == 0 {
		return
	}
	v.strobe(value & 0x7F)
}

// addr maps a logical ring position to its physical video RAM address.
func (v *VDU) addr(pos int) uint16 {
	off := (vduCols*v.startRow + pos) % vduSize
	if off < 0 {
		off += vduSize
	}
	return uint16(videoRAMStart + off)
}

func wrapCell(x int) int {
	x %= vduSize
	if x < 0 {
		x += vduSize
	}
	return x
}

// strobe dispatches the cursor/screen control codes encoded in the low 7
// bits of a byte with the high bit set.
func (v *VDU) strobe(d byte) {
	switch d {
	case 0x00, 0x04:
		// no effect
	case 0x08: // backspace
		v.cursor = wrapCell(v.cursor - 1)
	case 0x09: // step cursor right
		v.cursor = wrapCell(v.cursor + 1)
	case 0x0A: // line feed
		v.cursor += vduCols
		if v.cursor >= vduSize {
			v.cursor -= vduCols
			v.scrollAndClear()
		}
	case 0x0B: // step cursor up
		v.cursor = wrapCell(v.cursor - vduCols)
	case 0x0C: // clear screen, reset cursor
		v.clear()
	case 0x0D: // carriage return, clear to end of line
		if v.cursor%vduCols != 0 {
			for v.cursor%vduCols != 0 {
				v.mem.Write(v.addr(v.cursor), ' ')
				v.cursor++
			}
			v.cursor -= vduCols
		}
	case 0x1B: // screen roll: advance which row is the top of screen
		v.startRow = (v.startRow + 1) % vduRows
		v.cursor = wrapCell(v.cursor - vduCols)
	case 0x1C: // reset cursor, no clear
		v.cursor = 0
	case 0x1D: // carriage return, no clear
		v.cursor -= v.cursor % vduCols
	default:
		v.putChar(d)
	}
}

func (v *VDU) putChar(ch byte) {
	v.mem.Write(v.addr(v.cursor), ch)
	v.cursor++
	if v.cursor >= vduSize {
		v.cursor -= vduCols
		v.scrollAndClear()
	}
}

// scrollAndClear advances startRow by one row and blanks the 64 cells that
// become the new bottom line, at the cursor's current (post-wrap) position.
func (v *VDU) scrollAndClear() {
	v.startRow = (v.startRow + 1) % vduRows
	for i := 0; i < vduCols; i++ {
		v.mem.Write(v.addr(v.cursor+i), ' ')
	}
}

func (v *VDU) clear() {
	for i := 0; i < vduSize; i++ {
		v.mem.Write(uint16(videoRAMStart+i), ' ')
	}
	v.cursor = 0
	v.startRow = 0
}

// Cursor reports the current logical cursor position (64*row+col relative
// to the visible screen), for host front ends that render a blinking caret.
func (v *VDU) Cursor() int { return v.cursor }

// StartRow reports which physical ring-buffer row is currently the top of
// the visible screen, for front ends translating screen (row,col) into a
// video RAM address via CellAddr.
func (v *VDU) StartRow() int { return v.startRow }

// CellAddr returns the video RAM address backing screen position (row,col).
func (v *VDU) CellAddr(row, col int) uint16 {
	return v.addr(row*vduCols + col)
}
