// peripheral_keyboard.go - port 0 keyboard latch

package main

// Keyboard is a single-byte latch fed by the host front end: the ASCII code
// of the last key pressed, with bit 7 set while the key is still held down
// and clear once it has been read as released, mirroring the strobe-and-
// latch keyboard encoder on the real hardware.
type Keyboard struct {
	latch byte
}

// Press latches ascii with the strobe bit set.
func (k *Keyboard) Press(ascii byte) {
	k.latch = ascii | 0x80
}

// Release clears the strobe bit but leaves the last code in place, so a
// program polling port 0 after key-up still sees which key it was.
func (k *Keyboard) Release() {
	k.latch &^= 0x80
}

// In services a port 0 read.
func (k *Keyboard) In(_ *Machine) byte { return k.latch }
