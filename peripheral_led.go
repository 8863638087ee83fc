// peripheral_led.go - port 3 LED latch (the front panel's row of status LEDs)

package main

// LEDLatch holds the last byte written to port 3. Bits are active-low on
// the real front panel (a clear bit lights the LED); Lit exposes the
// active-high view a front end wants for rendering.
type LEDLatch struct {
	value byte
}

func (l *LEDLatch) Out(_ *Machine, value byte) { l.value = value }

// Lit reports whether LED n (0-7) is illuminated.
func (l *LEDLatch) Lit(n int) bool {
	return l.value&(1<<uint(n)) == 0
}
