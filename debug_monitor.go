// debug_monitor.go - F6 "write CPU status" host command.

package main

import "fmt"

// StatusLine formats the CPU's registers and flags as a single line, for
// the F6 host command. Flag letters are printed uppercase when set and
// lowercase when clear, matching the reference interpreter's status
// display: Z/z sign S/s parity P/p carry C/c and auxiliary carry A/a.
func StatusLine(c *CPU8080) string {
	return fmt.Sprintf(
		"PC=%04X SP=%04X A=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X  %c%c%c%c%c",
		c.PC, c.SP, c.A, c.B, c.C, c.D, c.E, c.H, c.L,
		flagLetter('Z', c.Z), flagLetter('S', c.S), flagLetter('P', c.P),
		flagLetter('C', c.CY), flagLetter('A', c.AC),
	)
}

func flagLetter(letter byte, set bool) byte {
	if set {
		return letter
	}
	return letter - 'A' + 'a'
}
