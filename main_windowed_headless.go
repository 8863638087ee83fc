//go:build headless

package main

// runWindowed is unavailable in the headless build, which omits the ebiten
// and oto dependencies entirely; this build always drives the machine
// through the terminal front end instead.
func runWindowed(m *Machine) {
	runHeadless(m)
}
