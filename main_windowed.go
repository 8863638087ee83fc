//go:build !headless

package main

import (
	"fmt"
	"os"
)

// runWindowed opens the ebiten front end with square-wave audio, for the
// default build that links the graphics stack.
func runWindowed(m *Machine) {
	front := NewEbitenFrontEnd(m, cyclesPerFrame)

	player, err := NewOscillatorPlayer()
	if err != nil {
		fmt.Printf("warning: audio disabled: %v\n", err)
	} else {
		player.Attach(m.Oscillator)
		player.Start()
		defer player.Stop()
	}

	if err := front.Run(); err != nil {
		fmt.Printf("fatal: %v\n", err)
		os.Exit(1)
	}
}
