package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalHost reads raw stdin and feeds bytes into a Machine's keyboard
// latch, and mirrors the VDU's video RAM to stdout as it changes. Only
// instantiated in main.go for interactive use — never in tests.
type TerminalHost struct {
	machine      *Machine
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State

	printed [vduRows][vduCols]byte
}

// NewTerminalHost creates a host adapter that reads stdin into m's keyboard.
func NewTerminalHost(m *Machine) *TerminalHost {
	h := &TerminalHost{
		machine: m,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	for r := range h.printed {
		for c := range h.printed[r] {
			h.printed[r][c] = ' '
		}
	}
	return h
}

// Start sets stdin to non-blocking mode and begins reading in a goroutine.
// Each byte is latched into the keyboard, held for one host-key's worth of
// latency, then released so the monitor's keyboard poll sees a clean edge.
// Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	// Put terminal in raw mode to disable OS-level echo and line buffering.
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				b := buf[0]
				// Raw mode sends DEL for backspace; the keyboard encoder
				// otherwise just passes the raw byte through.
				if b == 0x7F {
					b = 0x08
				}
				h.machine.Keyboard.Press(b)
				time.Sleep(2 * time.Millisecond)
				h.machine.Keyboard.Release()
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// Stop terminates the stdin reading goroutine and restores stdin to blocking mode.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// PrintOutput diffs the VDU's video RAM against what was last printed and
// writes any changed cells to stdout, repositioning the cursor with plain
// ANSI moves. Call this periodically from the main loop for interactive mode.
func (h *TerminalHost) PrintOutput() {
	bytes := h.machine.Mem.Bytes()
	for row := 0; row < vduRows; row++ {
		for col := 0; col < vduCols; col++ {
			ch := bytes[h.machine.VDU.CellAddr(row, col)]
			if ch == h.printed[row][col] {
				continue
			}
			h.printed[row][col] = ch
			fmt.Printf("\x1b[%d;%dH%c", row+1, col+1, printable(ch))
		}
	}
	cursor := h.machine.VDU.Cursor()
	fmt.Printf("\x1b[%d;%dH", cursor/vduCols+1, cursor%vduCols+1)
}

func printable(b byte) byte {
	if b < 0x20 || b > 0x7E {
		return ' '
	}
	return b
}
