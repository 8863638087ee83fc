//go:build !headless

// video_backend_ebiten.go - windowed front end for the Triton, rendering the
// VDU's 64x16 character display and routing keyboard/paste input back into
// the machine.

package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	glyphW = 8
	glyphH = 13
	ledBar = 24
)

// EbitenFrontEnd is an ebiten.Game driving one Machine: it renders the VDU's
// video RAM every frame and feeds host key presses into the keyboard latch.
type EbitenFrontEnd struct {
	machine      *Machine
	face         *basicfont.Face
	clipboardOK  bool
	pasteQueue   []byte
	cyclesPerTic int
	host         *HostCommands
	statusLine   string
}

// NewEbitenFrontEnd wires up a windowed front end for m. cyclesPerTick bounds
// how many CPU cycles are executed per tick (framesPerSecond ticks a second), approximating the 8080's
// real clock rate without a wall-clock scheduler.
func NewEbitenFrontEnd(m *Machine, cyclesPerTick int) *EbitenFrontEnd {
	e := &EbitenFrontEnd{
		machine:      m,
		face:         basicfont.Face7x13,
		cyclesPerTic: cyclesPerTick,
		host:         NewHostCommands(m),
	}
	if err := clipboard.Init(); err == nil {
		e.clipboardOK = true
	}
	return e
}

func (e *EbitenFrontEnd) Update() error {
	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		if ascii, ok := ebitenKeyToASCII(key); ok {
			e.machine.Keyboard.Press(ascii)
		}
	}
	for _, key := range inpututil.AppendJustReleasedKeys(nil) {
		if _, ok := ebitenKeyToASCII(key); ok {
			e.machine.Keyboard.Release()
		}
	}

	if e.clipboardOK && ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		e.pasteQueue = append(e.pasteQueue, clipboard.Read(clipboard.FmtText)...)
	}
	if len(e.pasteQueue) > 0 {
		e.machine.Keyboard.Press(e.pasteQueue[0])
		e.pasteQueue = e.pasteQueue[1:]
	}

	e.handleFunctionKeys()

	if e.host.Paused {
		return nil
	}
	for i := 0; i < e.cyclesPerTic; {
		n := e.machine.Step()
		if n == 0 { // halted with no interrupt to take
			break
		}
		i += n
	}
	return nil
}

// handleFunctionKeys maps F1-F9 to the host commands documented for the
// monitor's function-key row.
func (e *EbitenFrontEnd) handleFunctionKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		e.host.InjectRST1()
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		e.host.InjectRST2()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		e.host.ResetCPU()
	case inpututil.IsKeyJustPressed(ebiten.KeyF4):
		e.host.ForceHalt()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		e.host.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyF6):
		e.statusLine = e.host.Status()
		fmt.Println(e.statusLine)
	case inpututil.IsKeyJustPressed(ebiten.KeyF7):
		e.host.EraseEPROM()
	case inpututil.IsKeyJustPressed(ebiten.KeyF8):
		if err := e.host.SaveEPROM("eprom.bin"); err != nil {
			fmt.Println("eprom save failed:", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		fmt.Println(e.host.ExitMessage())
		os.Exit(0)
	}
}

func (e *EbitenFrontEnd) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	bytes := e.machine.Mem.Bytes()
	for row := 0; row < vduRows; row++ {
		for col := 0; col < vduCols; col++ {
			ch := bytes[e.machine.VDU.CellAddr(row, col)]
			if ch < 0x20 || ch > 0x7E {
				continue
			}
			x := col * glyphW
			y := (row+1)*glyphH - 3
			text.Draw(screen, string(ch), e.face, x, y, color.RGBA{0x30, 0xE0, 0x30, 0xFF})
		}
	}

	for i := 0; i < 8; i++ {
		c := color.RGBA{0x20, 0x20, 0x20, 0xFF}
		if e.machine.LED.Lit(i) {
			c = color.RGBA{0xE0, 0x20, 0x20, 0xFF}
		}
		x := i * 16
		y := vduRows*glyphH + 4
		for dx := 0; dx < 12; dx++ {
			for dy := 0; dy < 12; dy++ {
				screen.Set(x+dx, y+dy, c)
			}
		}
	}
}

func (e *EbitenFrontEnd) Layout(_, _ int) (int, int) {
	return vduCols * glyphW, vduRows*glyphH + ledBar
}

// Run opens the window and blocks until it is closed.
func (e *EbitenFrontEnd) Run() error {
	w, h := e.Layout(0, 0)
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("Transam Triton")
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(framesPerSecond)
	if err := ebiten.RunGame(e); err != nil {
		return fmt.Errorf("ebiten: %w", err)
	}
	return nil
}

// ebitenKeyToASCII maps the handful of ebiten keys the Triton's keyboard
// encoder understands to their ASCII codes.
func ebitenKeyToASCII(key ebiten.Key) (byte, bool) {
	switch {
	case key >= ebiten.KeyA && key <= ebiten.KeyZ:
		return byte(key-ebiten.KeyA) + 'A', true
	case key >= ebiten.Key0 && key <= ebiten.Key9:
		return byte(key-ebiten.Key0) + '0', true
	}
	switch key {
	case ebiten.KeyEnter:
		return '\r', true
	case ebiten.KeySpace:
		return ' ', true
	case ebiten.KeyBackspace:
		return 0x08, true
	case ebiten.KeyEscape:
		return 0x1B, true
	}
	return 0, false
}
