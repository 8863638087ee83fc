// serial_device.go - raw termios setup for the "-t DEVICE" serial output.
//
// The reference compiler's startio()/finishio() put the tty into raw,
// 300 baud, 8 data bits, odd parity, 2 stop bits mode before streaming the
// assembled program out over it, then restored the previous settings
// afterwards. golang.org/x/sys/unix exposes the same termios ioctls; the
// ioctl numbers and termios layout are Linux-specific.

//go:build linux

package assembler

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenSerialDevice opens path (typically a tty special file) and configures
// it to match the Triton's cassette/serial input timing, returning the file
// together with a restore function that puts the original termios back.
func OpenSerialDevice(path string) (*os.File, func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}

	fd := int(f.Fd())
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("get termios on %q: %w", path, err)
	}

	t := *saved
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.B300
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	t.Ispeed = unix.B300
	t.Ospeed = unix.B300

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &t); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("set termios on %q: %w", path, err)
	}

	restore := func() {
		unix.IoctlSetTermios(fd, unix.TCSETS, saved)
		f.Close()
	}
	return f, restore, nil
}
