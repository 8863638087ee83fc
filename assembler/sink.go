// sink.go - output destinations for assembled bytes.

package assembler

import (
	"io"
	"os"
	"time"
)

// ByteSink receives each flushed run of assembled bytes as it is produced.
// An assembly run can fan its output out to several sinks at once (file,
// stdout, serial), matching the "-o and/or -p and/or -t" combination the
// original command line allowed.
type ByteSink interface {
	Write(b []byte) error
}

// WriterSink adapts a plain io.Writer (a file or stdout) into a ByteSink.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Write(b []byte) error {
	_, err := s.W.Write(b)
	return err
}

// MemorySink accumulates every byte written, for feeding an assembled
// program directly into emulator memory without a file round trip.
type MemorySink struct {
	Bytes []byte
}

func (s *MemorySink) Write(b []byte) error {
	s.Bytes = append(s.Bytes, b...)
	return nil
}

// SerialSink writes each byte individually with a fixed inter-byte delay,
// modeling the 300 baud transmission rate the real Triton's cassette/serial
// input expects: at 300 baud, roughly 3.3ms per bit times 12 bits per 8O2
// frame (start, 8 data, parity, 2 stop) is 40ms, which the reference
// compiler's fixed 50ms-per-byte pacing covers.
type SerialSink struct {
	W     io.Writer
	Delay time.Duration
}

func NewSerialSink(w io.Writer) *SerialSink {
	return &SerialSink{W: w, Delay: 50 * time.Millisecond}
}

func (s *SerialSink) Write(b []byte) error {
	for _, c := range b {
		if _, err := s.W.Write([]byte{c}); err != nil {
			return err
		}
		time.Sleep(s.Delay)
	}
	return nil
}

// OpenFileSink opens path for writing and wraps it as a WriterSink. The
// caller is responsible for closing the returned file once assembly
// finishes.
func OpenFileSink(path string) (*os.File, ByteSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, WriterSink{W: f}, nil
}
