//go:build !headless

// audio_backend_oto.go - plays the one-bit speaker's square wave through oto.

package main

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const speakerSampleRate = 44100

// OscillatorPlayer samples an Oscillator's level every output frame and
// emits a square wave at full amplitude when the level is high, silence
// otherwise — matching a one-bit speaker driven directly by the port 7
// output latch rather than a tone generator with its own frequency state.
type OscillatorPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	osc    atomic.Pointer[Oscillator]

	mu      sync.Mutex
	started bool
}

func NewOscillatorPlayer() (*OscillatorPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   speakerSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	op := &OscillatorPlayer{ctx: ctx}
	op.player = ctx.NewPlayer(op)
	return op, nil
}

func (op *OscillatorPlayer) Attach(osc *Oscillator) {
	op.osc.Store(osc)
}

// Read implements io.Reader for oto: one float32 sample per 4 bytes, either
// full amplitude or silence depending on the oscillator's current level.
func (op *OscillatorPlayer) Read(p []byte) (int, error) {
	osc := op.osc.Load()
	level := osc != nil && osc.Level()

	var sample float32
	if level {
		sample = 0.3
	}
	bits := float32ToLEBytes(sample)
	for i := 0; i+4 <= len(p); i += 4 {
		copy(p[i:i+4], bits[:])
	}
	return len(p) - len(p)%4, nil
}

func float32ToLEBytes(f float32) [4]byte {
	bits := math.Float32bits(f)
	return [4]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func (op *OscillatorPlayer) Start() {
	op.mu.Lock()
	defer op.mu.Unlock()
	if !op.started {
		op.player.Play()
		op.started = true
	}
}

func (op *OscillatorPlayer) Stop() {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.started {
		op.player.Close()
		op.started = false
	}
}
