// Package output wires the mixer into a real audio device via
// hajimehoshi/oto, and is where the audio thread's only
// UI-thread-visible side effect happens: publishing mixed frames to
// the sample tap for the waveform/meter pipeline (spec.md §5).
package output

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hajimehoshi/oto/v2"

	"github.com/zim-audio/zim/internal/mix"
	"github.com/zim-audio/zim/internal/tap"
)

const bitDepthBytes = 2 // 16-bit PCM, oto's native format

// Sink owns the oto context/player pair and feeds the UI-visible tap
// from inside oto's internal writer goroutine — this is the "audio
// thread" spec.md §5 refers to.
type Sink struct {
	ctx    *oto.Context
	player oto.Player
	mixer  *mix.Mixer
	tap    *tap.Tap

	position atomic.Uint64 // frames played, read by the UI thread
	scratch  []tap.Frame   // reused across Read calls; grown only when a larger buffer is requested
}

// New opens an oto context matching the mixer's format and starts a
// player reading from the mixer. The player is created paused; call
// Play to start audio.
func New(ctx context.Context, mixer *mix.Mixer, t *tap.Tap) (*Sink, error) {
	otoCtx, ready, err := oto.NewContext(mixer.SampleRate(), mixer.Channels(), bitDepthBytes)
	if err != nil {
		return nil, fmt.Errorf("output: new context: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s := &Sink{ctx: otoCtx, mixer: mixer, tap: t}
	s.player = otoCtx.NewPlayer(s)
	return s, nil
}

// Play resumes playback.
func (s *Sink) Play() { s.player.Play() }

// Pause stops the output device from pulling further frames. The
// mixer's decoders are left positioned where they stopped.
func (s *Sink) Pause() { s.player.Pause() }

// IsPlaying reports whether the device is actively pulling frames.
func (s *Sink) IsPlaying() bool { return s.player.IsPlaying() }

// Position returns the number of stereo frames written to the device
// so far, for the UI thread to derive playback position without
// touching the mixer or decoders directly.
func (s *Sink) Position() uint64 { return s.position.Load() }

// Close releases the player and context.
func (s *Sink) Close() error {
	if s.player != nil {
		s.player.Close()
	}
	if s.ctx != nil {
		return s.ctx.Suspend()
	}
	return nil
}

// Read implements io.Reader for oto's internal player goroutine: pull
// frames from the mixer, publish them to the tap, and serialize to
// 16-bit little-endian interleaved stereo bytes.
func (s *Sink) Read(p []byte) (int, error) {
	frameCap := len(p) / (bitDepthBytes * 2)
	if frameCap == 0 {
		return 0, nil
	}

	out, eos := s.mixer.PullFrames(frameCap)
	n := len(out) / 2
	if cap(s.scratch) < n {
		s.scratch = make([]tap.Frame, n)
	}
	frames := s.scratch[:n]
	for i := range frames {
		frames[i] = tap.Frame{out[i*2], out[i*2+1]}
	}
	s.tap.Push(frames)
	s.position.Add(uint64(len(frames)))

	written := 0
	for _, f := range frames {
		written += putInt16LE(p[written:], f[0])
		written += putInt16LE(p[written:], f[1])
	}
	if eos {
		return written, nil // oto treats a short/zero read as silence, not EOF
	}
	return written, nil
}

func putInt16LE(p []byte, s float32) int {
	v := int32(s * 32767)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	p[0] = byte(v)
	p[1] = byte(v >> 8)
	return 2
}
