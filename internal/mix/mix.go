// Package mix sums up to three decode.Decoder tracks into a single
// stereo output, applying per-track gain and equal-power pan.
package mix

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/zim-audio/zim/internal/decode"
)

const (
	MaxTracks  = 3
	MinGain    = 0.0
	MaxGain    = 2.0
	MinPan     = -1.0
	MaxPan     = 1.0
	DefaultGain = 1.0
	DefaultPan  = 0.0
)

// Track couples a decoder with its gain/pan. Gain and Pan are clamped
// to their documented ranges at construction (spec.md invariant 7).
type Track struct {
	Decoder decode.Decoder
	Gain    float64
	Pan     float64

	eos bool
}

// NewTrack clamps gain/pan into range and returns a Track.
func NewTrack(d decode.Decoder, gain, pan float64) *Track {
	return &Track{
		Decoder: d,
		Gain:    clamp(gain, MinGain, MaxGain),
		Pan:     clamp(pan, MinPan, MaxPan),
	}
}

func (t *Track) panGains() (left, right float64) {
	angle := (t.Pan + 1) * math.Pi / 4
	return math.Cos(angle), math.Sin(angle)
}

// Mixer sums 1..MaxTracks tracks sharing a single output sample rate,
// taken from the first track; later tracks must match.
type Mixer struct {
	tracks     []*Track
	sampleRate int
	scratch    []float32
}

// NewMixer builds a Mixer from 1..3 tracks. All tracks must share the
// first track's sample rate.
func NewMixer(tracks ...*Track) (*Mixer, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("mix: %w", ErrNoTracks)
	}
	if len(tracks) > MaxTracks {
		return nil, fmt.Errorf("mix: %w", ErrTooManyTracks)
	}
	sr := tracks[0].Decoder.Info().SampleRate
	for _, t := range tracks[1:] {
		if t.Decoder.Info().SampleRate != sr {
			return nil, fmt.Errorf("mix: %w", ErrSampleRateMismatch)
		}
	}
	return &Mixer{tracks: tracks, sampleRate: sr}, nil
}

// SampleRate and Channels implement the audio.Source shape so a Mixer
// plugs directly into an output device the way the pack's decoders
// plug into a resampler chain.
func (m *Mixer) SampleRate() int { return m.sampleRate }
func (m *Mixer) Channels() int   { return 2 }

// TrackCount reports how many tracks are loaded; the player disables
// marks, loop and save when this exceeds 1, while seeking stays
// available (spec.md §9 open question).
func (m *Mixer) TrackCount() int { return len(m.tracks) }

// PullFrames mixes n stereo frames. The second return is true once
// every track has reached end of stream.
func (m *Mixer) PullFrames(n int) ([]float32, bool) {
	out := make([]float32, n*2)
	allEOS := true
	for _, t := range m.tracks {
		if t.eos {
			continue
		}
		left, right := t.panGains()
		frames, err := t.Decoder.PullFrames(n)
		if err != nil {
			// Per spec.md §7/§9: decode errors downgrade this track to
			// silence rather than panicking or surfacing upward.
			t.eos = true
			continue
		}
		allEOS = false
		ch := frames.Channels
		got := frames.NumFrames()
		for i := 0; i < got && i < n; i++ {
			var sL, sR float32
			if ch == 1 {
				sL = frames.Samples[i]
				sR = sL
			} else {
				sL = frames.Samples[i*ch]
				sR = frames.Samples[i*ch+1]
			}
			out[i*2] += float32(t.Gain*left) * sL
			out[i*2+1] += float32(t.Gain*right) * sR
		}
		if got < n {
			t.eos = true
		}
	}
	for i := range out {
		out[i] = clampF32(out[i], -1, 1)
	}
	if allEOS {
		return out, true
	}
	return out, false
}

// ReadSamples implements the io.Reader-shaped audio.Source contract
// (as in ik5-audpbx/audio.Source) for compatibility with a streaming
// output device: dst holds interleaved stereo float32.
func (m *Mixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, fmt.Errorf("mix: %w", ErrOddDstSize)
	}
	n := len(dst) / 2
	out, eos := m.PullFrames(n)
	copy(dst, out)
	if eos {
		return len(out), io.EOF
	}
	return len(out), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseGains parses a comma-separated CLI gain list, defaulting any
// missing entries to DefaultGain. Invalid values fail before the
// mixer is built, per spec.md §4.2.
func ParseGains(s string, want int) ([]float64, error) {
	return parseFloatList(s, want, DefaultGain, MinGain, MaxGain)
}

// ParsePans parses a comma-separated CLI pan list, defaulting missing
// entries to DefaultPan.
func ParsePans(s string, want int) ([]float64, error) {
	return parseFloatList(s, want, DefaultPan, MinPan, MaxPan)
}

func parseFloatList(s string, want int, def, lo, hi float64) ([]float64, error) {
	out := make([]float64, want)
	for i := range out {
		out[i] = def
	}
	if s == "" {
		return out, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > want {
		return nil, fmt.Errorf("mix: %w", ErrTooManyValues)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("mix: parsing %q: %w", p, ErrInvalidValue)
		}
		out[i] = clamp(v, lo, hi)
	}
	return out, nil
}
