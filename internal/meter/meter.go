// Package meter computes per-channel RMS input level and a
// slew-limited output level suitable for driving LED meters.
package meter

import "math"

// Channel holds one meter channel's state, per spec.md §3.
type Channel struct {
	InputLevel  float64
	OutputLevel float64
	Decay       float64
}

// DecayFactor is the per-tick multiplicative decay applied to
// OutputLevel while playing (spec.md §3).
const DecayFactor = 0.99

// LimitThreshold is the |Δ| above which IsLimiting reports true.
const LimitThreshold = 0.01

// IsLimiting reports whether this tick's level change was abrupt
// enough to be considered limiting.
func (c *Channel) IsLimiting() bool {
	return math.Abs(c.Decay) > LimitThreshold
}

func (c *Channel) tick(inputLevel float64, playing bool) {
	if !playing {
		c.InputLevel = 0
		c.OutputLevel = 0
		c.Decay = 0
		return
	}
	c.InputLevel = clamp01(inputLevel)
	prev := c.OutputLevel
	next := math.Max(c.InputLevel, c.OutputLevel*DecayFactor)
	c.OutputLevel = clamp01(next)
	c.Decay = c.OutputLevel - prev
}

// Engine holds the stereo pair of meter channels.
type Engine struct {
	L, R Channel
}

// Tick consumes one tick's worth of drained frames and updates both
// channels' levels, per spec.md §4.5.
func (e *Engine) Tick(frames [][2]float32, playing bool) {
	if !playing || len(frames) == 0 {
		e.L.tick(0, playing)
		e.R.tick(0, playing)
		return
	}
	var sumL, sumR float64
	for _, f := range frames {
		sumL += float64(f[0]) * float64(f[0])
		sumR += float64(f[1]) * float64(f[1])
	}
	n := float64(len(frames))
	rmsL := math.Sqrt(sumL / n)
	rmsR := math.Sqrt(sumR / n)
	e.L.tick(2*rmsL, playing)
	e.R.tick(2*rmsR, playing)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
