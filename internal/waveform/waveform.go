// Package waveform implements the ring buffer feeding the oscilloscope
// canvas: recent mono samples, downsampled or stretched to a requested
// display width.
package waveform

// Ring is a fixed-capacity ring buffer of mono f32 samples. Stereo
// input is averaged to mono on Push, per spec.md §3.
type Ring struct {
	buf    []float32
	write  int
	filled int
}

const MinCapacity = 4096

// New creates a Ring of the given capacity, raised to MinCapacity if
// smaller.
func New(capacity int) *Ring {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &Ring{buf: make([]float32, capacity)}
}

// Push appends mono samples, averaging stereo pairs first if channels
// is 2. Wraps on overflow.
func (r *Ring) Push(samples []float32, channels int) {
	if channels <= 1 {
		for _, s := range samples {
			r.push1(s)
		}
		return
	}
	for i := 0; i+channels <= len(samples); i += channels {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i+c]
		}
		r.push1(sum / float32(channels))
	}
}

func (r *Ring) push1(s float32) {
	r.buf[r.write] = s
	r.write = (r.write + 1) % len(r.buf)
	if r.filled < len(r.buf) {
		r.filled++
	}
}

// Clear empties the ring without reallocating.
func (r *Ring) Clear() {
	r.write = 0
	r.filled = 0
}

// ordered returns the buffered samples oldest-first.
func (r *Ring) ordered() []float32 {
	if r.filled < len(r.buf) {
		return append([]float32(nil), r.buf[:r.filled]...)
	}
	out := make([]float32, len(r.buf))
	copy(out, r.buf[r.write:])
	copy(out[len(r.buf)-r.write:], r.buf[:r.write])
	return out
}

// ReadDownsampled always returns exactly n samples (spec.md invariant
// 5): zero-padded on the left when count <= n, or reduced by
// per-bucket max(|s|)*sign(mean) when count > n, preserving shape.
func (r *Ring) ReadDownsampled(n int) []float32 {
	out := make([]float32, n)
	if n == 0 {
		return out
	}
	data := r.ordered()
	count := len(data)

	switch {
	case count == 0:
		return out // all zero
	case count <= n:
		if count == n {
			copy(out, data)
			return out
		}
		// Zero-pad left, then fill the last count cells with the samples
		// (stretchLinear over equal lengths copies them unchanged) —
		// keeps the most recent samples right-aligned.
		pad := n - count
		for i := 0; i < pad; i++ {
			out[i] = 0
		}
		stretchLinear(data, out[pad:])
		return out
	default:
		bucket := count / n
		if bucket < 1 {
			bucket = 1
		}
		for i := 0; i < n; i++ {
			start := i * bucket
			end := start + bucket
			if i == n-1 || end > count {
				end = count
			}
			out[i] = bucketValue(data[start:end])
		}
		return out
	}
}

func stretchLinear(src, dst []float32) {
	if len(dst) == 0 {
		return
	}
	if len(src) == 1 {
		for i := range dst {
			dst[i] = src[0]
		}
		return
	}
	for i := range dst {
		pos := float64(i) * float64(len(src)-1) / float64(len(dst)-1)
		if len(dst) == 1 {
			pos = 0
		}
		lo := int(pos)
		hi := lo + 1
		if hi >= len(src) {
			hi = len(src) - 1
		}
		frac := float32(pos - float64(lo))
		dst[i] = src[lo]*(1-frac) + src[hi]*frac
	}
}

func bucketValue(bucket []float32) float32 {
	if len(bucket) == 0 {
		return 0
	}
	var maxAbs float32
	var sum float32
	for _, s := range bucket {
		if abs := absf(s); abs > maxAbs {
			maxAbs = abs
		}
		sum += s
	}
	mean := sum / float32(len(bucket))
	if mean < 0 {
		return -maxAbs
	}
	return maxAbs
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
