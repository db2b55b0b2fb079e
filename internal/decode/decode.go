// Package decode exposes a uniform Decoder capability across WAV, FLAC
// and AIFF sources. Callers never branch on format; Open picks the
// concrete implementation and returns the common interface.
package decode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SourceKind identifies the container a Decoder was opened from.
type SourceKind int

const (
	KindWAV SourceKind = iota
	KindFLAC
	KindAIFF
)

func (k SourceKind) String() string {
	switch k {
	case KindWAV:
		return "wav"
	case KindFLAC:
		return "flac"
	case KindAIFF:
		return "aiff"
	default:
		return "unknown"
	}
}

// Info describes the static properties of a decoded stream.
type Info struct {
	SampleRate   int
	Channels     int
	TotalFrames  uint64 // may be 0 for streaming sources
	BitDepthHint int
	SourceKind   SourceKind
}

// Frames is interleaved f32 audio, L,R,L,R,... for stereo or mono per
// frame for single-channel sources. Len(Samples) == frames*channels.
type Frames struct {
	Samples  []float32
	Channels int
}

// NumFrames returns how many frames Samples holds.
func (f Frames) NumFrames() int {
	if f.Channels == 0 {
		return 0
	}
	return len(f.Samples) / f.Channels
}

// Decoder is exclusively owned by whoever pulls it: no two callers
// may pull or seek the same Decoder concurrently.
type Decoder interface {
	Info() Info
	// PullFrames returns up to n frames, or fewer at end of stream. A
	// zero-length result with a nil error means try again (rare); a
	// zero-length result with ErrEndOfStream means done.
	PullFrames(n int) (Frames, error)
	Seek(frame uint64) error
	Position() uint64
	Close() error
}

// Open sniffs magic bytes, falling back to extension, and returns the
// matching concrete Decoder.
func Open(path string) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode: open %s: %w", path, ErrIoError)
	}

	head := make([]byte, 12)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: seek %s: %w", path, ErrIoError)
	}

	switch detectKind(head, path) {
	case KindWAV:
		return openWAV(f, path)
	case KindFLAC:
		return openFLAC(f, path)
	case KindAIFF:
		return openAIFF(f, path)
	default:
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

// Probe opens a decoder just long enough to read its header, then
// closes it. Used by the browser to show duration without holding a
// playback-capable decoder open.
func Probe(path string) (Info, error) {
	d, err := Open(path)
	if err != nil {
		return Info{}, err
	}
	defer d.Close()
	return d.Info(), nil
}

func detectKind(head []byte, path string) SourceKind {
	switch {
	case bytes.HasPrefix(head, []byte("RIFF")) && len(head) >= 12 && bytes.Equal(head[8:12], []byte("WAVE")):
		return KindWAV
	case bytes.HasPrefix(head, []byte("fLaC")):
		return KindFLAC
	case bytes.HasPrefix(head, []byte("FORM")) && len(head) >= 12 && bytes.Equal(head[8:12], []byte("AIFF")):
		return KindAIFF
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return KindWAV
	case ".flac":
		return KindFLAC
	case ".aiff", ".aif":
		return KindAIFF
	}
	return -1
}

// Normalize converts an integer PCM sample at the given bit depth to
// f32 in [-1,1], per the full-scale constants in spec.md §4.1.
func Normalize(sample int64, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(sample-128) / 128
	case 16:
		return float32(sample) / 32768
	case 24:
		return float32(sample) / 8388608
	case 32:
		return float32(sample) / 2147483648
	default:
		return float32(sample) / 32768
	}
}
