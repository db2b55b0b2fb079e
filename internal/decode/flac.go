package decode

import (
	"fmt"
	"os"

	"github.com/mewkiz/flac"
)

// flacDecoder wraps github.com/mewkiz/flac. Seeking uses the stream's
// seek table when present; mewkiz/flac falls back to a linear scan
// internally when no seek point is close enough, matching spec.md
// §4.1's "seek table or a linear scan fallback".
type flacDecoder struct {
	f        *os.File
	stream   *flac.Stream
	info     Info
	pos      uint64
	pending  []float32 // leftover decoded samples not yet returned
	pendingN int        // reset by Seek; PullFrames does not update it
}

func openFLAC(f *os.File, path string) (Decoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrCorruptHeader)
	}
	channels := int(stream.Info.NChannels)
	if channels != 1 && channels != 2 {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrUnsupportedFormat)
	}
	return &flacDecoder{
		f:      f,
		stream: stream,
		info: Info{
			SampleRate:   int(stream.Info.SampleRate),
			Channels:     channels,
			TotalFrames:  stream.Info.NSamples,
			BitDepthHint: int(stream.Info.BitsPerSample),
			SourceKind:   KindFLAC,
		},
	}, nil
}

func (d *flacDecoder) Info() Info       { return d.info }
func (d *flacDecoder) Position() uint64 { return d.pos }

func (d *flacDecoder) Close() error {
	d.stream.Close()
	return d.f.Close()
}

func (d *flacDecoder) Seek(frame uint64) error {
	if d.info.TotalFrames > 0 && frame > d.info.TotalFrames {
		return fmt.Errorf("decode: flac seek %d: %w", frame, ErrSeekOutOfRange)
	}
	actual, err := d.stream.Seek(frame)
	if err != nil {
		return fmt.Errorf("decode: flac seek: %w", ErrIoError)
	}
	d.pos = actual
	d.pending = nil
	d.pendingN = 0
	return nil
}

func (d *flacDecoder) PullFrames(n int) (Frames, error) {
	if n <= 0 {
		return Frames{Channels: d.info.Channels}, nil
	}
	out := make([]float32, 0, n*d.info.Channels)

	// Drain anything left over from a previous frame's subframes.
	if len(d.pending) > 0 {
		take := n * d.info.Channels
		if take > len(d.pending) {
			take = len(d.pending)
		}
		out = append(out, d.pending[:take]...)
		d.pending = d.pending[take:]
	}

	for len(out) < n*d.info.Channels {
		fr, err := d.stream.ParseNext()
		if err != nil {
			if len(out) > 0 {
				break
			}
			return Frames{Channels: d.info.Channels}, ErrEndOfStream
		}
		blockSize := int(fr.BlockSize)
		scale := float32(int(1) << (uint(d.info.BitDepthHint) - 1))
		decoded := make([]float32, blockSize*d.info.Channels)
		for c := 0; c < d.info.Channels && c < len(fr.Subframes); c++ {
			sub := fr.Subframes[c]
			for i := 0; i < blockSize && i < len(sub.Samples); i++ {
				decoded[i*d.info.Channels+c] = float32(sub.Samples[i]) / scale
			}
		}
		need := n*d.info.Channels - len(out)
		if need >= len(decoded) {
			out = append(out, decoded...)
		} else {
			out = append(out, decoded[:need]...)
			d.pending = append(d.pending, decoded[need:]...)
		}
	}

	frames := len(out) / d.info.Channels
	d.pos += uint64(frames)
	return Frames{Samples: out, Channels: d.info.Channels}, nil
}
