package mix

import (
	"github.com/zim-audio/zim/internal/decode"
)

// mockDecoder is a test helper implementing decode.Decoder with a
// constant sample value per channel, mirroring the mock sources in
// ik5-audpbx/audio/mock_test.go.
type mockDecoder struct {
	sampleRate int
	channels   int
	total      uint64
	pos        uint64
	value      float32
}

func newConstantDecoder(sampleRate, channels int, total uint64, value float32) *mockDecoder {
	return &mockDecoder{sampleRate: sampleRate, channels: channels, total: total, value: value}
}

func (d *mockDecoder) Info() decode.Info {
	return decode.Info{SampleRate: d.sampleRate, Channels: d.channels, TotalFrames: d.total}
}

func (d *mockDecoder) Position() uint64 { return d.pos }
func (d *mockDecoder) Close() error     { return nil }

func (d *mockDecoder) Seek(frame uint64) error {
	if frame > d.total {
		return decode.ErrSeekOutOfRange
	}
	d.pos = frame
	return nil
}

func (d *mockDecoder) PullFrames(n int) (decode.Frames, error) {
	remaining := d.total - d.pos
	if remaining == 0 {
		return decode.Frames{Channels: d.channels}, decode.ErrEndOfStream
	}
	take := uint64(n)
	if take > remaining {
		take = remaining
	}
	samples := make([]float32, int(take)*d.channels)
	for i := range samples {
		samples[i] = d.value
	}
	d.pos += take
	return decode.Frames{Samples: samples, Channels: d.channels}, nil
}
