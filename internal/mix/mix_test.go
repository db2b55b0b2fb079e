package mix

import (
	"math"
	"testing"
)

func TestTrackClampsGainAndPan(t *testing.T) {
	t.Parallel()

	tr := NewTrack(newConstantDecoder(44100, 2, 100, 0.1), 5.0, -9.0)
	if tr.Gain != MaxGain {
		t.Errorf("Gain = %v, want %v", tr.Gain, MaxGain)
	}
	if tr.Pan != MinPan {
		t.Errorf("Pan = %v, want %v", tr.Pan, MinPan)
	}
}

func TestMixerRejectsEmptyOrTooMany(t *testing.T) {
	t.Parallel()

	if _, err := NewMixer(); err == nil {
		t.Error("NewMixer() with no tracks: want error, got nil")
	}

	tracks := make([]*Track, 4)
	for i := range tracks {
		tracks[i] = NewTrack(newConstantDecoder(44100, 2, 100, 0), 1, 0)
	}
	if _, err := NewMixer(tracks...); err == nil {
		t.Error("NewMixer() with 4 tracks: want error, got nil")
	}
}

func TestMixerRejectsSampleRateMismatch(t *testing.T) {
	t.Parallel()

	a := NewTrack(newConstantDecoder(44100, 2, 100, 0), 1, 0)
	b := NewTrack(newConstantDecoder(48000, 2, 100, 0), 1, 0)
	if _, err := NewMixer(a, b); err == nil {
		t.Error("NewMixer() with mismatched sample rates: want error, got nil")
	}
}

func TestMixerCenterPanPreservesUnityOnBothChannels(t *testing.T) {
	t.Parallel()

	tr := NewTrack(newConstantDecoder(44100, 1, 100, 1.0), 1.0, 0.0)
	m, err := NewMixer(tr)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	out, _ := m.PullFrames(1)
	want := float32(math.Cos(math.Pi / 4))
	if math.Abs(float64(out[0]-want)) > 1e-4 || math.Abs(float64(out[1]-want)) > 1e-4 {
		t.Errorf("out = %v, want [%v %v]", out, want, want)
	}
	if math.Abs(float64(out[0]-out[1])) > 1e-6 {
		t.Errorf("centered pan should be equal on both channels, got L=%v R=%v", out[0], out[1])
	}
}

func TestMixerHardPanSeparatesTracks(t *testing.T) {
	t.Parallel()

	a := NewTrack(newConstantDecoder(44100, 1, 100, 1.0), 0.5, -1.0)
	b := NewTrack(newConstantDecoder(44100, 1, 100, 1.0), 0.5, 1.0)
	m, err := NewMixer(a, b)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	// a (gain 0.5, pan -1) feeds only L and b (gain 0.5, pan +1) feeds
	// only R, so each channel carries exactly 0.5.
	out, _ := m.PullFrames(1)
	if math.Abs(float64(out[1])-0.5) > 0.01 {
		t.Errorf("left-panned track leaked into right channel: R = %v, want 0.5", out[1])
	}
	if math.Abs(float64(out[0])-0.5) > 0.01 {
		t.Errorf("right-panned track leaked into left channel: L = %v, want 0.5", out[0])
	}
}

func TestMixerOutputClampedToUnitRange(t *testing.T) {
	t.Parallel()

	a := NewTrack(newConstantDecoder(44100, 2, 100, 1.0), 2.0, 0.0)
	b := NewTrack(newConstantDecoder(44100, 2, 100, 1.0), 2.0, 0.0)
	m, err := NewMixer(a, b)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	out, _ := m.PullFrames(4)
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Errorf("out[%d] = %v, outside [-1,1]", i, v)
		}
	}
}

func TestMixerReportsCompletionWhenAllTracksEOS(t *testing.T) {
	t.Parallel()

	tr := NewTrack(newConstantDecoder(44100, 2, 2, 0.1), 1, 0)
	m, err := NewMixer(tr)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	_, eos := m.PullFrames(2)
	if eos {
		t.Error("first pull exhausting the source reported eos alongside valid audio; want eos on the following pull")
	}
	_, eos = m.PullFrames(2)
	if !eos {
		t.Error("PullFrames() after exhausting the only track: want eos=true")
	}
}

func TestParseGainsDefaultsAndClamps(t *testing.T) {
	t.Parallel()

	got, err := ParseGains("", 3)
	if err != nil {
		t.Fatalf("ParseGains() error = %v", err)
	}
	for _, g := range got {
		if g != DefaultGain {
			t.Errorf("got %v, want default %v", g, DefaultGain)
		}
	}

	got, err = ParseGains("0.5,9.0", 3)
	if err != nil {
		t.Fatalf("ParseGains() error = %v", err)
	}
	if got[0] != 0.5 || got[1] != MaxGain || got[2] != DefaultGain {
		t.Errorf("got %v, want [0.5 %v %v]", got, MaxGain, DefaultGain)
	}
}

func TestParseGainsRejectsInvalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseGains("oops", 1); err == nil {
		t.Error("ParseGains(\"oops\") want error, got nil")
	}
	if _, err := ParseGains("1,2,3,4", 1); err == nil {
		t.Error("ParseGains() with too many values: want error, got nil")
	}
}
