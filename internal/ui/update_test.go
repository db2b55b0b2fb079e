package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/zim-audio/zim/internal/browse"
	"github.com/zim-audio/zim/internal/config"
	"github.com/zim-audio/zim/internal/decode"
	"github.com/zim-audio/zim/internal/meter"
	"github.com/zim-audio/zim/internal/mix"
	"github.com/zim-audio/zim/internal/player"
	"github.com/zim-audio/zim/internal/tap"
	"github.com/zim-audio/zim/internal/waveform"
	"github.com/zim-audio/zim/internal/wavwrite"
)

func newTestModel() *Model {
	return &Model{
		state:       player.New(),
		tap:         tap.New(64),
		wave:        waveform.New(waveform.MinCapacity),
		meter:       &meter.Engine{},
		cfg:         &config.Config{},
		browseList:  list.New(nil, list.NewDefaultDelegate(), 40, 12),
		sidecarView: viewport.New(40, 6),
	}
}

func TestTickDrainsTapIntoWaveformAndMeter(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	m.state.Play()
	m.tap.Push([]tap.Frame{{0.5, 0.5}, {0.8, 0.8}})

	m.tick()

	if m.meter.L.OutputLevel == 0 {
		t.Error("tick() left meter level at zero after playing frames")
	}
}

func TestTickWithNoFramesDecaysMeterWhilePlaying(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	m.state.Play()
	m.tap.Push([]tap.Frame{{1, 1}})
	m.tick()
	level1 := m.meter.L.OutputLevel

	m.tick() // no new frames pushed
	level2 := m.meter.L.OutputLevel

	if level2 > level1 {
		t.Errorf("level grew with no input: %v -> %v", level1, level2)
	}
}

func TestTickChecksLoopBoundary(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	m.state.DurationSeconds = 10
	m.state.Play()
	markIn, markOut := float32(1), float32(2)
	m.state.MarkIn = &markIn
	m.state.MarkOut = &markOut
	m.state.LoopActive = true
	m.state.PositionSeconds = 2.5

	m.tick()

	if m.state.PositionSeconds != markIn {
		t.Errorf("PositionSeconds = %v, want loop to seek back to %v", m.state.PositionSeconds, markIn)
	}
}

func TestNavigateSaveDirEntersSubdirAndGoesBackUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	m := newTestModel()
	m.save.dir = root
	entries, err := listDirEntries(root)
	if err != nil {
		t.Fatalf("listDirEntries() error = %v", err)
	}
	m.save.dirEntries = entries

	idx := -1
	for i, e := range entries {
		if e == "sub/" {
			idx = i
		}
	}
	if idx == -1 {
		t.Fatalf("dirEntries = %v, want to find \"sub/\"", entries)
	}
	m.save.dirSelected = idx

	m.navigateSaveDir()
	if m.save.dir != sub {
		t.Fatalf("dir after navigating into sub/ = %q, want %q", m.save.dir, sub)
	}
	if len(m.save.dirEntries) == 0 || m.save.dirEntries[0] != ".." {
		t.Fatalf("dirEntries in a non-root dir = %v, want leading \"..\"", m.save.dirEntries)
	}

	m.save.dirSelected = 0
	m.navigateSaveDir()
	if m.save.dir != root {
		t.Errorf("dir after \"..\" = %q, want %q", m.save.dir, root)
	}
}

func TestConfirmSaveDialogUsesNavigatedDirectoryAndRoundsMarks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "source.wav")
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = int16(i)
	}
	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := wavwrite.Write(f, 8000, 1, samples); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sub := filepath.Join(dir, "exports")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	d, err := decode.Open(src)
	if err != nil {
		t.Fatalf("decode.Open() error = %v", err)
	}
	track := mix.NewTrack(d, 1.0, 0.0)
	mixer, err := mix.NewMixer(track)
	if err != nil {
		t.Fatalf("mix.NewMixer() error = %v", err)
	}

	m := newTestModel()
	m.sourcePath = src
	m.mixer = mixer
	m.decoders = []decode.Decoder{d}
	m.save.dir = sub
	m.save.filename.SetValue("clip.wav")
	// 0.0001*8000=0.8 and 0.0111*8000=88.8: truncation would give frames
	// 0 and 88, rounding (spec.md's rule) gives 1 and 89.
	markIn, markOut := float32(0.0001), float32(0.0111)
	m.state.MarkIn = &markIn
	m.state.MarkOut = &markOut

	cmd := m.confirmSaveDialog()
	msg := cmd()
	done, ok := msg.(msgExportDone)
	if !ok {
		t.Fatalf("confirmSaveDialog() returned %T, want msgExportDone", msg)
	}
	if done.err != nil {
		t.Fatalf("confirmSaveDialog() export error = %v", done.err)
	}
	wantTarget := filepath.Join(sub, "clip.wav")
	if done.result.TargetPath != wantTarget {
		t.Errorf("TargetPath = %q, want %q", done.result.TargetPath, wantTarget)
	}
	if done.result.FramesWritten != 88 {
		t.Errorf("FramesWritten = %d, want 88 (rounded 89-1)", done.result.FramesWritten)
	}
	if _, err := os.Stat(wantTarget); err != nil {
		t.Errorf("expected file at %q: %v", wantTarget, err)
	}
}

func TestRefilterBrowserNarrowsToQuery(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	m.browser.Entries = []browse.Entry{{AudioPath: "a.wav"}, {AudioPath: "b.wav"}}
	m.browseText.SetValue("a")
	m.refilterBrowser()
	if len(m.browser.Entries) != 1 {
		t.Fatalf("refilterBrowser() left %d entries, want 1", len(m.browser.Entries))
	}
}
