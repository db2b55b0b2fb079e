package ui

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zim-audio/zim/internal/browse"
	"github.com/zim-audio/zim/internal/decode"
	"github.com/zim-audio/zim/internal/export"
	"github.com/zim-audio/zim/internal/meter"
	"github.com/zim-audio/zim/internal/mix"
	"github.com/zim-audio/zim/internal/output"
	"github.com/zim-audio/zim/internal/player"
	"github.com/zim-audio/zim/internal/tap"
	"github.com/zim-audio/zim/internal/waveform"
)

type msgBrowseScanned struct {
	entries []browse.Entry
	err     error
}

type msgExportDone struct {
	result export.Result
	err    error
}

type msgEditorDone struct{ err error }

// msgTrackOpened carries the result of handing a Browser selection off
// to the configured TrackOpener.
type msgTrackOpened struct {
	path     string
	mixer    *mix.Mixer
	sink     *output.Sink
	decoders []decode.Decoder
	tap      *tap.Tap
	duration float32
	err      error
}

// Update dispatches tea.Msg per spec.md §4.10: key messages go to the
// active modal's table, window-size messages relayout, and msgTick
// drives the drain-tap/waveform/meter/loop-boundary pipeline.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listW := m.width - 4
		if listW < 20 {
			listW = 20
		}
		m.browseList.SetSize(listW, 12)
		m.sidecarView.Width = listW
		m.sidecarView.Height = 6
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.state.Modal {
		case player.ModalBrowser:
			cmd = m.handleBrowserKey(msg)
		case player.ModalSaveDialog:
			cmd = m.handleSaveDialogKey(msg)
		default:
			cmd = m.handlePlayerKey(msg)
		}
		return m, cmd

	case msgTick:
		m.tick()
		return m, scheduleTick()

	case msgBrowseScanned:
		if msg.err == nil {
			m.browser = *browse.NewList(msg.entries)
			m.syncBrowseList()
		}
		m.lastErr = msg.err
		return m, nil

	case msgExportDone:
		m.lastErr = msg.err
		if msg.err == nil {
			m.state.CloseModal()
		}
		return m, nil

	case msgEditorDone:
		m.lastErr = msg.err
		return m, nil

	case msgTrackOpened:
		m.lastErr = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.swapTrack(msg)
		m.state.CloseModal()
		return m, nil
	}
	return m, nil
}

// tick is the per-≈33ms pipeline: drain the sample tap, feed the
// waveform ring and level engine, check the loop boundary, and
// refresh position from the sink's frame counter.
func (m *Model) tick() {
	frames := m.tap.DrainAll()
	if len(frames) > 0 {
		flat := make([]float32, 0, len(frames)*2)
		meterFrames := make([][2]float32, len(frames))
		for i, f := range frames {
			flat = append(flat, f[0], f[1])
			meterFrames[i] = [2]float32{f[0], f[1]}
		}
		m.wave.Push(flat, 2)
		m.meter.Tick(meterFrames, m.state.Playing)
	} else {
		m.meter.Tick(nil, m.state.Playing)
	}

	if m.sink != nil && m.mixer != nil {
		m.state.PositionSeconds = float32(m.sink.Position()) / float32(m.mixer.SampleRate())
	}

	if m.state.CheckLoopBoundary() {
		m.seekSink()
	}
}

// syncPlayback starts or pauses the output device to match
// state.Playing.
func (m *Model) syncPlayback() {
	if m.sink == nil {
		return
	}
	if m.state.Playing {
		m.sink.Play()
	} else {
		m.sink.Pause()
	}
}

// seekSink seeks every track decoder to the player's current
// position, keeping them in lockstep since they share a sample rate.
func (m *Model) seekSink() {
	if m.mixer == nil {
		return
	}
	frame := uint64(m.state.PositionSeconds * float32(m.mixer.SampleRate()))
	for _, d := range m.decoders {
		_ = d.Seek(frame)
	}
}

// enterBrowser switches to the Browser modal and kicks off an async
// scan of m.root.
func (m *Model) enterBrowser() tea.Cmd {
	m.state.OpenBrowser()
	m.browseText.SetValue("")
	m.browseText.Focus()
	root := m.root
	return func() tea.Msg {
		entries, errs := browse.Scan(context.Background(), root)
		var err error
		if len(errs) > 0 {
			err = errs[0]
		}
		return msgBrowseScanned{entries: entries, err: err}
	}
}

// refilterBrowser re-scores the already-scanned entries against the
// current query text.
func (m *Model) refilterBrowser() {
	m.browser = *browse.NewList(browse.Filter(m.browser.Entries, m.browseText.Value()))
	m.syncBrowseList()
}

// syncBrowseList pushes m.browser's entries and selection into the
// bubbles/list widget used to render them, and refreshes the sidecar
// preview viewport for whatever is now selected.
func (m *Model) syncBrowseList() {
	m.browseList.SetItems(entriesToItems(m.browser.Entries))
	if len(m.browser.Entries) > 0 {
		m.browseList.Select(m.browser.Selected)
	}
	m.refreshSidecarPreview()
}

func (m *Model) refreshSidecarPreview() {
	content := "(no sidecar)"
	if len(m.browser.Entries) > 0 {
		e := m.browser.Entries[m.browser.Selected]
		if e.SidecarContent != nil {
			content = *e.SidecarContent
		}
	}
	m.sidecarView.SetContent(content)
	m.sidecarView.GotoTop()
}

// chooseSelectedBrowserEntry hands the selected path to the configured
// TrackOpener, which opens a fresh decode/mixer/output chain on its
// own time (it may touch the audio device) and reports back via
// msgTrackOpened.
func (m *Model) chooseSelectedBrowserEntry() tea.Cmd {
	p := m.browser.SelectedPath()
	if p == nil {
		m.state.CloseModal()
		return nil
	}
	path := *p
	opener := m.opener
	if opener == nil {
		m.sourcePath = path
		m.state.CloseModal()
		return nil
	}
	return func() tea.Msg {
		mixer, sink, decoders, t, duration, err := opener(path)
		return msgTrackOpened{path: path, mixer: mixer, sink: sink, decoders: decoders, tap: t, duration: duration, err: err}
	}
}

// swapTrack closes whatever was previously playing and installs the
// newly opened chain in its place.
func (m *Model) swapTrack(msg msgTrackOpened) {
	if m.sink != nil {
		m.sink.Close()
	}
	for _, d := range m.decoders {
		d.Close()
	}

	m.mixer = msg.mixer
	m.sink = msg.sink
	m.decoders = msg.decoders
	m.tap = msg.tap
	m.sourcePath = msg.path
	m.wave = waveform.New(waveform.MinCapacity)
	m.meter = &meter.Engine{}

	m.state.Pause()
	m.state.ClearMarks()
	m.state.DurationSeconds = msg.duration
	m.state.PositionSeconds = 0
}

// enterSaveDialog switches to the SaveDialog modal, pre-filling the
// suggested filename per spec.md §4.8.
func (m *Model) enterSaveDialog() tea.Cmd {
	m.state.OpenSave()
	if m.state.Modal != player.ModalSaveDialog {
		return nil // no-op when MultiTrack gated the transition
	}
	dir := filepath.Dir(m.sourcePath)
	stem := filenameStem(m.sourcePath)
	suggestion := export.SuggestFilename(stem, dir)
	m.save.filename.SetValue(suggestion)
	m.save.filename.Focus()
	m.save.dir = dir
	m.save.dirEntries, _ = listDirEntries(dir)
	m.save.dirSelected = 0
	return nil
}

// navigateSaveDir moves the SaveDialog's target directory to whatever
// entry is highlighted in the directory list (".." goes up one
// level), refreshing the list for the new location.
func (m *Model) navigateSaveDir() {
	if m.save.dirSelected < 0 || m.save.dirSelected >= len(m.save.dirEntries) {
		return
	}
	sel := m.save.dirEntries[m.save.dirSelected]
	next := filepath.Join(m.save.dir, strings.TrimSuffix(sel, "/"))
	entries, err := listDirEntries(next)
	if err != nil {
		return
	}
	m.save.dir = next
	m.save.dirEntries = entries
	m.save.dirSelected = 0
}

// confirmSaveDialog writes the selection (or full file, when no marks
// are set) into the SaveDialog's currently navigated directory, using
// the current filename field.
func (m *Model) confirmSaveDialog() tea.Cmd {
	sourcePath := m.sourcePath
	dir := m.save.dir
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}
	target := filepath.Join(dir, m.save.filename.Value())
	sampleRate := 0
	if m.mixer != nil {
		sampleRate = m.mixer.SampleRate()
	}
	var totalFrames uint64
	if len(m.decoders) > 0 {
		totalFrames = m.decoders[0].Info().TotalFrames
	}

	hasMarks := m.state.HasCompleteMarks()
	markIn, markOut := m.state.MarkIn, m.state.MarkOut

	return func() tea.Msg {
		if !hasMarks || markIn == nil || markOut == nil {
			err := export.SaveFull(sourcePath, target)
			return msgExportDone{result: export.Result{TargetPath: target}, err: err}
		}
		frameStart := uint64(math.Round(float64(*markIn) * float64(sampleRate)))
		frameEnd := uint64(math.Round(float64(*markOut) * float64(sampleRate)))
		if totalFrames > 0 && frameEnd > totalFrames {
			frameEnd = totalFrames
		}
		job := export.Job{
			SourcePath:   sourcePath,
			FrameStart:   frameStart,
			FrameEnd:     frameEnd,
			TargetPath:   target,
			CloneSidecar: true,
		}
		result, err := export.SaveSelection(job)
		return msgExportDone{result: result, err: err}
	}
}

// spawnEditor opens $EDITOR on the sidecar file via tea.ExecProcess,
// grounded on the teacher's exec.Command child-process handling but
// simplified to a foreground, blocking edit (no process group
// signaling needed since the editor is meant to block the TUI the way
// Bubble Tea's ExecProcess blocks for less/vim).
func (m *Model) spawnEditor() tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	sidecarPath := m.sourcePath + ".md"
	if _, err := os.Stat(sidecarPath); err != nil {
		_ = os.WriteFile(sidecarPath, []byte("---\nfile: "+filepath.Base(m.sourcePath)+"\npath: "+m.sourcePath+"\n---\n"), 0o644)
	}
	c := exec.Command(editor, sidecarPath)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return msgEditorDone{err: err}
	})
}

func filenameStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

// listDirEntries lists dir's subdirectories for the SaveDialog's
// navigable list, prefixed with ".." unless dir is already a
// filesystem root.
func listDirEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ui: listing %s: %w", dir, err)
	}
	var out []string
	if parent := filepath.Dir(dir); parent != dir {
		out = append(out, "..")
	}
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name()+"/")
		}
	}
	return out, nil
}
