// Package ui implements the player's Bubble Tea model: event loop,
// key dispatch, and rendering, grounded on the teacher's tea.Model
// (its scheduleStats/scheduleLogPoll tick pattern and its
// viewport/textinput components; the teacher's mouse hit-testing has
// no keyboard-only equivalent in this player and is not carried over).
package ui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zim-audio/zim/internal/browse"
	"github.com/zim-audio/zim/internal/config"
	"github.com/zim-audio/zim/internal/decode"
	"github.com/zim-audio/zim/internal/meter"
	"github.com/zim-audio/zim/internal/mix"
	"github.com/zim-audio/zim/internal/output"
	"github.com/zim-audio/zim/internal/player"
	"github.com/zim-audio/zim/internal/tap"
	"github.com/zim-audio/zim/internal/waveform"
)

// tickInterval is the UI loop's poll period, per spec.md §4.10.
const tickInterval = 33 * time.Millisecond

type msgTick struct{}

// saveDialogFocus identifies which SaveDialog field has keyboard
// focus, mirroring the teacher's Tab-cycled focus index.
type saveDialogFocus int

const (
	focusDirList saveDialogFocus = iota
	focusFilename
)

// saveDialogState holds the SaveDialog modal's transient UI fields.
type saveDialogState struct {
	focus       saveDialogFocus
	dir         string // current target directory; navigable via dirEntries
	dirEntries  []string
	dirSelected int
	filename    textinput.Model
}

// TrackOpener opens path into a fresh decode/mixer/output chain,
// returning the tap the sink publishes into. cmd/zim supplies this so
// the Browser modal can hand off a chosen file without internal/ui
// reaching for process-lifetime resources (audio devices) itself.
type TrackOpener func(path string) (*mix.Mixer, *output.Sink, []decode.Decoder, *tap.Tap, float32, error)

// listItem adapts a browse.Entry to bubbles/list's list.Item, per the
// Title/Description/FilterValue pattern the pack's memo browser uses.
type listItem struct{ entry browse.Entry }

func (i listItem) Title() string { return filepath.Base(i.entry.AudioPath) }

func (i listItem) Description() string {
	if i.entry.MatchContext != "" {
		return i.entry.MatchContext
	}
	if i.entry.SidecarPath == nil {
		return "(no sidecar)"
	}
	return "has sidecar"
}

func (i listItem) FilterValue() string { return i.entry.AudioPath }

func entriesToItems(entries []browse.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = listItem{entry: e}
	}
	return items
}

// Model is the Bubble Tea model driving the player TUI.
type Model struct {
	state    *player.State
	mixer    *mix.Mixer
	sink     *output.Sink
	decoders []decode.Decoder // one per mixer track, shared sample rate; used for seeking
	tap      *tap.Tap
	wave     *waveform.Ring
	meter    *meter.Engine
	cfg      *config.Config

	sourcePath string // primary (single-track) source, for marks/export
	root       string // browse root for the browser modal

	width, height int

	browser     browse.List
	browseText  textinput.Model
	browseList  list.Model
	sidecarView viewport.Model
	save        saveDialogState

	opener TrackOpener

	lastErr error
}

// New constructs the Model from an already-opened Mixer/Sink/Tap
// triple (the tap must be the same instance the Sink publishes to)
// plus the decoders backing the mixer's tracks, for seeking. opener
// lets the Browser modal hand off a chosen file to a fresh playback
// chain; it may be nil when there is nothing to browse into (e.g. the
// `play` subcommand's fixed multi-track session).
func New(state *player.State, mixer *mix.Mixer, sink *output.Sink, t *tap.Tap, decoders []decode.Decoder, sourcePath, root string, cfg *config.Config, opener TrackOpener) *Model {
	m := &Model{
		state:      state,
		mixer:      mixer,
		sink:       sink,
		decoders:   decoders,
		tap:        t,
		wave:       waveform.New(waveform.MinCapacity),
		meter:      &meter.Engine{},
		cfg:        cfg,
		sourcePath: sourcePath,
		root:       root,
		opener:     opener,
	}
	m.browseText = textinput.New()
	m.browseText.Placeholder = "filter..."
	m.browseText.Prompt = "/ "
	m.browseText.CharLimit = 256
	m.browseText.Width = 40

	m.browseList = list.New(nil, list.NewDefaultDelegate(), 40, 12)
	m.browseList.Title = "BROWSE"
	m.browseList.SetShowHelp(false)
	m.browseList.SetShowStatusBar(false)
	m.browseList.SetFilteringEnabled(false) // filtering is browse.Filter's job, not the widget's

	m.sidecarView = viewport.New(40, 6)

	m.save.filename = textinput.New()
	m.save.filename.Prompt = ""
	m.save.filename.CharLimit = 256
	m.save.filename.Width = 40
	return m
}

// Init starts the ≈33ms UI tick, grounded on the teacher's
// scheduleStats pattern generalized to a single tick source. When the
// model is launched directly into the Browser modal (no file given on
// the command line), it also kicks off the initial directory scan.
func (m *Model) Init() tea.Cmd {
	if m.state.Modal == player.ModalBrowser {
		return tea.Batch(scheduleTick(), m.enterBrowser())
	}
	return scheduleTick()
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return msgTick{} })
}
