// Package player holds the playback position/marks/loop/modal state
// machine described in spec.md §4.6. All mutation happens on the UI
// thread; the audio thread never touches this package.
package player

// Modal identifies which screen owns key input.
type Modal int

const (
	ModalPlayer Modal = iota
	ModalBrowser
	ModalSaveDialog
)

// SeekRelativeStep and SeekJumpFraction are the step sizes spec.md
// §4.6 assigns to the relative-seek and percentage-jump commands.
const (
	SeekRelativeStep  = 5.0 // seconds
	SeekJumpFraction  = 0.2 // 20% of duration
)

// State is the player's authoritative playback/mark/modal state.
type State struct {
	Playing         bool
	PositionSeconds float32
	DurationSeconds float32
	MarkIn          *float32
	MarkOut         *float32
	LoopActive      bool
	Modal           Modal
	Volume          float64

	// MultiTrack is true when the active mixer holds more than one
	// track. Per spec.md §9's resolved open question, marks, loop and
	// the save dialog are disabled in that case; seeking is not.
	MultiTrack bool
}

// New returns a freshly initialized State.
func New() *State {
	return &State{Volume: 1.0, Modal: ModalPlayer}
}

func (s *State) Play()  { s.Playing = true }
func (s *State) Pause() { s.Playing = false }

func (s *State) TogglePlay() {
	s.Playing = !s.Playing
}

// SeekRelative moves position by delta seconds, clamped to
// [0, duration].
func (s *State) SeekRelative(delta float32) {
	s.PositionSeconds = clamp32(s.PositionSeconds+delta, 0, s.DurationSeconds)
}

// SeekJump moves position by a fraction of duration (typically ±20%).
func (s *State) SeekJump(fraction float32) {
	s.SeekRelative(fraction * s.DurationSeconds)
}

// SetMarkIn sets mark_in at the given time. If mark_out is already
// set and would now precede mark_in, mark_out is cleared (spec.md
// §4.6).
func (s *State) SetMarkIn(at float32) {
	if s.MultiTrack {
		return
	}
	v := at
	s.MarkIn = &v
	if s.MarkOut != nil && *s.MarkOut < v {
		s.MarkOut = nil
	}
}

// SetMarkOut sets mark_out, rejected (no change) if mark_in is set
// and exceeds the requested mark_out.
func (s *State) SetMarkOut(at float32) {
	if s.MultiTrack {
		return
	}
	if s.MarkIn != nil && *s.MarkIn > at {
		return
	}
	v := at
	s.MarkOut = &v
}

// ClearMarks resets both marks and turns off loop.
func (s *State) ClearMarks() {
	s.MarkIn = nil
	s.MarkOut = nil
	s.LoopActive = false
}

// ToggleLoop is a no-op unless both marks are set (and single-track).
func (s *State) ToggleLoop() {
	if s.MultiTrack {
		return
	}
	if s.MarkIn == nil || s.MarkOut == nil {
		return
	}
	s.LoopActive = !s.LoopActive
}

// SetVolume clamps to [0,1].
func (s *State) SetVolume(v float64) {
	s.Volume = clamp64(v, 0, 1)
}

func (s *State) OpenBrowser() { s.Modal = ModalBrowser }

// OpenSave is a no-op when mixing more than one track.
func (s *State) OpenSave() {
	if s.MultiTrack {
		return
	}
	s.Modal = ModalSaveDialog
}

func (s *State) CloseModal() { s.Modal = ModalPlayer }

// CheckLoopBoundary implements spec.md §4.6's loop rule: checked on
// the UI tick, never the audio thread. Returns true if it seeked.
func (s *State) CheckLoopBoundary() bool {
	if !s.LoopActive || s.MarkIn == nil || s.MarkOut == nil {
		return false
	}
	if s.PositionSeconds >= *s.MarkOut {
		s.PositionSeconds = *s.MarkIn
		return true
	}
	return false
}

// HasCompleteMarks reports whether both marks are set and ordered.
func (s *State) HasCompleteMarks() bool {
	return s.MarkIn != nil && s.MarkOut != nil && *s.MarkIn <= *s.MarkOut
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
