package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zim-audio/zim/internal/player"
)

// handlePlayerKey dispatches a key in the Player modal, per spec.md
// §4.10's binding table.
func (m *Model) handlePlayerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		m.state.TogglePlay()
		m.syncPlayback()
	case "left":
		m.state.SeekRelative(-player.SeekRelativeStep)
		m.seekSink()
	case "right":
		m.state.SeekRelative(player.SeekRelativeStep)
		m.seekSink()
	case "shift+left":
		m.state.SeekJump(-player.SeekJumpFraction)
		m.seekSink()
	case "shift+right":
		m.state.SeekJump(player.SeekJumpFraction)
		m.seekSink()
	case "i":
		m.state.SetMarkIn(m.state.PositionSeconds)
	case "o":
		m.state.SetMarkOut(m.state.PositionSeconds)
	case "x":
		m.state.ClearMarks()
	case "l":
		m.state.ToggleLoop()
	case "/":
		return m.enterBrowser()
	case "s":
		return m.enterSaveDialog()
	case "e":
		return m.spawnEditor()
	}
	return nil
}

// handleBrowserKey dispatches a key in the Browser modal: text input
// plus arrows/enter/esc, per spec.md §4.10.
func (m *Model) handleBrowserKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.state.CloseModal()
		return nil
	case "up":
		m.browser.Prev()
		m.syncBrowseList()
		return nil
	case "down":
		m.browser.Next()
		m.syncBrowseList()
		return nil
	case "enter":
		return m.chooseSelectedBrowserEntry()
	}
	var cmd tea.Cmd
	old := m.browseText.Value()
	m.browseText, cmd = m.browseText.Update(msg)
	if m.browseText.Value() != old {
		m.refilterBrowser()
	}
	return cmd
}

// handleSaveDialogKey dispatches a key in the SaveDialog modal: Tab
// toggles focus between the directory list and the filename field.
// Enter's effect depends on which field has focus, per spec.md
// §4.10's "enter confirms current field": on the directory list it
// navigates into (or up out of, via "..") the highlighted entry; on
// the filename field it confirms the save into the navigated
// directory.
func (m *Model) handleSaveDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.state.CloseModal()
		return nil
	case "tab":
		if m.save.focus == focusDirList {
			m.save.focus = focusFilename
		} else {
			m.save.focus = focusDirList
		}
		return nil
	}
	if m.save.focus == focusDirList {
		switch msg.String() {
		case "up":
			if m.save.dirSelected > 0 {
				m.save.dirSelected--
			}
		case "down":
			if m.save.dirSelected < len(m.save.dirEntries)-1 {
				m.save.dirSelected++
			}
		case "enter":
			m.navigateSaveDir()
		}
		return nil
	}
	if msg.String() == "enter" {
		return m.confirmSaveDialog()
	}
	var cmd tea.Cmd
	m.save.filename, cmd = m.save.filename.Update(msg)
	return cmd
}
