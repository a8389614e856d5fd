package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/logging/events"
	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.String() == "ctrl+c" {
		return m.quit("ctrl-c")
	}
	if m.screen == screenSplash {
		return m.finishSplash()
	}
	if m.showHelp {
		m.showHelp = false
		return nil
	}
	if m.mode != nil {
		return m.handleModeKey(key)
	}
	if m.screen == screenAppend {
		return m.handleAppendKey(key)
	}
	if list := m.currentList(); list != nil && list.Filtering {
		return m.handleFilterKey(list, key)
	}
	if key.String() == "?" {
		m.showHelp = true
		return nil
	}
	switch m.screen {
	case screenBasins:
		return m.handleBasinsKey(key)
	case screenStreams:
		return m.handleStreamsKey(key)
	case screenStreamDetail:
		return m.handleStreamDetailKey(key)
	case screenRead:
		return m.handleReadKey(key)
	case screenTokens:
		return m.handleTokensKey(key)
	case screenMetrics:
		return m.handleMetricsKey(key)
	}
	return nil
}

func (m *Model) quit(reason string) tea.Cmd {
	m.closeActiveRead()
	events.App.Stop(reason)
	return tea.Quit
}

// currentList returns the list owning filter and cursor keys on the current
// screen, if there is one.
func (m *Model) currentList() *state.List {
	switch m.screen {
	case screenBasins:
		return m.basins.list
	case screenStreams:
		return m.streams.list
	case screenTokens:
		return m.tokens.list
	default:
		return nil
	}
}

// visibleRows approximates how many list rows fit between the header and the
// status bar.
func (m *Model) visibleRows() int {
	rows := m.height - 7
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) handleFilterKey(list *state.List, key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		list.ClearFilter()
		events.Filter.Cleared(m.screen.String())
		return nil
	case "enter":
		list.Filtering = false
		return nil
	case "backspace":
		if list.DeleteFilterRuneBackward() {
			events.Filter.Edit(m.screen.String(), list.Filter)
		}
		return nil
	case "ctrl+w":
		if list.DeleteFilterWordBackward() {
			events.Filter.Edit(m.screen.String(), list.Filter)
		}
		return nil
	case "left":
		list.MoveFilterCursorRuneBackward()
		return nil
	case "right":
		list.MoveFilterCursorRuneForward()
		return nil
	case "home", "ctrl+a":
		list.MoveFilterCursorStart()
		return nil
	case "end", "ctrl+e":
		list.MoveFilterCursorEnd()
		return nil
	case "down":
		list.MoveCursorDown()
		list.EnsureCursorVisible(m.visibleRows())
		return nil
	case "up":
		list.MoveCursorUp()
		list.EnsureCursorVisible(m.visibleRows())
		return nil
	}
	if key.Type == tea.KeyRunes || key.Type == tea.KeySpace {
		text := string(key.Runes)
		if key.Type == tea.KeySpace {
			text = " "
		}
		if list.InsertFilterText(text) {
			events.Filter.Edit(m.screen.String(), list.Filter)
		}
	}
	return nil
}

func (m *Model) moveListCursor(list *state.List, key string) bool {
	moved := false
	switch key {
	case "j", "down":
		moved = list.MoveCursorDown()
	case "k", "up":
		moved = list.MoveCursorUp()
	case "g", "home":
		moved = list.MoveCursorHome()
	case "G", "end":
		moved = list.MoveCursorEnd()
	case "pgdown", "ctrl+d":
		moved = list.MoveCursorPageDown(m.visibleRows())
	case "pgup", "ctrl+u":
		moved = list.MoveCursorPageUp(m.visibleRows())
	default:
		return false
	}
	if moved {
		list.EnsureCursorVisible(m.visibleRows())
	}
	return true
}

func (m *Model) startFiltering(list *state.List) {
	list.Filtering = true
	events.Filter.Edit(m.screen.String(), list.Filter)
}

func (m *Model) enterMode(mode inputMode) {
	m.mode = mode
	m.clearStatus()
	events.UI.ModeEnter(mode.modeName())
}

func (m *Model) handleBasinsKey(key tea.KeyMsg) tea.Cmd {
	list := m.basins.list
	s := key.String()
	if m.moveListCursor(list, s) {
		return nil
	}
	switch s {
	case "/":
		m.startFiltering(list)
	case "enter":
		if item, ok := list.Current(); ok {
			return m.enterStreams(item.ID)
		}
	case "r":
		return m.refreshBasins()
	case "c":
		m.enterMode(newCreateBasinMode())
	case "d":
		if item, ok := list.Current(); ok {
			m.enterMode(newConfirmDeleteMode(false, "", item.ID))
		}
	case "e":
		if item, ok := list.Current(); ok {
			m.pendingOp = "reconfigure-basin"
			return m.loadBasinConfigCmd(item.ID)
		}
	case "m":
		if item, ok := list.Current(); ok {
			return m.enterMetrics(item.ID, "")
		}
	case "M":
		return m.enterMetrics("", "")
	case "tab":
		return m.switchTab(TabAccessTokens)
	case "q", "esc":
		if list.Filter != "" {
			list.ClearFilter()
			events.Filter.Cleared(m.screen.String())
			return nil
		}
		return m.quit("quit-key")
	}
	return nil
}

func (m *Model) handleStreamsKey(key tea.KeyMsg) tea.Cmd {
	list := m.streams.list
	s := key.String()
	if m.moveListCursor(list, s) {
		return nil
	}
	switch s {
	case "/":
		m.startFiltering(list)
	case "enter":
		if item, ok := list.Current(); ok {
			return m.enterStreamDetail(m.streams.basin, item.ID)
		}
	case "r":
		return m.refreshStreams()
	case "c":
		m.enterMode(newCreateStreamMode(m.streams.basin))
	case "d":
		if item, ok := list.Current(); ok {
			m.enterMode(newConfirmDeleteMode(true, m.streams.basin, item.ID))
		}
	case "e":
		if item, ok := list.Current(); ok {
			m.pendingOp = "reconfigure-stream"
			return m.loadStreamConfigForEditCmd(m.streams.basin, item.ID)
		}
	case "m":
		return m.enterMetrics(m.streams.basin, "")
	case "M":
		return m.enterMetrics("", "")
	case "q", "esc":
		if list.Filter != "" {
			list.ClearFilter()
			events.Filter.Cleared(m.screen.String())
			return nil
		}
		return m.goBack()
	}
	return nil
}

func (m *Model) handleStreamDetailKey(key tea.KeyMsg) tea.Cmd {
	basin, stream := m.detail.basin, m.detail.stream
	switch key.String() {
	case "t":
		// Follow the live tail.
		return m.enterRead(basin, stream, s2.ReadRequest{Tail: true})
	case "enter":
		m.enterMode(newCustomReadMode(basin, stream))
	case "a":
		m.enterAppend(basin, stream)
	case "f":
		m.enterMode(newFenceMode(basin, stream))
	case "T":
		m.enterMode(newTrimMode(basin, stream))
	case "e":
		if m.detail.config != nil {
			m.enterMode(newReconfigureStreamMode(basin, stream, *m.detail.config))
			return nil
		}
		m.pendingOp = "reconfigure-stream"
		return m.loadStreamConfigForEditCmd(basin, stream)
	case "m":
		return m.enterMetrics(basin, stream)
	case "M":
		return m.enterMetrics("", "")
	case "r":
		return m.enterStreamDetail(basin, stream)
	case "q", "esc":
		return m.goBack()
	}
	return nil
}

func (m *Model) handleReadKey(key tea.KeyMsg) tea.Cmd {
	buffer := m.read.buffer
	switch key.String() {
	case " ":
		m.read.paused = !m.read.paused
		return nil
	case "j", "down":
		if buffer.MoveCursorDown() {
			buffer.EnsureCursorVisible(m.visibleRows())
		}
		return nil
	case "k", "up":
		if buffer.MoveCursorUp() {
			buffer.EnsureCursorVisible(m.visibleRows())
		}
		return nil
	case "g", "home":
		if buffer.MoveCursorHome() {
			buffer.EnsureCursorVisible(m.visibleRows())
		}
		return nil
	case "G", "end":
		if buffer.MoveCursorEnd() {
			buffer.EnsureCursorVisible(m.visibleRows())
		}
		return nil
	case "y":
		if record, ok := buffer.Current(); ok {
			if err := copyText(string(record.Body)); err != nil {
				m.setError(err)
			} else {
				m.setInfo("Copied record body")
			}
		}
		return nil
	case "q", "esc":
		return m.goBack()
	}
	return nil
}

func (m *Model) handleAppendKey(key tea.KeyMsg) tea.Cmd {
	if m.pendingOp != "" {
		return nil
	}
	action, cmd := m.appendView.form.handleKey(key)
	switch action {
	case formCancel:
		return m.goBack()
	case formSubmit:
		input, err := appendInputFromForm(m.appendView.form)
		if err != nil {
			m.appendView.form.errMsg = err.Error()
			return nil
		}
		m.appendView.form.errMsg = ""
		m.pendingOp = "append"
		return m.appendCmd(m.appendView.basin, m.appendView.stream, input)
	}
	return cmd
}

func (m *Model) handleTokensKey(key tea.KeyMsg) tea.Cmd {
	list := m.tokens.list
	s := key.String()
	if m.moveListCursor(list, s) {
		return nil
	}
	switch s {
	case "/":
		m.startFiltering(list)
	case "r":
		return m.refreshTokens()
	case "c":
		m.enterMode(newIssueTokenMode())
	case "d":
		if item, ok := list.Current(); ok {
			m.enterMode(&confirmRevokeMode{id: item.ID})
		}
	case "M":
		return m.enterMetrics("", "")
	case "tab":
		return m.switchTab(TabBasins)
	case "q", "esc":
		if list.Filter != "" {
			list.ClearFilter()
			events.Filter.Cleared(m.screen.String())
			return nil
		}
		return m.quit("quit-key")
	}
	return nil
}

func (m *Model) handleMetricsKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "r":
		m.metrics.loading = true
		m.metrics.errMsg = ""
		return m.loadMetricsCmd(m.metrics.basin, m.metrics.stream)
	case "q", "esc":
		return m.goBack()
	}
	return nil
}

func (m *Model) handleModeKey(key tea.KeyMsg) tea.Cmd {
	// A mutation is in flight; the modal freezes until it settles.
	if m.pendingOp != "" {
		return nil
	}
	switch mode := m.mode.(type) {
	case *confirmDeleteMode:
		return m.handleConfirmDeleteKey(mode, key)
	case *tokenRevealMode:
		return m.handleTokenRevealKey(mode, key)
	case *confirmRevokeMode:
		switch key.String() {
		case "y", "enter":
			m.pendingOp = "revoke-token"
			return m.revokeTokenCmd(mode.id)
		case "n", "q", "esc":
			m.exitMode()
		}
		return nil
	}
	f := m.activeForm()
	if f == nil {
		m.exitMode()
		return nil
	}
	action, cmd := f.handleKey(key)
	switch action {
	case formCancel:
		m.exitMode()
		return nil
	case formSubmit:
		return m.submitForm()
	}
	return cmd
}

func (m *Model) handleConfirmDeleteKey(mode *confirmDeleteMode, key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y", "Y", "enter":
		if mode.isStream {
			m.pendingOp = "delete-stream"
			return m.deleteStreamCmd(mode.basin, mode.target)
		}
		m.pendingOp = "delete-basin"
		return m.deleteBasinCmd(mode.target)
	case "n", "q", "esc":
		m.exitMode()
	}
	return nil
}

func (m *Model) handleTokenRevealKey(mode *tokenRevealMode, key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y":
		if err := copyText(mode.secret); err != nil {
			m.setError(err)
			return nil
		}
		mode.copied = true
		return nil
	default:
		m.exitMode()
		return nil
	}
}

// submitForm validates and dispatches the active form mode. Validation
// failures stay in the modal; a dispatched task freezes it until the
// completion message settles it.
func (m *Model) submitForm() tea.Cmd {
	switch mode := m.mode.(type) {
	case *createBasinMode:
		req, err := mode.request()
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		mode.form.errMsg = ""
		m.pendingOp = "create-basin"
		return m.createBasinCmd(req)
	case *createStreamMode:
		req, err := mode.request()
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		mode.form.errMsg = ""
		m.pendingOp = "create-stream"
		return m.createStreamCmd(mode.basin, req)
	case *reconfigureBasinMode:
		cfg, err := mode.config()
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		mode.form.errMsg = ""
		m.pendingOp = "reconfigure-basin-apply"
		return m.reconfigureBasinCmd(mode.basin, cfg)
	case *reconfigureStreamMode:
		cfg, err := mode.config()
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		mode.form.errMsg = ""
		m.pendingOp = "reconfigure-stream-apply"
		return m.reconfigureStreamCmd(mode.basin, mode.stream, cfg)
	case *customReadMode:
		req, err := mode.request()
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		return m.enterRead(mode.basin, mode.stream, req)
	case *fenceMode:
		token := mode.form.textValue("token")
		m.pendingOp = "fence"
		return m.fenceCmd(mode.basin, mode.stream, token)
	case *trimMode:
		point, err := mode.point()
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		mode.form.errMsg = ""
		m.pendingOp = "trim"
		return m.trimCmd(mode.basin, mode.stream, point)
	case *issueTokenMode:
		req, err := mode.request(time.Now())
		if err != nil {
			mode.form.errMsg = err.Error()
			return nil
		}
		mode.form.errMsg = ""
		m.pendingOp = "issue-token"
		return m.issueTokenCmd(req)
	}
	return nil
}
