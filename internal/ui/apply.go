package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/logging/events"
	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

func (m *Model) handleBasinsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(basinsLoadedMsg)
	if !ok {
		return nil
	}
	if !m.splashDone {
		// Landed while the splash is still up; applied when it ends.
		m.pendingBasins = &loaded
		return nil
	}
	m.applyBasinsLoaded(loaded)
	return nil
}

func (m *Model) applyBasinsLoaded(loaded basinsLoadedMsg) {
	m.basins.loading = false
	if loaded.err != nil {
		m.setError(loaded.err)
		return
	}
	items := make([]state.Item, 0, len(loaded.basins))
	infos := make(map[string]s2.BasinInfo, len(loaded.basins))
	for _, basin := range loaded.basins {
		items = append(items, state.Item{
			ID:     basin.Name,
			Label:  basin.Name,
			Detail: string(basin.State),
		})
		infos[basin.Name] = basin
	}
	m.basins.list.SetItems(items)
	m.basins.infos = infos
}

func (m *Model) handleStreamsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(streamsLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.basin != m.streams.basin {
		// The payload is stale but a failure still has to be visible.
		if loaded.err != nil {
			m.setError(loaded.err)
		}
		return nil
	}
	m.streams.loading = false
	if loaded.err != nil {
		m.setError(loaded.err)
		return nil
	}
	items := make([]state.Item, 0, len(loaded.streams))
	for _, stream := range loaded.streams {
		items = append(items, state.Item{ID: stream.Name, Label: stream.Name})
	}
	m.streams.list.SetItems(items)
	return nil
}

func (m *Model) handleStreamConfigLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(streamConfigLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.basin != m.detail.basin || loaded.stream != m.detail.stream {
		if loaded.err != nil {
			m.setError(loaded.err)
		}
		return nil
	}
	m.detail.loadingConfig = false
	if loaded.err != nil {
		m.detail.configErr = loaded.err.Error()
		return nil
	}
	config := loaded.config
	m.detail.config = &config
	m.detail.configErr = ""
	return nil
}

func (m *Model) handleTailLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(tailLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.basin != m.detail.basin || loaded.stream != m.detail.stream {
		if loaded.err != nil {
			m.setError(loaded.err)
		}
		return nil
	}
	m.detail.loadingTail = false
	if loaded.err != nil {
		m.detail.tailErr = loaded.err.Error()
		return nil
	}
	tail := loaded.tail
	m.detail.tail = &tail
	m.detail.tailErr = ""
	return nil
}

// settleMutation finishes an in-flight modal operation. On failure the modal
// stays open with the error attached so the input is not lost; on success
// the modal closes and the owning list reloads.
func (m *Model) settleMutation(err error, refresh func() tea.Cmd) tea.Cmd {
	m.pendingOp = ""
	if err != nil {
		if f := m.activeForm(); f != nil {
			f.errMsg = err.Error()
		} else {
			m.exitMode()
			m.setError(err)
		}
		return nil
	}
	m.exitMode()
	if refresh == nil {
		return nil
	}
	return refresh()
}

func (m *Model) exitMode() {
	if m.mode != nil {
		events.UI.ModeExit(m.mode.modeName())
		m.mode = nil
	}
}

func (m *Model) refreshBasins() tea.Cmd {
	m.basins.loading = true
	return m.loadBasinsCmd()
}

func (m *Model) refreshStreams() tea.Cmd {
	if m.streams.basin == "" {
		return nil
	}
	m.streams.loading = true
	return m.loadStreamsCmd(m.streams.basin)
}

func (m *Model) refreshTokens() tea.Cmd {
	m.tokens.loading = true
	return m.loadTokensCmd()
}

func (m *Model) handleBasinCreatedMsg(msg tea.Msg) tea.Cmd {
	created, ok := msg.(basinCreatedMsg)
	if !ok {
		return nil
	}
	cmd := m.settleMutation(created.err, m.refreshBasins)
	if created.err == nil {
		m.setInfo("Created basin " + created.name)
	}
	return cmd
}

func (m *Model) handleBasinDeletedMsg(msg tea.Msg) tea.Cmd {
	deleted, ok := msg.(basinDeletedMsg)
	if !ok {
		return nil
	}
	cmd := m.settleMutation(deleted.err, m.refreshBasins)
	if deleted.err == nil {
		m.setInfo("Deleted basin " + deleted.name)
	}
	return cmd
}

func (m *Model) handleStreamCreatedMsg(msg tea.Msg) tea.Cmd {
	created, ok := msg.(streamCreatedMsg)
	if !ok {
		return nil
	}
	cmd := m.settleMutation(created.err, m.refreshStreams)
	if created.err == nil {
		m.setInfo("Created stream " + created.name)
	}
	return cmd
}

func (m *Model) handleStreamDeletedMsg(msg tea.Msg) tea.Cmd {
	deleted, ok := msg.(streamDeletedMsg)
	if !ok {
		return nil
	}
	cmd := m.settleMutation(deleted.err, m.refreshStreams)
	if deleted.err == nil {
		m.setInfo("Deleted stream " + deleted.name)
	}
	return cmd
}

// handleBasinConfigLoadedMsg opens the reconfigure form once the current
// config is known.
func (m *Model) handleBasinConfigLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(basinConfigLoadedMsg)
	if !ok {
		return nil
	}
	if m.pendingOp != "reconfigure-basin" {
		if loaded.err != nil {
			m.setError(loaded.err)
		}
		return nil
	}
	m.pendingOp = ""
	if loaded.err != nil {
		m.setError(loaded.err)
		return nil
	}
	m.mode = newReconfigureBasinMode(loaded.basin, loaded.config)
	events.UI.ModeEnter(m.mode.modeName())
	return nil
}

func (m *Model) handleStreamConfigForEditMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(streamConfigForEditMsg)
	if !ok {
		return nil
	}
	if m.pendingOp != "reconfigure-stream" {
		if loaded.err != nil {
			m.setError(loaded.err)
		}
		return nil
	}
	m.pendingOp = ""
	if loaded.err != nil {
		m.setError(loaded.err)
		return nil
	}
	m.mode = newReconfigureStreamMode(loaded.basin, loaded.stream, loaded.config)
	events.UI.ModeEnter(m.mode.modeName())
	return nil
}

func (m *Model) handleBasinReconfiguredMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(basinReconfiguredMsg)
	if !ok {
		return nil
	}
	cmd := m.settleMutation(done.err, m.refreshBasins)
	if done.err == nil {
		m.setInfo("Reconfigured basin " + done.basin)
	}
	return cmd
}

func (m *Model) handleStreamReconfiguredMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(streamReconfiguredMsg)
	if !ok {
		return nil
	}
	refresh := func() tea.Cmd {
		if m.screen == screenStreamDetail && m.detail.basin == done.basin && m.detail.stream == done.stream {
			m.detail.loadingConfig = true
			return m.loadStreamConfigCmd(done.basin, done.stream)
		}
		return m.refreshStreams()
	}
	cmd := m.settleMutation(done.err, refresh)
	if done.err == nil {
		m.setInfo("Reconfigured stream " + done.stream)
	}
	return cmd
}

func (m *Model) handleRecordAppendedMsg(msg tea.Msg) tea.Cmd {
	appended, ok := msg.(recordAppendedMsg)
	if !ok {
		return nil
	}
	m.pendingOp = ""
	if appended.err != nil {
		if m.screen == screenAppend && m.appendView.form != nil {
			m.appendView.form.errMsg = appended.err.Error()
		} else {
			m.setError(appended.err)
		}
		return nil
	}
	if m.screen == screenAppend && m.appendView.basin == appended.basin && m.appendView.stream == appended.stream {
		m.appendView.appended += appended.count
		last := appended.ack.End.SeqNum
		if last > appended.ack.Start.SeqNum {
			last--
		}
		m.appendView.lastSeq = &last
		m.appendView.form = newAppendForm()
	}
	m.setInfo(fmt.Sprintf("Appended %d record(s), next seq %d", appended.count, appended.ack.Tail.SeqNum))
	return nil
}

func (m *Model) handleStreamFencedMsg(msg tea.Msg) tea.Cmd {
	fenced, ok := msg.(streamFencedMsg)
	if !ok {
		return nil
	}
	refresh := func() tea.Cmd {
		if m.screen == screenStreamDetail && m.detail.basin == fenced.basin && m.detail.stream == fenced.stream {
			m.detail.loadingTail = true
			return m.loadTailCmd(fenced.basin, fenced.stream)
		}
		return nil
	}
	cmd := m.settleMutation(fenced.err, refresh)
	if fenced.err == nil {
		if fenced.token == "" {
			m.setInfo("Cleared fencing token")
		} else {
			m.setInfo("Set fencing token")
		}
	}
	return cmd
}

func (m *Model) handleStreamTrimmedMsg(msg tea.Msg) tea.Cmd {
	trimmed, ok := msg.(streamTrimmedMsg)
	if !ok {
		return nil
	}
	refresh := func() tea.Cmd {
		if m.screen == screenStreamDetail && m.detail.basin == trimmed.basin && m.detail.stream == trimmed.stream {
			m.detail.loadingTail = true
			return m.loadTailCmd(trimmed.basin, trimmed.stream)
		}
		return nil
	}
	cmd := m.settleMutation(trimmed.err, refresh)
	if trimmed.err == nil {
		m.setInfo(fmt.Sprintf("Requested trim before seq %d", trimmed.point))
	}
	return cmd
}

func (m *Model) handleTokensLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(tokensLoadedMsg)
	if !ok {
		return nil
	}
	m.tokens.loading = false
	if loaded.err != nil {
		m.setError(loaded.err)
		return nil
	}
	items := make([]state.Item, 0, len(loaded.tokens))
	infos := make(map[string]s2.AccessTokenInfo, len(loaded.tokens))
	for _, token := range loaded.tokens {
		items = append(items, state.Item{ID: token.ID, Label: token.ID})
		infos[token.ID] = token
	}
	m.tokens.list.SetItems(items)
	m.tokens.infos = infos
	return nil
}

// handleTokenIssuedMsg swaps the issue form for the one-time secret reveal.
func (m *Model) handleTokenIssuedMsg(msg tea.Msg) tea.Cmd {
	issued, ok := msg.(tokenIssuedMsg)
	if !ok {
		return nil
	}
	m.pendingOp = ""
	if issued.err != nil {
		if f := m.activeForm(); f != nil {
			f.errMsg = issued.err.Error()
		} else {
			m.exitMode()
			m.setError(issued.err)
		}
		return nil
	}
	m.exitMode()
	m.mode = &tokenRevealMode{id: issued.id, secret: issued.secret}
	events.UI.ModeEnter(m.mode.modeName())
	return m.refreshTokens()
}

func (m *Model) handleTokenRevokedMsg(msg tea.Msg) tea.Cmd {
	revoked, ok := msg.(tokenRevokedMsg)
	if !ok {
		return nil
	}
	cmd := m.settleMutation(revoked.err, m.refreshTokens)
	if revoked.err == nil {
		m.setInfo("Revoked token " + revoked.id)
	}
	return cmd
}

func (m *Model) handleMetricsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(metricsLoadedMsg)
	if !ok {
		return nil
	}
	if m.screen != screenMetrics || loaded.basin != m.metrics.basin || loaded.stream != m.metrics.stream {
		if loaded.err != nil {
			m.setError(loaded.err)
		}
		return nil
	}
	m.metrics.loading = false
	if loaded.err != nil {
		m.metrics.errMsg = loaded.err.Error()
		return nil
	}
	m.metrics.series = loaded.series
	m.metrics.errMsg = ""
	return nil
}
