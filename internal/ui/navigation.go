package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/logging/events"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

func (m *Model) enterStreams(basin string) tea.Cmd {
	m.streams = streamsScreen{basin: basin, list: state.NewList(nil), loading: true}
	m.screen = screenStreams
	m.clearStatus()
	events.UI.ScreenEnter(screenStreams.String(), basin, "")
	return m.loadStreamsCmd(basin)
}

// enterStreamDetail fires the config and tail loads as two independent
// tasks; each pane renders as soon as its own result lands.
func (m *Model) enterStreamDetail(basin, stream string) tea.Cmd {
	m.detail = streamDetailScreen{
		basin:         basin,
		stream:        stream,
		loadingConfig: true,
		loadingTail:   true,
	}
	m.screen = screenStreamDetail
	m.clearStatus()
	events.UI.ScreenEnter(screenStreamDetail.String(), basin, stream)
	return tea.Batch(
		m.loadStreamConfigCmd(basin, stream),
		m.loadTailCmd(basin, stream),
	)
}

func (m *Model) enterAppend(basin, stream string) {
	m.appendView = appendScreen{basin: basin, stream: stream, form: newAppendForm()}
	m.screen = screenAppend
	m.clearStatus()
	events.UI.ScreenEnter(screenAppend.String(), basin, stream)
}

func (m *Model) enterMetrics(basin, stream string) tea.Cmd {
	m.metrics = metricsScreen{
		returnTo: m.screen,
		basin:    basin,
		stream:   stream,
		loading:  true,
	}
	m.screen = screenMetrics
	m.clearStatus()
	events.UI.ScreenEnter(screenMetrics.String(), basin, stream)
	return m.loadMetricsCmd(basin, stream)
}

func (m *Model) switchTab(tab Tab) tea.Cmd {
	if m.tab == tab {
		return nil
	}
	m.tab = tab
	m.clearStatus()
	events.UI.TabSwitch(tab.String())
	if tab == TabAccessTokens {
		m.screen = screenTokens
		m.tokens.loading = true
		return m.loadTokensCmd()
	}
	m.screen = screenBasins
	m.basins.loading = true
	return m.loadBasinsCmd()
}

// goBack pops one level of the screen stack. Leaving the read screen closes
// its session.
func (m *Model) goBack() tea.Cmd {
	events.UI.ScreenBack(m.screen.String())
	switch m.screen {
	case screenStreams:
		m.screen = screenBasins
	case screenStreamDetail:
		m.screen = screenStreams
	case screenRead:
		m.closeActiveRead()
		m.readSeq++
		m.screen = screenStreamDetail
	case screenAppend:
		m.screen = screenStreamDetail
	case screenMetrics:
		m.screen = m.metrics.returnTo
		if m.screen == screenMetrics {
			m.screen = screenBasins
		}
	case screenTokens:
		return nil
	}
	m.clearStatus()
	return nil
}
