package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/logging/events"
	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

// enterRead leaves any previous session behind and opens a new one. The old
// session keeps draining in the background until its cancel takes effect;
// its events carry a stale id and are dropped on arrival.
func (m *Model) enterRead(basin, stream string, req s2.ReadRequest) tea.Cmd {
	m.closeActiveRead()
	m.readSeq++
	session := m.readSeq
	m.read = readScreen{
		basin:   basin,
		stream:  stream,
		session: session,
		buffer:  state.NewRecordBuffer(maxRecordsBuffer),
		tailing: req.Tail,
		started: time.Now(),
	}
	m.screen = screenRead
	m.mode = nil
	m.clearStatus()
	events.Read.Start(session, basin, stream, req.Tail)
	return m.startReadCmd(session, basin, stream, req)
}

func (m *Model) startReadCmd(session int, basin, stream string, req s2.ReadRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		rs, err := client.Read(context.Background(), basin, stream, req)
		return readStartedMsg{session: session, rs: rs, err: err}
	}
}

// waitForReadEvent drains one event from the session channel. The handler
// that consumes the resulting message re-arms this command, so the channel
// is pumped exactly as fast as Update can absorb it.
func waitForReadEvent(session int, ch <-chan s2.ReadEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return readClosedMsg{session: session}
		}
		return readEventMsg{
			session: session,
			record:  ev.Record,
			tail:    ev.Tail,
			end:     ev.End,
			err:     ev.Err,
		}
	}
}

func (m *Model) handleReadStartedMsg(msg tea.Msg) tea.Cmd {
	started, ok := msg.(readStartedMsg)
	if !ok {
		return nil
	}
	if started.session != m.readSeq {
		// Opened after the user already moved on.
		if started.rs != nil {
			started.rs.Close()
		}
		return nil
	}
	if started.err != nil {
		m.read.done = true
		m.setError(started.err)
		events.Read.Error(started.session, started.err)
		return nil
	}
	m.activeRead = started.rs
	return waitForReadEvent(started.session, started.rs.C)
}

func (m *Model) handleReadEventMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(readEventMsg)
	if !ok {
		return nil
	}
	if ev.session != m.readSeq {
		// Records and end markers from an abandoned session are dropped,
		// but a failure is still worth surfacing.
		if ev.err != nil {
			events.Read.Stale(ev.session, m.readSeq)
			m.setError(ev.err)
		}
		return nil
	}
	switch {
	case ev.err != nil:
		m.read.done = true
		m.activeRead = nil
		m.setError(ev.err)
		events.Read.Error(ev.session, ev.err)
		return nil
	case ev.end:
		m.read.done = true
		m.activeRead = nil
		events.Read.End(ev.session, m.read.received)
		if !m.read.tailing {
			m.setInfo("Read complete")
		}
		return nil
	}
	if ev.record != nil {
		m.read.received++
		// Paused sessions keep draining so the producer never stalls, but
		// the drained records are discarded.
		if !m.read.paused {
			follow := m.read.tailing
			m.read.buffer.Push(*ev.record, follow)
		}
	}
	if ev.tail != nil {
		m.read.tail = ev.tail
	}
	return waitForReadEvent(ev.session, m.activeRead.C)
}

func (m *Model) handleReadClosedMsg(msg tea.Msg) tea.Cmd {
	closed, ok := msg.(readClosedMsg)
	if !ok {
		return nil
	}
	if closed.session != m.readSeq {
		return nil
	}
	if m.activeRead != nil {
		m.activeRead = nil
	}
	if !m.read.done {
		m.read.done = true
		events.Read.End(closed.session, m.read.received)
	}
	return nil
}
