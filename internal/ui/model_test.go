package ui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/s2"
)

func newTestModel() *Model {
	m := NewModel(nil, Options{Version: "test"})
	m.width = 100
	m.height = 30
	m.splashDone = true
	m.screen = screenBasins
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSplashBuffersBasinListUntilDone(t *testing.T) {
	m := NewModel(nil, Options{Version: "test"})
	m.width = 100
	m.height = 30

	m.handleBasinsLoadedMsg(basinsLoadedMsg{basins: []s2.BasinInfo{{Name: "alpha-basin"}}})
	if len(m.basins.list.Items) != 0 {
		t.Fatalf("expected basins held back during splash, got %d items", len(m.basins.list.Items))
	}
	if m.pendingBasins == nil {
		t.Fatalf("expected pending basins to be cached")
	}

	m.handleSplashDoneMsg(splashDoneMsg{})
	if m.screen != screenBasins {
		t.Fatalf("expected basins screen after splash, got %s", m.screen)
	}
	if len(m.basins.list.Items) != 1 || m.basins.list.Items[0].ID != "alpha-basin" {
		t.Fatalf("expected cached basins applied after splash, got %#v", m.basins.list.Items)
	}
	if m.basins.loading {
		t.Fatalf("expected loading cleared once the cached list applied")
	}
}

func TestBasinsLoadErrorSurfaces(t *testing.T) {
	m := newTestModel()
	m.handleBasinsLoadedMsg(basinsLoadedMsg{err: errors.New("boom")})
	if m.errMsg != "boom" {
		t.Fatalf("expected error message, got %q", m.errMsg)
	}
	if m.basins.loading {
		t.Fatalf("expected loading cleared on error")
	}
}

func TestStatusMessageClassifiesServiceErrors(t *testing.T) {
	denied := &s2.APIError{Status: http.StatusUnauthorized, Message: "token expired"}
	if got := statusMessage(denied); !strings.Contains(got, "Access denied") || !strings.Contains(got, "token expired") {
		t.Errorf("unauthorized message = %q", got)
	}
	missing := &s2.APIError{Status: http.StatusNotFound, Message: "basin does not exist"}
	if got := statusMessage(missing); !strings.Contains(got, "Not found") {
		t.Errorf("not-found message = %q", got)
	}
	plain := errors.New("dial tcp: connection refused")
	if got := statusMessage(plain); got != plain.Error() {
		t.Errorf("plain message = %q", got)
	}
}

func TestMutationSuccessClosesModalAndRefreshes(t *testing.T) {
	m := newTestModel()
	m.enterMode(newCreateBasinMode())
	m.pendingOp = "create-basin"

	cmd := m.handleBasinCreatedMsg(basinCreatedMsg{name: "alpha-basin"})
	if m.mode != nil {
		t.Fatalf("expected modal closed after success")
	}
	if m.pendingOp != "" {
		t.Fatalf("expected pending op cleared, got %q", m.pendingOp)
	}
	if !m.basins.loading {
		t.Fatalf("expected basins list reloading after create")
	}
	if cmd == nil {
		t.Fatalf("expected a refresh command")
	}
}

func TestMutationFailureKeepsModalOpen(t *testing.T) {
	m := newTestModel()
	m.enterMode(newCreateBasinMode())
	m.pendingOp = "create-basin"

	cmd := m.handleBasinCreatedMsg(basinCreatedMsg{name: "alpha-basin", err: errors.New("already exists")})
	if cmd != nil {
		t.Fatalf("expected no refresh on failure")
	}
	if m.mode == nil {
		t.Fatalf("expected modal kept open on failure")
	}
	form := m.activeForm()
	if form == nil || form.errMsg != "already exists" {
		t.Fatalf("expected error attached to the form, got %#v", form)
	}
	if m.pendingOp != "" {
		t.Fatalf("expected pending op cleared even on failure")
	}
}

func TestModalFrozenWhileMutationInFlight(t *testing.T) {
	m := newTestModel()
	m.enterMode(newCreateBasinMode())
	m.pendingOp = "create-basin"

	if cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Fatalf("expected keys ignored while a mutation is in flight")
	}
	if m.mode == nil {
		t.Fatalf("expected modal still open")
	}
}

func TestConfirmDeleteConfirmsOnY(t *testing.T) {
	m := newTestModel()
	m.enterMode(newConfirmDeleteMode(false, "", "alpha-basin"))

	cmd := m.handleKeyMsg(keyRune('y'))
	if cmd == nil {
		t.Fatalf("expected delete dispatched on y")
	}
	if m.pendingOp != "delete-basin" {
		t.Fatalf("expected delete-basin pending, got %q", m.pendingOp)
	}
}

func TestConfirmDeleteCancelsOnEsc(t *testing.T) {
	m := newTestModel()
	m.enterMode(newConfirmDeleteMode(true, "alpha-basin", "logs"))

	if cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Fatalf("expected no dispatch on esc")
	}
	if m.mode != nil {
		t.Fatalf("expected modal dismissed")
	}
	if m.pendingOp != "" {
		t.Fatalf("pendingOp = %q, want empty", m.pendingOp)
	}
}

func TestConfirmDeleteEnterConfirmsStream(t *testing.T) {
	m := newTestModel()
	m.enterMode(newConfirmDeleteMode(true, "alpha-basin", "logs"))

	if cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatalf("expected delete dispatched on enter")
	}
	if m.pendingOp != "delete-stream" {
		t.Fatalf("expected delete-stream pending, got %q", m.pendingOp)
	}
}

func TestStreamDetailPanesRenderIndependently(t *testing.T) {
	m := newTestModel()
	m.enterStreamDetail("alpha-basin", "logs")

	m.handleStreamConfigLoadedMsg(streamConfigLoadedMsg{
		basin: "alpha-basin", stream: "logs", err: errors.New("no access"),
	})
	if m.detail.loadingConfig {
		t.Fatalf("expected config pane settled")
	}
	if m.detail.configErr != "no access" {
		t.Fatalf("expected config error recorded, got %q", m.detail.configErr)
	}
	if !m.detail.loadingTail {
		t.Fatalf("expected tail pane still loading")
	}

	m.handleTailLoadedMsg(tailLoadedMsg{
		basin: "alpha-basin", stream: "logs",
		tail: s2.StreamPosition{SeqNum: 42},
	})
	if m.detail.tail == nil || m.detail.tail.SeqNum != 42 {
		t.Fatalf("expected tail applied, got %#v", m.detail.tail)
	}
}

func TestStaleDetailResultsDropped(t *testing.T) {
	m := newTestModel()
	m.enterStreamDetail("alpha-basin", "logs")
	m.enterStreamDetail("alpha-basin", "other")

	m.handleTailLoadedMsg(tailLoadedMsg{
		basin: "alpha-basin", stream: "logs",
		tail: s2.StreamPosition{SeqNum: 42},
	})
	if m.detail.tail != nil {
		t.Fatalf("expected result for a superseded stream to be dropped")
	}
	if !m.detail.loadingTail {
		t.Fatalf("expected current stream still loading")
	}
}

func TestStaleLoadErrorsStillSurface(t *testing.T) {
	m := newTestModel()
	m.enterStreamDetail("alpha-basin", "other")

	m.handleStreamConfigLoadedMsg(streamConfigLoadedMsg{
		basin: "alpha-basin", stream: "logs", err: errors.New("config fetch failed"),
	})
	if m.errMsg == "" {
		t.Fatalf("expected stale config error in the status bar")
	}
	if m.detail.configErr != "" {
		t.Fatalf("stale payload must not touch the pane, got %q", m.detail.configErr)
	}

	m.errMsg = ""
	m.handleTailLoadedMsg(tailLoadedMsg{
		basin: "alpha-basin", stream: "logs", err: errors.New("tail fetch failed"),
	})
	if m.errMsg == "" {
		t.Fatalf("expected stale tail error in the status bar")
	}

	m.errMsg = ""
	m.streams.basin = "basin-two"
	m.handleStreamsLoadedMsg(streamsLoadedMsg{
		basin: "basin-one", err: errors.New("list failed"),
	})
	if m.errMsg == "" {
		t.Fatalf("expected stale stream-list error in the status bar")
	}

	m.errMsg = ""
	m.handleMetricsLoadedMsg(metricsLoadedMsg{
		basin: "alpha-basin", err: errors.New("metrics fetch failed"),
	})
	if m.errMsg == "" {
		t.Fatalf("expected stale metrics error in the status bar")
	}

	m.errMsg = ""
	m.handleBasinConfigLoadedMsg(basinConfigLoadedMsg{
		basin: "alpha-basin", err: errors.New("config fetch failed"),
	})
	if m.errMsg == "" {
		t.Fatalf("expected abandoned reconfigure error in the status bar")
	}
	if m.mode != nil {
		t.Fatalf("abandoned reconfigure must not open a form")
	}
}

func TestReadEventsApplyAndRearm(t *testing.T) {
	m := newTestModel()
	m.enterRead("alpha-basin", "logs", s2.ReadRequest{Tail: true})
	if m.screen != screenRead {
		t.Fatalf("expected read screen, got %s", m.screen)
	}
	session := m.readSeq

	rs := &s2.ReadSession{C: make(chan s2.ReadEvent)}
	if cmd := m.handleReadStartedMsg(readStartedMsg{session: session, rs: rs}); cmd == nil {
		t.Fatalf("expected the event pump armed after session start")
	}

	rec := s2.SequencedRecord{SeqNum: 7, Body: []byte("hello")}
	cmd := m.handleReadEventMsg(readEventMsg{session: session, record: &rec})
	if cmd == nil {
		t.Fatalf("expected the pump re-armed after a record")
	}
	if m.read.buffer.Len() != 1 {
		t.Fatalf("expected record in the buffer, got %d", m.read.buffer.Len())
	}
	if m.read.received != 1 {
		t.Fatalf("expected received count 1, got %d", m.read.received)
	}
}

func TestPausedReadDiscardsRecords(t *testing.T) {
	m := newTestModel()
	m.enterRead("alpha-basin", "logs", s2.ReadRequest{Tail: true})
	session := m.readSeq
	rs := &s2.ReadSession{C: make(chan s2.ReadEvent)}
	m.handleReadStartedMsg(readStartedMsg{session: session, rs: rs})

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeySpace})
	if !m.read.paused {
		t.Fatalf("expected space to pause")
	}

	rec := s2.SequencedRecord{SeqNum: 7}
	cmd := m.handleReadEventMsg(readEventMsg{session: session, record: &rec})
	if cmd == nil {
		t.Fatalf("expected a paused session to keep draining")
	}
	if m.read.buffer.Len() != 0 {
		t.Fatalf("expected paused records discarded, got %d buffered", m.read.buffer.Len())
	}
	if m.read.received != 1 {
		t.Fatalf("expected received counter still advancing, got %d", m.read.received)
	}
}

func TestStaleReadEventsDroppedButErrorsSurface(t *testing.T) {
	m := newTestModel()
	m.enterRead("alpha-basin", "logs", s2.ReadRequest{})
	stale := m.readSeq
	m.enterRead("alpha-basin", "logs", s2.ReadRequest{})

	rec := s2.SequencedRecord{SeqNum: 1}
	if cmd := m.handleReadEventMsg(readEventMsg{session: stale, record: &rec}); cmd != nil {
		t.Fatalf("expected stale event to not re-arm the pump")
	}
	if m.read.buffer.Len() != 0 {
		t.Fatalf("expected stale record dropped")
	}

	m.handleReadEventMsg(readEventMsg{session: stale, err: errors.New("read failed")})
	if m.errMsg != "read failed" {
		t.Fatalf("expected stale error surfaced, got %q", m.errMsg)
	}
	if m.read.done {
		t.Fatalf("expected current session unaffected by a stale error")
	}
}

func TestLeavingReadScreenAbandonsSession(t *testing.T) {
	m := newTestModel()
	m.enterStreamDetail("alpha-basin", "logs")
	m.enterRead("alpha-basin", "logs", s2.ReadRequest{Tail: true})
	session := m.readSeq

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenStreamDetail {
		t.Fatalf("expected return to detail, got %s", m.screen)
	}
	if m.readSeq == session {
		t.Fatalf("expected session id advanced so late events read as stale")
	}
}

func TestTabSwitchLoadsTokens(t *testing.T) {
	m := newTestModel()
	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil {
		t.Fatalf("expected token load dispatched")
	}
	if m.screen != screenTokens || m.tab != TabAccessTokens {
		t.Fatalf("expected access tokens tab, got screen=%s tab=%s", m.screen, m.tab)
	}

	cmd = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil || m.screen != screenBasins {
		t.Fatalf("expected tab to toggle back to basins")
	}
}

func TestFilterKeysEditAndReset(t *testing.T) {
	m := newTestModel()
	m.applyBasinsLoaded(basinsLoadedMsg{basins: []s2.BasinInfo{
		{Name: "alpha-basin"}, {Name: "beta-basin"}, {Name: "gamma-basin"},
	}})
	m.basins.list.Cursor = 2

	m.handleKeyMsg(keyRune('/'))
	if !m.basins.list.Filtering {
		t.Fatalf("expected filtering started")
	}
	m.handleKeyMsg(keyRune('b'))
	m.handleKeyMsg(keyRune('e'))
	if m.basins.list.Filter != "be" {
		t.Fatalf("expected filter %q, got %q", "be", m.basins.list.Filter)
	}
	if m.basins.list.Cursor != 0 {
		t.Fatalf("expected cursor reset on filter edit, got %d", m.basins.list.Cursor)
	}

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if m.basins.list.Filtering || m.basins.list.Filter != "" {
		t.Fatalf("expected filter cleared on esc")
	}
	if len(m.basins.list.Items) != 3 {
		t.Fatalf("expected full list restored, got %d", len(m.basins.list.Items))
	}
}

func TestTokenIssuedOpensRevealModal(t *testing.T) {
	m := newTestModel()
	m.switchTab(TabAccessTokens)
	m.enterMode(newIssueTokenMode())
	m.pendingOp = "issue-token"

	cmd := m.handleTokenIssuedMsg(tokenIssuedMsg{id: "ci-reader", secret: "s3cr3t"})
	if cmd == nil {
		t.Fatalf("expected token list refresh")
	}
	reveal, ok := m.mode.(*tokenRevealMode)
	if !ok {
		t.Fatalf("expected reveal modal, got %T", m.mode)
	}
	if reveal.secret != "s3cr3t" {
		t.Fatalf("expected secret carried to the modal")
	}
	if !m.tokens.loading {
		t.Fatalf("expected token list reloading")
	}
}

func TestHelpOverlayTogglesAndSwallowsKeys(t *testing.T) {
	m := newTestModel()
	m.handleKeyMsg(keyRune('?'))
	if !m.showHelp {
		t.Fatalf("expected help shown")
	}
	if cmd := m.handleKeyMsg(keyRune('c')); cmd != nil {
		t.Fatalf("expected key swallowed by help overlay")
	}
	if m.showHelp {
		t.Fatalf("expected help dismissed by any key")
	}
	if m.mode != nil {
		t.Fatalf("expected no modal opened by the dismissing key")
	}
}

func TestUpdateCheckSetsNotice(t *testing.T) {
	m := newTestModel()
	m.handleUpdateCheckMsg(updateCheckMsg{latest: "1.2.3"})
	if m.infoMsg == "" {
		t.Fatalf("expected update notice")
	}

	m.clearStatus()
	m.handleUpdateCheckMsg(updateCheckMsg{err: errors.New("offline")})
	if m.errMsg != "" {
		t.Fatalf("expected failed update check to stay silent")
	}
}
