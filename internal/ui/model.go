package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/logging/events"
	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/theme"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

const (
	// List calls are capped; deeper pagination is out of scope for a
	// dashboard view.
	maxListItems = 100
	// Bounded scrollback for live reads.
	maxRecordsBuffer = 1000

	splashDuration = 1200 * time.Millisecond
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options carries startup behaviour into the model.
type Options struct {
	Version      string
	CheckUpdates bool
	// StartBasin/StartStream jump straight past the splash into the given
	// resource.
	StartBasin  string
	StartStream string
}

// Model implements the Bubble Tea model for the dashboard. Update is the
// only place any of this state mutates; background work arrives as typed
// completion messages.
type Model struct {
	client  *s2.Client
	version string
	opts    Options

	width  int
	height int

	tab      Tab
	screen   screenID
	showHelp bool

	splashDone    bool
	pendingBasins *basinsLoadedMsg

	basins     basinsScreen
	streams    streamsScreen
	detail     streamDetailScreen
	read       readScreen
	appendView appendScreen
	tokens     tokensScreen
	metrics    metricsScreen

	mode inputMode
	// pendingOp is set between a modal submit and its completion message;
	// while set, the modal ignores input.
	pendingOp string

	errMsg  string
	infoMsg string

	// readSeq is the id of the current read session. Events tagged with an
	// older id belong to an abandoned session.
	readSeq    int
	activeRead *s2.ReadSession

	spinner  spinner.Model
	handlers map[reflect.Type]msgHandler
}

func NewModel(client *s2.Client, opts Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if styles.Loading != nil {
		sp.Style = *styles.Loading
	}
	m := &Model{
		client:  client,
		version: opts.Version,
		opts:    opts,
		screen:  screenSplash,
		basins:  basinsScreen{list: state.NewList(nil), infos: map[string]s2.BasinInfo{}, loading: true},
		tokens:  tokensScreen{list: state.NewList(nil), infos: map[string]s2.AccessTokenInfo{}},
		spinner: sp,
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadBasinsCmd(),
		tea.Tick(splashDuration, func(time.Time) tea.Msg { return splashDoneMsg{} }),
		m.spinner.Tick,
	}
	if m.opts.CheckUpdates {
		cmds = append(cmds, m.checkUpdatesCmd())
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):             m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):      m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):        m.handleSpinnerTickMsg,
		reflect.TypeOf(splashDoneMsg{}):          m.handleSplashDoneMsg,
		reflect.TypeOf(updateCheckMsg{}):         m.handleUpdateCheckMsg,
		reflect.TypeOf(basinsLoadedMsg{}):        m.handleBasinsLoadedMsg,
		reflect.TypeOf(streamsLoadedMsg{}):       m.handleStreamsLoadedMsg,
		reflect.TypeOf(streamConfigLoadedMsg{}):  m.handleStreamConfigLoadedMsg,
		reflect.TypeOf(tailLoadedMsg{}):          m.handleTailLoadedMsg,
		reflect.TypeOf(basinCreatedMsg{}):        m.handleBasinCreatedMsg,
		reflect.TypeOf(basinDeletedMsg{}):        m.handleBasinDeletedMsg,
		reflect.TypeOf(streamCreatedMsg{}):       m.handleStreamCreatedMsg,
		reflect.TypeOf(streamDeletedMsg{}):       m.handleStreamDeletedMsg,
		reflect.TypeOf(basinConfigLoadedMsg{}):   m.handleBasinConfigLoadedMsg,
		reflect.TypeOf(streamConfigForEditMsg{}): m.handleStreamConfigForEditMsg,
		reflect.TypeOf(basinReconfiguredMsg{}):   m.handleBasinReconfiguredMsg,
		reflect.TypeOf(streamReconfiguredMsg{}):  m.handleStreamReconfiguredMsg,
		reflect.TypeOf(recordAppendedMsg{}):      m.handleRecordAppendedMsg,
		reflect.TypeOf(streamFencedMsg{}):        m.handleStreamFencedMsg,
		reflect.TypeOf(streamTrimmedMsg{}):       m.handleStreamTrimmedMsg,
		reflect.TypeOf(tokensLoadedMsg{}):        m.handleTokensLoadedMsg,
		reflect.TypeOf(tokenIssuedMsg{}):         m.handleTokenIssuedMsg,
		reflect.TypeOf(tokenRevokedMsg{}):        m.handleTokenRevokedMsg,
		reflect.TypeOf(metricsLoadedMsg{}):       m.handleMetricsLoadedMsg,
		reflect.TypeOf(readStartedMsg{}):         m.handleReadStartedMsg,
		reflect.TypeOf(readEventMsg{}):           m.handleReadEventMsg,
		reflect.TypeOf(readClosedMsg{}):          m.handleReadClosedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) handleSplashDoneMsg(tea.Msg) tea.Cmd {
	return m.finishSplash()
}

// finishSplash leaves the splash screen, applying a basin list that landed
// while it was still showing.
func (m *Model) finishSplash() tea.Cmd {
	if m.splashDone {
		return nil
	}
	m.splashDone = true
	m.screen = screenBasins
	if m.pendingBasins != nil {
		pending := *m.pendingBasins
		m.pendingBasins = nil
		m.applyBasinsLoaded(pending)
	}
	if m.opts.StartBasin != "" {
		basin := m.opts.StartBasin
		stream := m.opts.StartStream
		m.opts.StartBasin = ""
		m.opts.StartStream = ""
		if stream != "" {
			enterCmd := m.enterStreams(basin)
			return tea.Batch(enterCmd, m.enterStreamDetail(basin, stream))
		}
		return m.enterStreams(basin)
	}
	return nil
}

func (m *Model) handleUpdateCheckMsg(msg tea.Msg) tea.Cmd {
	check, ok := msg.(updateCheckMsg)
	if !ok {
		return nil
	}
	if check.err != nil || check.latest == "" {
		// Best effort only.
		return nil
	}
	events.App.UpdateAvailable(m.version, check.latest)
	m.setInfo("Update available: " + check.latest)
	return nil
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.errMsg = statusMessage(err)
	m.infoMsg = ""
	events.Action.Error(err)
}

// statusMessage maps common service failures to actionable status text.
func statusMessage(err error) string {
	switch {
	case s2.IsUnauthorized(err):
		return "Access denied; check the access token (" + err.Error() + ")"
	case s2.IsNotFound(err):
		return "Not found; it may have been deleted (" + err.Error() + ")"
	}
	return err.Error()
}

func (m *Model) setInfo(info string) {
	m.infoMsg = info
	m.errMsg = ""
	if info != "" {
		events.Action.Success(info)
	}
}

func (m *Model) clearStatus() {
	m.errMsg = ""
	m.infoMsg = ""
}

// anyLoading drives the spinner in the footer.
func (m *Model) anyLoading() bool {
	if m.pendingOp != "" {
		return true
	}
	switch m.screen {
	case screenSplash:
		return true
	case screenBasins:
		return m.basins.loading
	case screenStreams:
		return m.streams.loading
	case screenStreamDetail:
		return m.detail.loadingConfig || m.detail.loadingTail
	case screenTokens:
		return m.tokens.loading
	case screenMetrics:
		return m.metrics.loading
	default:
		return false
	}
}

func (m *Model) closeActiveRead() {
	if m.activeRead != nil {
		m.activeRead.Close()
		m.activeRead = nil
	}
}
