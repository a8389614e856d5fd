package ui

import (
	"time"

	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

type screenID int

const (
	screenSplash screenID = iota
	screenBasins
	screenStreams
	screenStreamDetail
	screenRead
	screenAppend
	screenTokens
	screenMetrics
)

func (s screenID) String() string {
	switch s {
	case screenSplash:
		return "splash"
	case screenBasins:
		return "basins"
	case screenStreams:
		return "streams"
	case screenStreamDetail:
		return "stream-detail"
	case screenRead:
		return "read"
	case screenAppend:
		return "append"
	case screenTokens:
		return "access-tokens"
	case screenMetrics:
		return "metrics"
	default:
		return "unknown"
	}
}

type Tab int

const (
	TabBasins Tab = iota
	TabAccessTokens
)

func (t Tab) String() string {
	if t == TabAccessTokens {
		return "access-tokens"
	}
	return "basins"
}

type basinsScreen struct {
	list    *state.List
	infos   map[string]s2.BasinInfo
	loading bool
}

type streamsScreen struct {
	basin   string
	list    *state.List
	loading bool
}

// streamDetailScreen renders each pane as soon as its task lands; config and
// tail load independently.
type streamDetailScreen struct {
	basin  string
	stream string

	config        *s2.StreamConfig
	configErr     string
	loadingConfig bool

	tail        *s2.StreamPosition
	tailErr     string
	loadingTail bool
}

type readScreen struct {
	basin  string
	stream string

	session  int
	buffer   *state.RecordBuffer
	tailing  bool
	paused   bool
	done     bool
	received uint64
	tail     *s2.StreamPosition
	started  time.Time
}

type appendScreen struct {
	basin    string
	stream   string
	form     *form
	appended int
	lastSeq  *uint64
}

type tokensScreen struct {
	list    *state.List
	infos   map[string]s2.AccessTokenInfo
	loading bool
}

type metricsScreen struct {
	returnTo screenID
	basin    string
	stream   string
	series   []s2.MetricSeries
	loading  bool
	errMsg   string
}

func (s *metricsScreen) scopeLabel() string {
	switch {
	case s.stream != "":
		return s.basin + "/" + s.stream
	case s.basin != "":
		return s.basin
	default:
		return "account"
	}
}
