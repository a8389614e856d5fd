package ui

import (
	"github.com/s2-streamstore/s2-tui/internal/s2"
)

// Completion messages for background tasks. Every task settles into exactly
// one of these; the err field carries task failure instead of crashing the
// program.

type basinsLoadedMsg struct {
	basins []s2.BasinInfo
	err    error
}

type streamsLoadedMsg struct {
	basin   string
	streams []s2.StreamInfo
	err     error
}

type streamConfigLoadedMsg struct {
	basin  string
	stream string
	config s2.StreamConfig
	err    error
}

type tailLoadedMsg struct {
	basin  string
	stream string
	tail   s2.StreamPosition
	err    error
}

type basinCreatedMsg struct {
	name string
	err  error
}

type basinDeletedMsg struct {
	name string
	err  error
}

type streamCreatedMsg struct {
	basin string
	name  string
	err   error
}

type streamDeletedMsg struct {
	basin string
	name  string
	err   error
}

// basinConfigLoadedMsg serves the reconfigure flow: the form opens once the
// current config lands.
type basinConfigLoadedMsg struct {
	basin  string
	config s2.BasinConfig
	err    error
}

type streamConfigForEditMsg struct {
	basin  string
	stream string
	config s2.StreamConfig
	err    error
}

type basinReconfiguredMsg struct {
	basin string
	err   error
}

type streamReconfiguredMsg struct {
	basin  string
	stream string
	err    error
}

type recordAppendedMsg struct {
	basin  string
	stream string
	count  int
	ack    s2.AppendAck
	err    error
}

type streamFencedMsg struct {
	basin  string
	stream string
	token  string
	err    error
}

type streamTrimmedMsg struct {
	basin  string
	stream string
	point  uint64
	err    error
}

type tokensLoadedMsg struct {
	tokens []s2.AccessTokenInfo
	err    error
}

type tokenIssuedMsg struct {
	id     string
	secret string
	err    error
}

type tokenRevokedMsg struct {
	id  string
	err error
}

type metricsLoadedMsg struct {
	basin  string
	stream string
	series []s2.MetricSeries
	err    error
}

// readStartedMsg hands the opened session to the model; readEventMsg is one
// drained event. Both carry the session id so events from an abandoned
// session can be told apart from the current one.
type readStartedMsg struct {
	session int
	rs      *s2.ReadSession
	err     error
}

type readEventMsg struct {
	session int
	record  *s2.SequencedRecord
	tail    *s2.StreamPosition
	end     bool
	err     error
}

type readClosedMsg struct {
	session int
}

type splashDoneMsg struct{}

type updateCheckMsg struct {
	latest string
	err    error
}
