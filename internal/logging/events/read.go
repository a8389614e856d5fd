package events

import "github.com/s2-streamstore/s2-tui/internal/logging"

type ReadTracer struct{}

var Read = ReadTracer{}

func (ReadTracer) Start(session int, basin, stream string, tailing bool) {
	logging.Trace("read.start", map[string]interface{}{
		"session": session,
		"basin":   basin,
		"stream":  stream,
		"tailing": tailing,
	})
}

func (ReadTracer) End(session int, received uint64) {
	logging.Trace("read.end", map[string]interface{}{
		"session":  session,
		"received": received,
	})
}

func (ReadTracer) Stale(session, current int) {
	logging.Trace("read.stale", map[string]interface{}{
		"session": session,
		"current": current,
	})
}

func (ReadTracer) Error(session int, err error) {
	if err == nil {
		return
	}
	logging.Trace("read.error", map[string]interface{}{
		"session": session,
		"error":   err.Error(),
	})
}
