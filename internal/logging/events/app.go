package events

import "github.com/s2-streamstore/s2-tui/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(reason string) {
	logging.Trace("app.stop", map[string]interface{}{"reason": reason})
}

func (AppTracer) UpdateAvailable(current, latest string) {
	logging.Trace("app.update-available", map[string]interface{}{
		"current": current,
		"latest":  latest,
	})
}
