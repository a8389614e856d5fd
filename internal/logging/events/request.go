package events

import "github.com/s2-streamstore/s2-tui/internal/logging"

type RequestTracer struct{}

var Request = RequestTracer{}

// Dispatch records a request leaving the UI and returns the callback that
// records its completion.
func (RequestTracer) Dispatch(op, basin, stream string) func(error) {
	logging.Trace("request.dispatch", map[string]interface{}{
		"op":     op,
		"basin":  basin,
		"stream": stream,
	})
	return func(err error) { Request.Done(op, err) }
}

func (RequestTracer) Done(op string, err error) {
	payload := map[string]interface{}{"op": op}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("request.done", payload)
}
