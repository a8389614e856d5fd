package events

import "github.com/s2-streamstore/s2-tui/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
	Action = ActionTracer{}
)

func (UITracer) ScreenEnter(screen, basin, stream string) {
	logging.Trace("screen.enter", map[string]interface{}{
		"screen": screen,
		"basin":  basin,
		"stream": stream,
	})
}

func (UITracer) ScreenBack(screen string) {
	logging.Trace("screen.back", map[string]interface{}{"screen": screen})
}

func (UITracer) TabSwitch(tab string) {
	logging.Trace("tab.switch", map[string]interface{}{"tab": tab})
}

func (UITracer) ModeEnter(mode string) {
	logging.Trace("mode.enter", map[string]interface{}{"mode": mode})
}

func (UITracer) ModeExit(mode string) {
	logging.Trace("mode.exit", map[string]interface{}{"mode": mode})
}

func (FilterTracer) Edit(screen, filter string) {
	logging.Trace("filter.edit", map[string]interface{}{"screen": screen, "filter": filter})
}

func (FilterTracer) Cleared(screen string) {
	logging.Trace("filter.clear", map[string]interface{}{"screen": screen})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}
