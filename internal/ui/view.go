package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/s2-streamstore/s2-tui/internal/format/table"
	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/ui/state"
)

// View is part of the tea.Model interface.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.screen == screenSplash {
		return m.renderSplash()
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	switch {
	case m.showHelp:
		b.WriteString(m.renderHelp())
	case m.mode != nil:
		b.WriteString(m.renderMode())
	default:
		b.WriteString(m.renderScreen())
	}
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderSplash() string {
	lines := []string{
		"",
		"",
		styles.Header.Render("s2-tui " + m.version),
		styles.Info.Render("streaming storage dashboard"),
		"",
		styles.Loading.Render(m.spinner.View() + " loading basins"),
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(m.center(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) center(line string) string {
	width := visibleWidth(line)
	if width >= m.width {
		return line
	}
	return strings.Repeat(" ", (m.width-width)/2) + line
}

func visibleWidth(line string) int {
	// Close enough for centering; styled lines carry escape sequences that
	// lipgloss measures properly elsewhere.
	return len([]rune(stripANSI(line)))
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	var tabs string
	if m.tab == TabAccessTokens {
		tabs = styles.TabInactive.Render("basins") + styles.TabActive.Render("access tokens")
	} else {
		tabs = styles.TabActive.Render("basins") + styles.TabInactive.Render("access tokens")
	}
	crumb := m.breadcrumb()
	line := tabs
	if crumb != "" {
		line += "  " + styles.Header.Render(crumb)
	}
	return line
}

func (m *Model) breadcrumb() string {
	switch m.screen {
	case screenStreams:
		return m.streams.basin
	case screenStreamDetail:
		return m.detail.basin + " / " + m.detail.stream
	case screenRead:
		return m.read.basin + " / " + m.read.stream + " / read"
	case screenAppend:
		return m.appendView.basin + " / " + m.appendView.stream + " / append"
	case screenMetrics:
		return "metrics: " + m.metrics.scopeLabel()
	default:
		return ""
	}
}

func (m *Model) renderScreen() string {
	switch m.screen {
	case screenBasins:
		return m.renderBasins()
	case screenStreams:
		return m.renderStreams()
	case screenStreamDetail:
		return m.renderStreamDetail()
	case screenRead:
		return m.renderRead()
	case screenAppend:
		return m.renderAppend()
	case screenTokens:
		return m.renderTokens()
	case screenMetrics:
		return m.renderMetrics()
	default:
		return ""
	}
}

func (m *Model) renderFilterLine(list *state.List) string {
	if !list.Filtering && list.Filter == "" {
		return ""
	}
	prompt := styles.FilterPrompt.Render("/")
	if !list.Filtering {
		return prompt + styles.Filter.Render(list.Filter)
	}
	runes := []rune(list.Filter)
	pos := list.FilterCursorPos()
	before := string(runes[:pos])
	var under, after string
	if pos < len(runes) {
		under = string(runes[pos])
		after = string(runes[pos+1:])
	} else {
		under = " "
	}
	return prompt + styles.Filter.Render(before) + styles.Cursor.Render(under) + styles.Filter.Render(after)
}

func (m *Model) renderList(list *state.List, loading bool, empty string, detail func(state.Item) string) string {
	var b strings.Builder
	if line := m.renderFilterLine(list); line != "" {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if loading {
		b.WriteString(styles.Loading.Render(m.spinner.View() + " loading"))
		return b.String()
	}
	if len(list.Items) == 0 {
		b.WriteString(styles.Info.Render(empty))
		return b.String()
	}
	rows := make([][]string, 0, len(list.Items))
	for _, item := range list.Items {
		row := []string{item.Label}
		if detail != nil {
			row = append(row, detail(item))
		}
		rows = append(rows, row)
	}
	formatted := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	visible := m.visibleRows()
	start := list.ViewportOffset
	if start > len(formatted) {
		start = 0
	}
	end := start + visible
	if end > len(formatted) {
		end = len(formatted)
	}
	for i := start; i < end; i++ {
		line := truncate.String(formatted[i], uint(maxInt(m.width-4, 10)))
		if i == list.Cursor {
			b.WriteString(styles.SelectedItemIndicator.Render("▌ "))
			b.WriteString(styles.SelectedItem.Render(line))
		} else {
			b.WriteString(styles.ItemIndicator.Render("  "))
			b.WriteString(styles.Item.Render(line))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s", styles.Footer.Render(fmt.Sprintf("%d/%d", list.Cursor+1, len(list.Items))))
	return b.String()
}

func (m *Model) renderBasins() string {
	return m.renderList(m.basins.list, m.basins.loading, "no basins; press c to create one", func(item state.Item) string {
		if info, ok := m.basins.infos[item.ID]; ok {
			return string(info.State)
		}
		return ""
	})
}

func (m *Model) renderStreams() string {
	return m.renderList(m.streams.list, m.streams.loading, "no streams; press c to create one", nil)
}

func (m *Model) renderStreamDetail() string {
	var b strings.Builder
	b.WriteString(styles.DetailTitle.Render("Configuration"))
	b.WriteByte('\n')
	switch {
	case m.detail.loadingConfig:
		b.WriteString(styles.Loading.Render(m.spinner.View() + " loading config"))
	case m.detail.configErr != "":
		b.WriteString(styles.DetailError.Render(m.detail.configErr))
	case m.detail.config != nil:
		b.WriteString(renderStreamConfig(*m.detail.config))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.DetailTitle.Render("Tail"))
	b.WriteByte('\n')
	switch {
	case m.detail.loadingTail:
		b.WriteString(styles.Loading.Render(m.spinner.View() + " checking tail"))
	case m.detail.tailErr != "":
		b.WriteString(styles.DetailError.Render(m.detail.tailErr))
	case m.detail.tail != nil:
		b.WriteString(styles.DetailBody.Render(formatPosition(*m.detail.tail)))
	}
	return b.String()
}

func renderStreamConfig(cfg s2.StreamConfig) string {
	rows := [][]string{}
	add := func(label, value string) {
		rows = append(rows, []string{label, value})
	}
	if cfg.StorageClass != "" {
		add("storage class", string(cfg.StorageClass))
	} else {
		add("storage class", "default")
	}
	if cfg.RetentionAgeSeconds != nil {
		add("retention", (time.Duration(*cfg.RetentionAgeSeconds) * time.Second).String())
	} else {
		add("retention", "default")
	}
	if cfg.Timestamping != nil {
		if cfg.Timestamping.Mode != "" {
			add("timestamping", string(cfg.Timestamping.Mode))
		}
		if cfg.Timestamping.Uncapped != nil {
			add("uncapped timestamps", fmt.Sprintf("%t", *cfg.Timestamping.Uncapped))
		}
	}
	if cfg.DeleteOnEmptySecs != nil {
		add("delete on empty", (time.Duration(*cfg.DeleteOnEmptySecs) * time.Second).String())
	}
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	styled := make([]string, len(lines))
	for i, line := range lines {
		styled[i] = styles.DetailBody.Render(line)
	}
	return strings.Join(styled, "\n")
}

func (m *Model) renderRead() string {
	var b strings.Builder
	status := "live"
	switch {
	case m.read.done:
		status = "ended"
	case m.read.paused:
		status = styles.Paused.Render("paused (discarding)")
	case m.read.tailing:
		status = "tailing"
	}
	line := fmt.Sprintf("%s records", humanize.Comma(int64(m.read.received)))
	if m.read.tail != nil {
		line += "  tail " + formatPosition(*m.read.tail)
	}
	b.WriteString(styles.Info.Render(line) + "  " + status)
	b.WriteByte('\n')

	buffer := m.read.buffer
	if buffer.Len() == 0 {
		if !m.read.done {
			b.WriteString(styles.Loading.Render(m.spinner.View() + " waiting for records"))
		} else {
			b.WriteString(styles.Info.Render("no records"))
		}
		return b.String()
	}
	visible := m.visibleRows() - 4
	if visible < 1 {
		visible = 1
	}
	start := buffer.ViewportOffset
	end := start + visible
	if end > buffer.Len() {
		end = buffer.Len()
	}
	for i := start; i < end; i++ {
		rec, ok := buffer.At(i)
		if !ok {
			continue
		}
		seq := styles.RecordSeq.Render(fmt.Sprintf("%8d", rec.SeqNum))
		ts := styles.RecordTime.Render(formatRecordTime(rec.Timestamp))
		label := recordLabel(rec)
		if _, isCmd := rec.IsCommand(); isCmd {
			label = styles.RecordCommand.Render(label)
		}
		row := seq + " " + ts + " " + truncate.String(label, uint(maxInt(m.width-26, 10)))
		if i == buffer.Cursor {
			b.WriteString(styles.SelectedItem.Render("▌") + row)
		} else {
			b.WriteString(" " + row)
		}
		b.WriteByte('\n')
	}
	if rec, ok := buffer.Current(); ok {
		b.WriteByte('\n')
		b.WriteString(styles.DetailTitle.Render(fmt.Sprintf("Record %d", rec.SeqNum)))
		b.WriteByte('\n')
		for _, header := range rec.Headers {
			b.WriteString(styles.DetailBody.Render(fmt.Sprintf("%s: %s", header.Name, header.Value)))
			b.WriteByte('\n')
		}
		b.WriteString(styles.DetailBody.Render(truncate.String(bodyPreview(rec.Body), uint(maxInt(m.width-2, 10)))))
	}
	return b.String()
}

func (m *Model) renderAppend() string {
	var b strings.Builder
	b.WriteString(m.renderForm(m.appendView.form))
	if m.appendView.appended > 0 {
		b.WriteByte('\n')
		note := fmt.Sprintf("appended %d record(s) this session", m.appendView.appended)
		if m.appendView.lastSeq != nil {
			note += fmt.Sprintf(", last seq %d", *m.appendView.lastSeq)
		}
		b.WriteString(styles.Info.Render(note))
	}
	return b.String()
}

func (m *Model) renderTokens() string {
	var b strings.Builder
	b.WriteString(m.renderList(m.tokens.list, m.tokens.loading, "no access tokens; press c to issue one", func(item state.Item) string {
		info, ok := m.tokens.infos[item.ID]
		if !ok || info.ExpiresAt == nil {
			return "never expires"
		}
		return "expires " + humanize.Time(*info.ExpiresAt)
	}))
	if item, ok := m.tokens.list.Current(); ok {
		if info, found := m.tokens.infos[item.ID]; found {
			b.WriteString("\n\n")
			b.WriteString(renderTokenScope(info))
		}
	}
	return b.String()
}

func renderTokenScope(info s2.AccessTokenInfo) string {
	rows := [][]string{
		{"basins", matcherLabel(info.Scope.Basins)},
		{"streams", matcherLabel(info.Scope.Streams)},
		{"tokens", matcherLabel(info.Scope.AccessTokens)},
		{"ops", strings.Join(info.Scope.Ops, ", ")},
	}
	if info.AutoPrefixStreams {
		rows = append(rows, []string{"auto-prefix", "true"})
	}
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	styled := make([]string, 0, len(lines)+1)
	styled = append(styled, styles.DetailTitle.Render("Scope"))
	for _, line := range lines {
		styled = append(styled, styles.DetailBody.Render(line))
	}
	return strings.Join(styled, "\n")
}

func matcherLabel(matcher *s2.ResourceMatcher) string {
	if matcher == nil {
		return "none"
	}
	return matcher.String()
}

func (m *Model) renderMetrics() string {
	if m.metrics.loading {
		return styles.Loading.Render(m.spinner.View() + " loading metrics")
	}
	if m.metrics.errMsg != "" {
		return styles.DetailError.Render(m.metrics.errMsg)
	}
	if len(m.metrics.series) == 0 {
		return styles.Info.Render("no metrics for " + m.metrics.scopeLabel())
	}
	var b strings.Builder
	for i, series := range m.metrics.series {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := series.Name
		if series.Unit != "" {
			title += " (" + series.Unit + ")"
		}
		b.WriteString(styles.DetailTitle.Render(title))
		b.WriteByte('\n')
		b.WriteString(styles.DetailBody.Render(renderSparkline(series.Points, maxInt(m.width-20, 10))))
		if len(series.Points) > 0 {
			last := series.Points[len(series.Points)-1]
			b.WriteString("  " + styles.Info.Render(humanize.SIWithDigits(last.Value, 2, "")))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func renderSparkline(points []s2.MetricPoint, width int) string {
	if len(points) == 0 {
		return "-"
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	min, max := points[0].Value, points[0].Value
	for _, p := range points {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	span := max - min
	var b strings.Builder
	for _, p := range points {
		idx := 0
		if span > 0 {
			idx = int((p.Value - min) / span * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func (m *Model) renderMode() string {
	switch mode := m.mode.(type) {
	case *confirmDeleteMode:
		return m.renderConfirmDelete(mode)
	case *tokenRevealMode:
		return renderTokenReveal(mode)
	case *confirmRevokeMode:
		return styles.DetailTitle.Render("Revoke token "+mode.id) + "\n\n" +
			styles.Info.Render("y/enter to revoke, esc to cancel")
	}
	if f := m.activeForm(); f != nil {
		return m.renderForm(f)
	}
	return ""
}

func (m *Model) renderConfirmDelete(mode *confirmDeleteMode) string {
	kind := "basin"
	if mode.isStream {
		kind = "stream"
	}
	var b strings.Builder
	b.WriteString(styles.DetailTitle.Render(fmt.Sprintf("Delete %s %s", kind, mode.target)))
	b.WriteString("\n\n")
	b.WriteString(styles.Error.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(styles.Info.Render("y/enter to delete, esc to cancel"))
	return b.String()
}

func renderTokenReveal(mode *tokenRevealMode) string {
	var b strings.Builder
	b.WriteString(styles.DetailTitle.Render("Token " + mode.id + " issued"))
	b.WriteString("\n\n")
	b.WriteString(styles.FormValue.Render(mode.secret))
	b.WriteString("\n\n")
	b.WriteString(styles.Error.Render("This secret is shown once and cannot be recovered."))
	b.WriteByte('\n')
	if mode.copied {
		b.WriteString(styles.Info.Render("copied; any other key to dismiss"))
	} else {
		b.WriteString(styles.Info.Render("y to copy, any other key to dismiss"))
	}
	return b.String()
}

func (m *Model) renderForm(f *form) string {
	var b strings.Builder
	b.WriteString(styles.DetailTitle.Render(f.title))
	b.WriteByte('\n')
	for i, field := range f.fields {
		if !f.fieldEnabled(field) {
			continue
		}
		label := field.label
		var value string
		switch field.kind {
		case fieldText:
			if f.editing && i == f.idx {
				value = f.input.View()
			} else if field.value == "" {
				value = styles.FilterPlaceholder.Render(field.placeholder)
			} else {
				value = styles.FormValue.Render(field.value)
			}
		case fieldToggle:
			if field.on {
				value = styles.FormValue.Render("[x]")
			} else {
				value = styles.FormValue.Render("[ ]")
			}
		case fieldSelect:
			value = styles.FormValue.Render("◂ " + field.selected() + " ▸")
		}
		line := styles.FormLabel.Render(label) + "  " + value
		if i == f.idx {
			b.WriteString(styles.FormSelected.Render("▌ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if f.errMsg != "" {
		b.WriteString(styles.Error.Render(f.errMsg))
		b.WriteByte('\n')
	}
	if m.pendingOp != "" {
		b.WriteString(styles.Loading.Render(m.spinner.View() + " working"))
	} else {
		b.WriteString(styles.Info.Render("enter to edit, ctrl+s to submit, esc to cancel"))
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	var b strings.Builder
	switch {
	case m.errMsg != "":
		b.WriteString(styles.Error.Render(truncate.String(m.errMsg, uint(maxInt(m.width-2, 10)))))
	case m.infoMsg != "":
		b.WriteString(styles.Info.Render(truncate.String(m.infoMsg, uint(maxInt(m.width-2, 10)))))
	case m.anyLoading():
		b.WriteString(styles.Loading.Render(m.spinner.View()))
	}
	b.WriteByte('\n')
	b.WriteString(styles.Footer.Render(m.keyHints()))
	return b.String()
}

func (m *Model) keyHints() string {
	switch m.screen {
	case screenBasins:
		return "enter open  / filter  c create  d delete  e edit  m metrics  tab tokens  ? help  q quit"
	case screenStreams:
		return "enter open  / filter  c create  d delete  e edit  m metrics  q back"
	case screenStreamDetail:
		return "t tail  enter read  a append  f fence  T trim  e edit  m metrics  q back"
	case screenRead:
		return "space pause  j/k scroll  g/G ends  y copy  q back"
	case screenAppend:
		return "enter edit  ctrl+s append  esc back"
	case screenTokens:
		return "c issue  d revoke  / filter  tab basins  ? help  q quit"
	case screenMetrics:
		return "r reload  q back"
	default:
		return ""
	}
}

func (m *Model) renderHelp() string {
	sections := []struct {
		title string
		keys  [][]string
	}{
		{"Global", [][]string{
			{"?", "toggle help"},
			{"ctrl+c", "quit"},
			{"tab", "switch basins / access tokens"},
			{"q, esc", "back (quit at top level)"},
		}},
		{"Lists", [][]string{
			{"j/k, arrows", "move"},
			{"g/G", "first / last"},
			{"ctrl+u/ctrl+d", "page"},
			{"/", "filter"},
			{"enter", "open"},
			{"r", "reload"},
			{"c", "create / issue"},
			{"d", "delete / revoke"},
			{"e", "reconfigure"},
		}},
		{"Stream", [][]string{
			{"t", "tail the stream live"},
			{"enter", "read with options"},
			{"a", "append records"},
			{"f", "set fencing token"},
			{"T", "trim before a sequence number"},
			{"m/M", "metrics for scope / account"},
		}},
		{"Read", [][]string{
			{"space", "pause (incoming records are discarded)"},
			{"y", "copy record body"},
		}},
	}
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styles.DetailTitle.Render(section.title))
		b.WriteByte('\n')
		for _, line := range table.Format(section.keys, []table.Alignment{table.AlignLeft, table.AlignLeft}) {
			b.WriteString(styles.DetailBody.Render("  " + line))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
