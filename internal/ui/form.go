package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldToggle
	fieldSelect
)

type formField struct {
	key         string
	label       string
	kind        fieldKind
	value       string
	on          bool
	options     []string
	optIdx      int
	placeholder string
	// enabled gates navigation; a disabled field is skipped and ignored on
	// submit.
	enabled func(*form) bool
}

func textField(key, label, placeholder string) *formField {
	return &formField{key: key, label: label, kind: fieldText, placeholder: placeholder}
}

func toggleField(key, label string, on bool) *formField {
	return &formField{key: key, label: label, kind: fieldToggle, on: on}
}

func selectField(key, label string, options ...string) *formField {
	return &formField{key: key, label: label, kind: fieldSelect, options: options}
}

func (f *formField) selected() string {
	if len(f.options) == 0 {
		return ""
	}
	if f.optIdx < 0 || f.optIdx >= len(f.options) {
		return f.options[0]
	}
	return f.options[f.optIdx]
}

func (f *formField) selectOption(value string) {
	for i, opt := range f.options {
		if opt == value {
			f.optIdx = i
			return
		}
	}
}

type formAction int

const (
	formHandled formAction = iota
	formSubmit
	formCancel
)

// form is a modal field editor. Navigation moves between enabled fields;
// Enter opens a text field for editing or flips a toggle; ctrl+s submits.
type form struct {
	title   string
	fields  []*formField
	idx     int
	editing bool
	input   textinput.Model
	errMsg  string
}

func newForm(title string, fields ...*formField) *form {
	input := textinput.New()
	input.CharLimit = 512
	input.Prompt = ""
	f := &form{title: title, fields: fields, input: input}
	if !f.currentEnabled() {
		f.next()
	}
	return f
}

func (f *form) field(key string) *formField {
	for _, field := range f.fields {
		if field.key == key {
			return field
		}
	}
	return nil
}

func (f *form) current() *formField {
	if f.idx < 0 || f.idx >= len(f.fields) {
		return nil
	}
	return f.fields[f.idx]
}

func (f *form) fieldEnabled(field *formField) bool {
	if field == nil {
		return false
	}
	if field.enabled == nil {
		return true
	}
	return field.enabled(f)
}

func (f *form) currentEnabled() bool {
	return f.fieldEnabled(f.current())
}

func (f *form) next() {
	f.moveBy(1)
}

func (f *form) prev() {
	f.moveBy(-1)
}

func (f *form) moveBy(delta int) {
	if len(f.fields) == 0 {
		return
	}
	idx := f.idx
	for i := 0; i < len(f.fields); i++ {
		idx += delta
		if idx < 0 {
			idx = len(f.fields) - 1
		}
		if idx >= len(f.fields) {
			idx = 0
		}
		if f.fieldEnabled(f.fields[idx]) {
			f.idx = idx
			return
		}
	}
}

func (f *form) startEdit() tea.Cmd {
	field := f.current()
	if field == nil || field.kind != fieldText {
		return nil
	}
	f.editing = true
	f.input.SetValue(field.value)
	f.input.Placeholder = field.placeholder
	f.input.CursorEnd()
	return f.input.Focus()
}

func (f *form) commitEdit() {
	if field := f.current(); field != nil {
		field.value = f.input.Value()
	}
	f.editing = false
	f.input.Blur()
}

func (f *form) cancelEdit() {
	f.editing = false
	f.input.Blur()
}

// handleKey processes one key press. The caller owns formSubmit and
// formCancel; everything else is internal state movement.
func (f *form) handleKey(msg tea.KeyMsg) (formAction, tea.Cmd) {
	if f.editing {
		switch msg.String() {
		case "enter":
			f.commitEdit()
			return formHandled, nil
		case "esc":
			f.cancelEdit()
			return formHandled, nil
		default:
			var cmd tea.Cmd
			f.input, cmd = f.input.Update(msg)
			return formHandled, cmd
		}
	}
	switch msg.String() {
	case "esc", "q":
		return formCancel, nil
	case "ctrl+s":
		return formSubmit, nil
	case "down", "j", "tab":
		f.next()
		return formHandled, nil
	case "up", "k", "shift+tab":
		f.prev()
		return formHandled, nil
	case "enter", " ":
		field := f.current()
		if field == nil {
			return formHandled, nil
		}
		switch field.kind {
		case fieldText:
			if msg.String() == "enter" {
				return formHandled, f.startEdit()
			}
		case fieldToggle:
			field.on = !field.on
		case fieldSelect:
			field.optIdx = (field.optIdx + 1) % len(field.options)
		}
		return formHandled, nil
	case "left", "h":
		if field := f.current(); field != nil && field.kind == fieldSelect {
			field.optIdx--
			if field.optIdx < 0 {
				field.optIdx = len(field.options) - 1
			}
		}
		return formHandled, nil
	case "right", "l":
		if field := f.current(); field != nil && field.kind == fieldSelect {
			field.optIdx = (field.optIdx + 1) % len(field.options)
		}
		return formHandled, nil
	}
	return formHandled, nil
}

func (f *form) textValue(key string) string {
	if field := f.field(key); field != nil {
		return strings.TrimSpace(field.value)
	}
	return ""
}

func (f *form) boolValue(key string) bool {
	if field := f.field(key); field != nil {
		return field.on
	}
	return false
}

func (f *form) selectValue(key string) string {
	if field := f.field(key); field != nil {
		return field.selected()
	}
	return ""
}

// uintValue parses an optional numeric field. Empty returns (nil, ok).
func (f *form) uintValue(key string) (*uint64, bool) {
	raw := f.textValue(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}
