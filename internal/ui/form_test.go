package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func testNow() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func pressKey(f *form, key tea.KeyMsg) formAction {
	action, _ := f.handleKey(key)
	return action
}

func TestFormSkipsDisabledFields(t *testing.T) {
	mode := newCreateStreamMode("alpha-basin")
	f := mode.form

	// retention-age is disabled while retention is at its default.
	if f.current().key != "name" {
		t.Fatalf("expected form to start on name, got %q", f.current().key)
	}
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if f.current().key != "storage-class" {
		t.Fatalf("expected storage-class next, got %q", f.current().key)
	}
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if f.current().key != "retention" {
		t.Fatalf("expected retention next, got %q", f.current().key)
	}
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if f.current().key == "retention-age" {
		t.Fatalf("expected disabled retention-age to be skipped")
	}

	// Cycling retention to "age" enables the field.
	f.idx = 2
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if f.selectValue("retention") != "age" {
		t.Fatalf("expected retention cycled to age, got %q", f.selectValue("retention"))
	}
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if f.current().key != "retention-age" {
		t.Fatalf("expected retention-age reachable once enabled, got %q", f.current().key)
	}
}

func TestFormToggleAndSubmit(t *testing.T) {
	f := newForm("test",
		toggleField("flag", "Flag", false),
	)
	if pressKey(f, tea.KeyMsg{Type: tea.KeyEnter}) != formHandled {
		t.Fatalf("expected enter on a toggle to be handled internally")
	}
	if !f.boolValue("flag") {
		t.Fatalf("expected enter to flip the toggle")
	}
	if pressKey(f, tea.KeyMsg{Type: tea.KeyCtrlS}) != formSubmit {
		t.Fatalf("expected ctrl+s to submit")
	}
	if pressKey(f, tea.KeyMsg{Type: tea.KeyEsc}) != formCancel {
		t.Fatalf("expected esc to cancel")
	}
}

func TestFormTextEditing(t *testing.T) {
	f := newForm("test", textField("name", "Name", "placeholder"))
	pressKey(f, tea.KeyMsg{Type: tea.KeyEnter})
	if !f.editing {
		t.Fatalf("expected enter to start editing a text field")
	}
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	pressKey(f, tea.KeyMsg{Type: tea.KeyEnter})
	if f.editing {
		t.Fatalf("expected enter to commit the edit")
	}
	if f.textValue("name") != "abc" {
		t.Fatalf("expected committed value %q, got %q", "abc", f.textValue("name"))
	}

	// Esc discards the in-progress edit.
	pressKey(f, tea.KeyMsg{Type: tea.KeyEnter})
	pressKey(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("xyz")})
	pressKey(f, tea.KeyMsg{Type: tea.KeyEsc})
	if f.textValue("name") != "abc" {
		t.Fatalf("expected esc to discard the edit, got %q", f.textValue("name"))
	}
}

func TestStreamConfigFromFormUntouchedIsNil(t *testing.T) {
	f := newForm("test", streamConfigFields()...)
	cfg, err := streamConfigFromForm(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected untouched form to produce nil config, got %#v", cfg)
	}
}

func TestStreamConfigFromFormRetentionAge(t *testing.T) {
	f := newForm("test", streamConfigFields()...)
	f.field("retention").selectOption("age")
	f.field("retention-age").value = "3600"
	cfg, err := streamConfigFromForm(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil || cfg.RetentionAgeSeconds == nil || *cfg.RetentionAgeSeconds != 3600 {
		t.Fatalf("expected retention age 3600, got %#v", cfg)
	}

	f.field("retention-age").value = "not-a-number"
	if _, err := streamConfigFromForm(f); err == nil {
		t.Fatalf("expected error for non-numeric retention age")
	}
}

func TestCreateBasinRequestValidatesName(t *testing.T) {
	mode := newCreateBasinMode()
	mode.form.field("name").value = "nope"
	if _, err := mode.request(); err == nil {
		t.Fatalf("expected short basin name rejected")
	}
	mode.form.field("name").value = "alpha-basin"
	req, err := mode.request()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Basin != "alpha-basin" {
		t.Fatalf("expected basin name carried, got %q", req.Basin)
	}
	if req.Config != nil {
		t.Fatalf("expected untouched config omitted, got %#v", req.Config)
	}
}

func TestIssueTokenRequestRequiresOpGroup(t *testing.T) {
	mode := newIssueTokenMode()
	mode.form.field("id").value = "ci-reader"
	mode.form.field("expiry").value = ""
	if _, err := mode.request(testNow()); err == nil {
		t.Fatalf("expected request without op groups rejected")
	}

	mode.form.field("op-read").on = true
	req, err := mode.request(testNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Scope.Ops) != 1 || req.Scope.Ops[0] != "read" {
		t.Fatalf("expected read op group, got %#v", req.Scope.Ops)
	}
	if req.ExpiresAt != nil {
		t.Fatalf("expected empty expiry to mean never, got %v", req.ExpiresAt)
	}
}

func TestIssueTokenRequestMatcherValues(t *testing.T) {
	mode := newIssueTokenMode()
	mode.form.field("id").value = "ci-reader"
	mode.form.field("op-read").on = true
	mode.form.field("basins").selectOption(matcherPrefix)

	if _, err := mode.request(testNow()); err == nil {
		t.Fatalf("expected empty prefix rejected")
	}
	mode.form.field("basins-value").value = "prod-"
	req, err := mode.request(testNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Scope.Basins == nil || req.Scope.Basins.Prefix != "prod-" {
		t.Fatalf("expected prefix matcher, got %#v", req.Scope.Basins)
	}

	mode.form.field("streams").selectOption(matcherExact)
	mode.form.field("streams-value").value = "events/prod"
	req, err = mode.request(testNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Scope.Streams == nil || req.Scope.Streams.Exact != "events/prod" {
		t.Fatalf("expected exact matcher, got %#v", req.Scope.Streams)
	}
}

func TestAppendInputFromForm(t *testing.T) {
	f := newAppendForm()
	f.field("body").value = "hello"
	f.field("headers").value = "kind=greeting, source=test"
	f.field("match-seq").value = "41"

	input, err := appendInputFromForm(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(input.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(input.Records))
	}
	rec := input.Records[0]
	if string(rec.Body) != "hello" {
		t.Fatalf("expected body carried, got %q", rec.Body)
	}
	if len(rec.Headers) != 2 || string(rec.Headers[0].Name) != "kind" || string(rec.Headers[1].Value) != "test" {
		t.Fatalf("unexpected headers: %#v", rec.Headers)
	}
	if input.MatchSeqNum == nil || *input.MatchSeqNum != 41 {
		t.Fatalf("expected match seq 41, got %#v", input.MatchSeqNum)
	}

	f.field("headers").value = "missing-value"
	if _, err := appendInputFromForm(f); err == nil {
		t.Fatalf("expected malformed header rejected")
	}
}
