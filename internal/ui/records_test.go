package ui

import (
	"testing"

	"github.com/s2-streamstore/s2-tui/internal/s2"
)

func TestBodyPreviewEscapesControlCharacters(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{nil, ""},
		{[]byte("plain"), "plain"},
		{[]byte("line1\nline2"), "line1\\nline2"},
		{[]byte("tab\there"), "tab\\there"},
		{[]byte{0x01}, "\\x01"},
	}
	for _, tc := range cases {
		if got := bodyPreview(tc.in); got != tc.want {
			t.Errorf("bodyPreview(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBodyPreviewHexForBinary(t *testing.T) {
	got := bodyPreview([]byte{0xff, 0xfe, 0x00})
	if got != "0xfffe00" {
		t.Fatalf("expected hex preview, got %q", got)
	}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 0xff
	}
	got = bodyPreview(long)
	if len(got) != 2+48*2+len("…") {
		t.Fatalf("expected capped hex preview, got %d chars: %q", len(got), got)
	}
}

func TestRecordLabelForCommands(t *testing.T) {
	fence := s2.FenceCommand("zone-a")
	rec := s2.SequencedRecord{Headers: fence.Headers, Body: fence.Body}
	if got := recordLabel(rec); got != "[fence zone-a]" {
		t.Fatalf("fence label = %q", got)
	}

	plain := s2.SequencedRecord{Body: []byte("hello")}
	if got := recordLabel(plain); got != "hello" {
		t.Fatalf("plain label = %q", got)
	}
}

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders(" kind=greeting ,source=test,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(headers))
	}
	if string(headers[0].Name) != "kind" || string(headers[0].Value) != "greeting" {
		t.Fatalf("unexpected first header: %q=%q", headers[0].Name, headers[0].Value)
	}

	if _, err := parseHeaders("novalue"); err == nil {
		t.Fatalf("expected error for header without =")
	}
	if headers, err := parseHeaders("  "); err != nil || headers != nil {
		t.Fatalf("expected empty input to parse to nil, got %#v, %v", headers, err)
	}
}

func TestFormatRecordTime(t *testing.T) {
	if got := formatRecordTime(0); got != "-" {
		t.Fatalf("zero timestamp = %q", got)
	}
	// 2026-03-01T12:30:45.500Z
	if got := formatRecordTime(1772368245500); got != "12:30:45.500" {
		t.Fatalf("timestamp = %q", got)
	}
}
