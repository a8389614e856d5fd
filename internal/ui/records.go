package ui

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/s2-streamstore/s2-tui/internal/s2"
)

func parseHeaders(raw string) ([]s2.Header, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	headers := make([]s2.Header, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q must be name=value", part)
		}
		headers = append(headers, s2.Header{
			Name:  []byte(strings.TrimSpace(name)),
			Value: []byte(strings.TrimSpace(value)),
		})
	}
	return headers, nil
}

// bodyPreview renders a record body as a single printable line. Valid UTF-8
// has its control characters escaped; anything else is shown as hex.
func bodyPreview(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if !utf8.Valid(body) {
		const maxHex = 48
		if len(body) > maxHex {
			return "0x" + hex.EncodeToString(body[:maxHex]) + "…"
		}
		return "0x" + hex.EncodeToString(body)
	}
	var b strings.Builder
	b.Grow(len(body))
	for _, r := range string(body) {
		switch {
		case r == '\n':
			b.WriteString("\\n")
		case r == '\t':
			b.WriteString("\\t")
		case r == '\r':
			b.WriteString("\\r")
		case unicode.IsControl(r):
			fmt.Fprintf(&b, "\\x%02x", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func recordLabel(rec s2.SequencedRecord) string {
	if cmd, ok := rec.IsCommand(); ok {
		switch cmd {
		case "fence":
			return fmt.Sprintf("[fence %s]", bodyPreview(rec.Body))
		case "trim":
			return fmt.Sprintf("[trim %s]", bodyPreview(rec.Body))
		default:
			return fmt.Sprintf("[%s]", cmd)
		}
	}
	return bodyPreview(rec.Body)
}

func formatRecordTime(millis uint64) string {
	if millis == 0 {
		return "-"
	}
	return time.UnixMilli(int64(millis)).UTC().Format("15:04:05.000")
}

func formatPosition(pos s2.StreamPosition) string {
	return fmt.Sprintf("seq %d @ %s", pos.SeqNum, formatRecordTime(pos.Timestamp))
}
