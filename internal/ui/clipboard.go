package ui

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// copyText puts text on the system clipboard. When no native clipboard is
// reachable (SSH sessions, bare terminals) it falls back to an OSC 52
// escape, which most modern terminal emulators honor.
func copyText(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	defer tty.Close()
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if _, err := fmt.Fprintf(tty, "\x1b]52;c;%s\x07", encoded); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
