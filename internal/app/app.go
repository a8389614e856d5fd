package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	AccessToken     string
	AccountEndpoint string
	BasinEndpoint   string
	// StartURI is an optional s2://basin/stream deep link opened after the
	// splash.
	StartURI     string
	Version      string
	CheckUpdates bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	client, err := s2.NewClient(s2.Config{
		AccessToken:     cfg.AccessToken,
		AccountEndpoint: cfg.AccountEndpoint,
		BasinEndpoint:   cfg.BasinEndpoint,
		UserAgent:       "s2-tui/" + cfg.Version,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	opts := ui.Options{
		Version:      cfg.Version,
		CheckUpdates: cfg.CheckUpdates,
	}
	if cfg.StartURI != "" {
		uri, err := s2.ParseURI(cfg.StartURI)
		if err != nil {
			return fmt.Errorf("parse start uri: %w", err)
		}
		opts.StartBasin = uri.Basin
		opts.StartStream = uri.Stream
	}
	model := ui.NewModel(client, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
