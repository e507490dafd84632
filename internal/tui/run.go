package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits or ctx is canceled.
func Run(ctx context.Context, loader Loader, opts ...Option) error {
	if loader == nil {
		return fmt.Errorf("dashboard requires a report loader")
	}

	p := tea.NewProgram(NewModel(ctx, loader, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	if m, ok := final.(Model); ok && m.Err() != nil && m.Report() == nil {
		return m.Err()
	}
	return nil
}
